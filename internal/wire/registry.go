package wire

import (
	"fmt"
	"sort"
)

// FieldKey identifies one codec-carried field: the record name and the
// dotted member path inside it ("reason.code").
type FieldKey struct {
	Record string
	Path   string
}

func (k FieldKey) String() string { return k.Record + "." + k.Path }

// FieldSpec declares the descriptor for one field.
type FieldSpec struct {
	Key        FieldKey
	Descriptor Descriptor
}

type registryEntry struct {
	desc  Descriptor
	codec Codec
}

// Registry maps fields to their codecs. It is built once by Build and never
// modified afterwards, so lookups need no locking.
type Registry struct {
	entries map[FieldKey]registryEntry
	keys    []FieldKey
}

// Build constructs a codec for every spec using f. A duplicate key or any
// construction failure aborts the whole build; no partial registry is
// returned.
func Build(f *Factory, specs []FieldSpec) (*Registry, error) {
	if f == nil {
		f = defaultFactory
	}
	r := &Registry{entries: make(map[FieldKey]registryEntry, len(specs))}
	for _, s := range specs {
		if _, dup := r.entries[s.Key]; dup {
			return nil, &ConstructionError{Kind: s.Descriptor.Kind, Reason: fmt.Sprintf("field %s declared twice", s.Key)}
		}
		c, err := f.Build(s.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("wire: field %s: %w", s.Key, err)
		}
		r.entries[s.Key] = registryEntry{desc: s.Descriptor, codec: c}
		r.keys = append(r.keys, s.Key)
	}
	sort.Slice(r.keys, func(i, j int) bool {
		if r.keys[i].Record != r.keys[j].Record {
			return r.keys[i].Record < r.keys[j].Record
		}
		return r.keys[i].Path < r.keys[j].Path
	})
	return r, nil
}

// Lookup returns the codec registered for k.
func (r *Registry) Lookup(k FieldKey) (Codec, bool) {
	e, ok := r.entries[k]
	return e.codec, ok
}

// Descriptor returns the descriptor k was built from.
func (r *Registry) Descriptor(k FieldKey) (Descriptor, bool) {
	e, ok := r.entries[k]
	return e.desc, ok
}

// Fields returns every registered key, sorted by record then path.
func (r *Registry) Fields() []FieldKey {
	out := make([]FieldKey, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int { return len(r.entries) }
