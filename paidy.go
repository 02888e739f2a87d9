// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// paidy.go — Codecs, the entry point of the wire layer: builds the field
// registry once from every record's declarations and decodes or encodes
// records on the configured JSON engine.

package paidy

import (
	"fmt"

	"github.com/AndrewDonelson/paidy/internal/clock"
	"github.com/AndrewDonelson/paidy/internal/codec"
	"github.com/AndrewDonelson/paidy/internal/metrics"
	"github.com/AndrewDonelson/paidy/internal/wire"
)

// Codecs decodes and encodes records. It is immutable after New and safe
// for concurrent use.
type Codecs struct {
	cfg      Config
	backend  codec.Backend
	registry *wire.Registry
	metrics  metrics.Recorder
	logger   Logger
	clock    clock.Clock
}

// New validates cfg and builds the codec registry. Any descriptor the
// factory rejects fails New; no partially built Codecs is returned.
func New(cfg Config) (*Codecs, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	backend, err := codec.Lookup(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownEngine, err)
	}

	var specs []wire.FieldSpec
	for _, rec := range records() {
		for _, b := range rec.wireFields() {
			specs = append(specs, wire.FieldSpec{Key: b.key(rec), Descriptor: b.desc})
		}
	}
	reg, err := wire.Build(wire.Default(), specs)
	if err != nil {
		cfg.Logger.Error("codec registry build failed", "error", err)
		return nil, fmt.Errorf("paidy: build codecs: %w", err)
	}
	cfg.Logger.Debug("codec registry built", "engine", backend.Name(), "fields", reg.Len())

	return &Codecs{
		cfg:      cfg,
		backend:  backend,
		registry: reg,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
	}, nil
}

// Engine returns the name of the JSON backend in use.
func (c *Codecs) Engine() string { return c.backend.Name() }

// Decode fills rec from data.
func (c *Codecs) Decode(data []byte, rec Record) error {
	if isNil(rec) {
		return ErrNilRecord
	}
	name := rec.RecordName()
	start := c.clock.Now()
	err := decodeRecord(c.backend, c.registry, data, rec, func(path string) {
		c.metrics.RecordDecode(name, path)
	})
	c.metrics.RecordLatency(name, "decode", clock.Since(c.clock, start))
	if err != nil {
		c.metrics.RecordError(name, "decode")
		c.logger.Debug("decode failed", "record", name, "engine", c.backend.Name(), "error", err)
	}
	return err
}

// Encode renders rec as JSON.
func (c *Codecs) Encode(rec Record) ([]byte, error) {
	if isNil(rec) {
		return nil, ErrNilRecord
	}
	name := rec.RecordName()
	start := c.clock.Now()
	data, err := encodeRecord(c.backend, c.registry, rec)
	c.metrics.RecordLatency(name, "encode", clock.Since(c.clock, start))
	if err != nil {
		c.metrics.RecordError(name, "encode")
		c.logger.Debug("encode failed", "record", name, "engine", c.backend.Name(), "error", err)
		return nil, err
	}
	return data, nil
}

// DecodeAs is a generic convenience wrapper around Decode.
func DecodeAs[T any, PT interface {
	*T
	Record
}](c *Codecs, data []byte) (*T, error) {
	var v T
	if err := c.Decode(data, PT(&v)); err != nil {
		return nil, err
	}
	return &v, nil
}

// ParsePaymentWebhook decodes the body of a payment webhook.
func (c *Codecs) ParsePaymentWebhook(body []byte) (*PaymentWebhook, error) {
	return DecodeAs[PaymentWebhook](c, body)
}

// ParseTokenWebhook decodes the body of a token webhook.
func (c *Codecs) ParseTokenWebhook(body []byte) (*TokenWebhook, error) {
	return DecodeAs[TokenWebhook](c, body)
}

// FieldInfo describes one registered codec field.
type FieldInfo struct {
	Record    string
	Path      string
	Kind      string
	Codec     string
	Direction string
}

// Fields lists every registered codec field, sorted by record and path.
func (c *Codecs) Fields() []FieldInfo {
	keys := c.registry.Fields()
	out := make([]FieldInfo, 0, len(keys))
	for _, k := range keys {
		cd, _ := c.registry.Lookup(k)
		d, _ := c.registry.Descriptor(k)
		out = append(out, FieldInfo{
			Record:    k.Record,
			Path:      k.Path,
			Kind:      d.Kind,
			Codec:     cd.TypeName(),
			Direction: cd.Direction().String(),
		})
	}
	return out
}
