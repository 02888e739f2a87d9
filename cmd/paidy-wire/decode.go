package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndrewDonelson/paidy"
)

func decodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a JSON document into a record",
		Long: `Decode a JSON document (file argument or stdin) into the named record
and print its codec fields and plain members as JSON. On failure the
structured codec error is printed instead and the command exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("record")
			rec, err := newRecord(name)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			c, err := a.codecs("")
			if err != nil {
				return err
			}

			if err := c.Decode(data, rec); err != nil {
				_ = printJSON(cmd.OutOrStdout(), describeError(err))
				return fmt.Errorf("decode %s: %w", name, err)
			}
			a.log.Info("decoded", zap.String("record", name), zap.String("engine", c.Engine()))
			return printJSON(cmd.OutOrStdout(), describeRecord(name, c.Engine(), rec))
		},
	}

	cmd.Flags().StringP("record", "r", "", "Record type, e.g. PaymentResponse or TokenWebhook")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}

func newRecord(name string) (paidy.Record, error) {
	rec, ok := paidy.NewRecord(name)
	if !ok {
		names := paidy.RecordNames()
		sort.Strings(names)
		return nil, fmt.Errorf("unknown record %q (known: %s)", name, strings.Join(names, ", "))
	}
	return rec, nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type recordView struct {
	Record string         `json:"record"`
	Engine string         `json:"engine"`
	Fields map[string]any `json:"fields"`
	Value  paidy.Record   `json:"value"`
}

func describeRecord(name, engine string, rec paidy.Record) recordView {
	fields := paidy.WireValues(rec)
	for path, v := range fields {
		fields[path] = displayValue(v)
	}
	return recordView{Record: name, Engine: engine, Fields: fields, Value: rec}
}

// displayValue renders codec-carried values the way they read on the wire.
func displayValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	}
	return v
}

type errorView struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
	Cause string `json:"cause,omitempty"`
}

func describeError(err error) errorView {
	v := errorView{Error: err.Error(), Kind: errorKind(err)}
	var ce *paidy.CodecError
	if errors.As(err, &ce) {
		v.Type = ce.Type
		v.Value = ce.Value
		if ce.Cause != nil {
			v.Cause = ce.Cause.Error()
		}
	}
	return v
}

var errorKinds = []struct {
	err  error
	name string
}{
	{paidy.ErrUnsupportedValue, "unsupported_value"},
	{paidy.ErrEncodeNotSupported, "encode_not_supported"},
	{paidy.ErrDecodeNotSupported, "decode_not_supported"},
	{paidy.ErrMalformedToken, "malformed_token"},
	{paidy.ErrParseFailed, "parse_failed"},
	{paidy.ErrCodecConstruction, "codec_construction"},
}

func errorKind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}
