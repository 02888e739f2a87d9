package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errParityMismatch = errors.New("engines disagree")

// outcome is what one engine made of a document.
type outcome struct {
	Engine string
	Kind   string
	Error  string
	Record []byte
}

func parityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parity [file]",
		Short: "Decode a document with every engine and compare the outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("record")
			if _, err := newRecord(name); err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var outs []outcome
			for _, engine := range []string{"json", "sonic"} {
				o, err := a.decodeWith(engine, name, data)
				if err != nil {
					return err
				}
				outs = append(outs, o)
			}

			out := cmd.OutOrStdout()
			for _, o := range outs {
				fmt.Fprintf(out, "%-6s %s\n", o.Engine, o.Kind)
			}
			if !sameOutcome(outs[0], outs[1]) {
				a.log.Warn("parity mismatch", zap.String("record", name),
					zap.String("json", outs[0].Kind), zap.String("sonic", outs[1].Kind))
				fmt.Fprintln(out, "MISMATCH")
				return errParityMismatch
			}
			fmt.Fprintln(out, "MATCH")
			return nil
		},
	}

	cmd.Flags().StringP("record", "r", "", "Record type, e.g. PaymentResponse or TokenWebhook")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}

// decodeWith decodes data into a fresh record on engine. Decode failures
// are part of the outcome; only setup failures are returned as errors.
func (a *app) decodeWith(engine, name string, data []byte) (outcome, error) {
	c, err := a.codecs(engine)
	if err != nil {
		return outcome{}, err
	}
	rec, err := newRecord(name)
	if err != nil {
		return outcome{}, err
	}

	o := outcome{Engine: engine}
	if err := c.Decode(data, rec); err != nil {
		o.Kind = errorKind(err)
		o.Error = err.Error()
		return o, nil
	}
	o.Kind = errorKind(nil)
	o.Record, err = json.Marshal(describeRecord(name, "", rec))
	if err != nil {
		return outcome{}, fmt.Errorf("render %s: %w", name, err)
	}
	return o, nil
}

func sameOutcome(x, y outcome) bool {
	return x.Kind == y.Kind && bytes.Equal(x.Record, y.Record)
}
