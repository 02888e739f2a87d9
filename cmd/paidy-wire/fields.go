package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fieldsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List registered codec fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codecs("")
			if err != nil {
				return err
			}
			record, _ := cmd.Flags().GetString("record")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s %-18s %-16s %-18s %s\n", "RECORD", "PATH", "KIND", "CODEC", "DIRECTION")
			n := 0
			for _, f := range c.Fields() {
				if record != "" && f.Record != record {
					continue
				}
				fmt.Fprintf(out, "%-16s %-18s %-16s %-18s %s\n", f.Record, f.Path, f.Kind, f.Codec, f.Direction)
				n++
			}
			a.log.Debug(fmt.Sprintf("listed %d fields", n))
			return nil
		},
	}

	cmd.Flags().StringP("record", "r", "", "Only fields of this record")

	return cmd
}
