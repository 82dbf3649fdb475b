package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/davidvella/marc"
	"github.com/davidvella/marc/source"
	"github.com/spf13/cobra"
)

type counts struct {
	records      int
	decode       int
	construction int
}

func newCountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <file>...",
		Short: "Count the records of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tRECORDS\tDECODE_ERRORS\tCONSTRUCTION_ERRORS")

			var total counts
			for _, in := range a.inputs(cmd, args) {
				c, err := a.count(in)
				if err != nil {
					w.Flush()
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", in.Name(), c.records, c.decode, c.construction)

				total.records += c.records
				total.decode += c.decode
				total.construction += c.construction
			}
			if len(args) > 1 {
				fmt.Fprintf(w, "total\t%d\t%d\t%d\n", total.records, total.decode, total.construction)
			}
			return w.Flush()
		},
	}

	return cmd
}

func (a *app) count(in source.Input) (counts, error) {
	var c counts

	r, err := marc.NewReader(in, a.readerOptions()...)
	if err != nil {
		return c, err
	}
	defer r.Close()

	for _, err := range r.All() {
		var (
			de *marc.DecodeError
			ce *marc.ConstructionError
		)
		switch {
		case errors.As(err, &de):
			c.decode++
		case errors.As(err, &ce):
			c.construction++
		case err != nil:
			return c, fmt.Errorf("failed to read %s: %w", in.Name(), err)
		default:
			c.records++
		}
	}
	return c, nil
}
