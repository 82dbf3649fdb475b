package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/davidvella/marc"
	"github.com/davidvella/marc/source"
	"github.com/spf13/cobra"
)

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>...",
		Short: "Print the offset, length, control number and title of every record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tOFFSET\tLENGTH\tID\tTITLE")

			for _, in := range a.inputs(cmd, args) {
				if err := a.dump(w, in); err != nil {
					w.Flush()
					return err
				}
			}
			return w.Flush()
		},
	}

	return cmd
}

func (a *app) dump(w io.Writer, in source.Input) error {
	r, err := marc.NewReader(in, a.readerOptions()...)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		var (
			de *marc.DecodeError
			ce *marc.ConstructionError
		)

		rec, err := r.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &de):
			fmt.Fprintf(w, "%s\t%d\t%d\t-\t(%v)\n", in.Name(), de.Offset, de.Length, de.Err)
			continue
		case errors.As(err, &ce):
			fmt.Fprintf(w, "%s\t%d\t%d\t-\t(%v)\n", in.Name(), ce.Offset, ce.Length, ce.Err)
			continue
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", in.Name(), err)
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", in.Name(), rec.Offset, rec.Length, rec.ControlNumber(), rec.Title())
	}
}
