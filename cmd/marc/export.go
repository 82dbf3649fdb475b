package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/davidvella/marc/entryio"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "export --db <dir> [file]",
		Short: "Write every catalogued entry to a file in control number order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(db)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer f.Close()
				out = f
			}

			w := bufio.NewWriter(out)
			var n int
			for e, err := range st.All(cmd.Context()) {
				if err != nil {
					return err
				}
				if _, err := entryio.Write(w, e); err != nil {
					return fmt.Errorf("failed to export entry %s: %w", e.ControlNumber, err)
				}
				n++
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to flush export: %w", err)
			}

			a.logger.WithField("entries", n).Info("catalogue exported")
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "catalogue directory (defaults to store.path from the config)")

	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "import --db <dir> [file]",
		Short: "Load entries written by export into a catalogue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer f.Close()
				in = f
			}

			st, err := a.openStore(db)
			if err != nil {
				return err
			}
			defer st.Close()

			var n int
			for e, err := range entryio.Seq(bufio.NewReader(in)) {
				if err != nil {
					return fmt.Errorf("failed to import after %d entries: %w", n, err)
				}
				if err := st.Put(cmd.Context(), e); err != nil {
					return err
				}
				n++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "catalogue directory (defaults to store.path from the config)")

	return cmd
}
