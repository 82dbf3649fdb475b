package main

import (
	"errors"
	"fmt"

	"github.com/davidvella/marc/ingest"
	"github.com/davidvella/marc/store/pebble"
	"github.com/spf13/cobra"
)

func newLoadCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "load --db <dir> <file>...",
		Short: "Load records into a catalogue keyed by control number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(db)
			if err != nil {
				return err
			}
			defer st.Close()

			loader := ingest.NewLoader(st, a.logger)
			err = loader.LoadInputs(cmd.Context(), a.inputs(cmd, args), a.readerOptions()...)

			s := loader.Summary()
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d, decode errors %d, construction errors %d, skipped %d\n",
				s.Loaded, s.DecodeErrors, s.ConstructionErrors, s.Skipped)

			return err
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "catalogue directory (defaults to store.path from the config)")

	return cmd
}

func (a *app) openStore(db string) (*pebble.Storage, error) {
	opts := a.cfg.StorageOptions(db)
	if opts.Path == "" {
		return nil, errors.New("no catalogue directory: pass --db or set store.path")
	}
	return pebble.NewStorage(opts)
}
