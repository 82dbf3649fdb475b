package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidvella/marc/consumer"
	"github.com/davidvella/marc/ingest"
	"github.com/davidvella/marc/storage/local"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var db, inbox, done string

	cmd := &cobra.Command{
		Use:   "watch --db <dir> --inbox <dir> [--done <dir>]",
		Short: "Load batches into a catalogue as they arrive in an inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := a.cfg.Watch
			if inbox == "" {
				inbox = w.Inbox
			}
			if done == "" {
				done = w.Done
			}
			if inbox == "" {
				return errors.New("no inbox directory: pass --inbox or set watch.inbox")
			}
			if err := os.MkdirAll(inbox, 0o755); err != nil {
				return fmt.Errorf("failed to create inbox: %w", err)
			}

			st, err := a.openStore(db)
			if err != nil {
				return err
			}
			defer st.Close()

			storage := local.NewLocalStorage(inbox, done)
			if len(w.Extensions) > 0 {
				storage.WithExtensions(w.Extensions...)
			}

			loader := ingest.NewLoader(st, a.logger)
			c := consumer.New(storage, loader, consumer.Options{
				PollInterval:   w.PollInterval,
				MaxConcurrency: w.MaxConcurrency,
				WatchDir:       inbox,
				ReaderOptions:  a.readerOptions(),
				Logger:         a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.WithFields(logrus.Fields{
				"inbox": inbox,
				"done":  done,
			}).Info("watching for batches")

			err = c.Start(ctx)
			c.Stop()

			s := loader.Summary()
			a.logger.WithFields(logrus.Fields{
				"loaded":              s.Loaded,
				"decode_errors":       s.DecodeErrors,
				"construction_errors": s.ConstructionErrors,
				"skipped":             s.Skipped,
			}).Info("stopped watching")

			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "catalogue directory (defaults to store.path from the config)")
	cmd.Flags().StringVar(&inbox, "inbox", "", "directory batches arrive in (defaults to watch.inbox)")
	cmd.Flags().StringVar(&done, "done", "", "directory processed batches are moved to; removed when empty")

	return cmd
}
