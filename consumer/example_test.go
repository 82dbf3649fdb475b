package consumer_test

import (
	"context"
	"fmt"
	"iter"
	"log"
	"os"
	"path/filepath"

	"github.com/davidvella/marc/consumer"
	"github.com/davidvella/marc/internal/marctest"
	"github.com/davidvella/marc/record"
	"github.com/davidvella/marc/storage/local"
	"github.com/sirupsen/logrus"
)

// Example processes every batch waiting in an inbox directory once.
func Example() {
	dir, err := os.MkdirTemp("", "consumer-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	inbox := filepath.Join(dir, "inbox")
	if err := os.Mkdir(inbox, 0o755); err != nil {
		log.Fatal(err)
	}
	batch := marctest.Join(
		marctest.Record(marctest.Control("001", "ocm001")),
		marctest.Record(marctest.Control("001", "ocm002")),
	)
	if err := os.WriteFile(filepath.Join(inbox, "daily.mrc"), batch, 0o644); err != nil {
		log.Fatal(err)
	}

	storage := local.NewLocalStorage(inbox, filepath.Join(dir, "done"))

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	opts := consumer.DefaultOptions()
	opts.Logger = logger

	c := consumer.New(storage, &ExampleHandler{}, opts)
	if err := c.Process(context.Background()); err != nil {
		log.Fatal(err)
	}

	// Output:
	// daily.mrc: ocm001
	// daily.mrc: ocm002
}

// ExampleHandler prints the control number of every record it is handed.
type ExampleHandler struct {
	processed int
}

func (h *ExampleHandler) Handle(_ context.Context, name string, records iter.Seq2[*record.Record, error]) error {
	for rec, err := range records {
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", name, rec.ControlNumber())
		h.processed++
	}
	return nil
}
