// Package consumer processes MARC batch files as they arrive. It implements a
// polling consumer with configurable concurrency; each batch is framed with a
// marc.Reader and its records are passed to a handler.Handler. A batch is
// completed (moved or removed by the Storage) only when the handler succeeds.
//
// Basic usage with default options:
//
//	storage := local.NewLocalStorage("inbox", "done")
//	h := ingest.NewLoader(catalogue, logger)
//
//	c := consumer.New(storage, h, consumer.DefaultOptions())
//
//	// Start processing in background
//	ctx := context.Background()
//	go func() {
//	    if err := c.Start(ctx); err != nil {
//	        log.Printf("Consumer error: %v", err)
//	    }
//	}()
//
//	// Stop gracefully when done
//	c.Stop()
//
// Custom configuration:
//
//	opts := consumer.Options{
//	    PollInterval:   time.Second,
//	    MaxConcurrency: 5,
//	    WatchDir:       "inbox",
//	    ReaderOptions:  []marc.Option{marc.WithUTF8Handling(decode.Replace)},
//	}
//	c := consumer.New(storage, h, opts)
//
// Single processing run:
//
//	if err := c.Process(ctx); err != nil {
//	    log.Printf("Processing error: %v", err)
//	}
//
// Features:
//   - Concurrent batch processing with configurable limits
//   - Batch completion after successful processing
//   - Directory watching with fsnotify in addition to polling
//   - Graceful shutdown support
//   - Context cancellation support
package consumer
