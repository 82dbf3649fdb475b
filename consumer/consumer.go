package consumer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/davidvella/marc"
	"github.com/davidvella/marc/handler"
	"github.com/davidvella/marc/source"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Storage defines the interface for reading MARC batch files.
type Storage interface {
	// List lists the batches waiting to be processed.
	List(ctx context.Context) ([]string, error)
	// Open opens a batch for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Complete removes a processed batch from the waiting set.
	Complete(ctx context.Context, name string) error
}

type Consumer struct {
	storage         Storage
	handler         handler.Handler
	pollInterval    time.Duration
	maxConcurrency  int
	watchDir        string
	readerOpts      []marc.Option
	logger          logrus.FieldLogger
	processingFiles sync.Map
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

type Options struct {
	PollInterval   time.Duration
	MaxConcurrency int
	// WatchDir, when set, triggers a poll as soon as a file is created in or
	// moved into the directory.
	WatchDir string
	// ReaderOptions are applied to every batch reader.
	ReaderOptions []marc.Option
	Logger        logrus.FieldLogger
}

// DefaultOptions returns the default configuration options.
func DefaultOptions() Options {
	return Options{
		PollInterval:   5 * time.Second,
		MaxConcurrency: 10,
	}
}

func New(storage Storage, h handler.Handler, opts Options) *Consumer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 1
	}

	var logger logrus.FieldLogger = logrus.StandardLogger()
	if opts.Logger != nil {
		logger = opts.Logger
	}

	return &Consumer{
		storage:        storage,
		handler:        h,
		pollInterval:   opts.PollInterval,
		maxConcurrency: opts.MaxConcurrency,
		watchDir:       opts.WatchDir,
		readerOpts:     append([]marc.Option{marc.WithLogger(logger)}, opts.ReaderOptions...),
		logger:         logger.WithField("component", "consumer"),
		stopChan:       make(chan struct{}),
	}
}

// Start begins the background polling and processing of batches. It returns
// when ctx is cancelled or Stop is called.
func (c *Consumer) Start(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	events, closeWatch, err := c.watch()
	if err != nil {
		return err
	}
	defer closeWatch()

	// Process immediately on start
	if err := c.poll(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopChan:
			return nil
		case <-ticker.C:
		case <-events:
		}

		if err := c.poll(ctx); err != nil {
			// Log error but continue polling
			c.logger.WithError(err).Warn("error polling")
		}
	}
}

// watch returns a channel that receives when the watched directory gains a
// file. With no watch directory the channel is nil and never receives.
func (c *Consumer) watch() (<-chan struct{}, func(), error) {
	if c.watchDir == "" {
		return nil, func() {}, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(c.watchDir); err != nil {
		w.Close()
		return nil, nil, fmt.Errorf("failed to watch %s: %w", c.watchDir, err)
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.logger.WithError(err).Warn("watch error")
			}
		}
	}()

	return out, func() {
		close(done)
		w.Close()
	}, nil
}

// Stop gracefully shuts down the consumer.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
}

func (c *Consumer) poll(ctx context.Context) error {
	files, err := c.storage.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list batch files: %w", err)
	}

	// Create a semaphore channel to limit concurrent processing
	sem := make(chan struct{}, c.maxConcurrency)

	for _, file := range files {
		// Skip if file is already being processed
		if _, exists := c.processingFiles.LoadOrStore(file, struct{}{}); exists {
			continue
		}

		// Wait for space in the semaphore
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			c.processingFiles.Delete(file)
			return ctx.Err()
		}

		c.wg.Add(1)
		go func(file string) {
			defer func() {
				c.processingFiles.Delete(file)
				<-sem
				c.wg.Done()
			}()

			if err := c.processFile(ctx, file); err != nil {
				c.logger.WithError(err).WithField("file", file).Error("error processing file")
			}
		}(file)
	}

	return nil
}

func (c *Consumer) processFile(ctx context.Context, name string) error {
	rc, err := c.storage.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	r, err := marc.NewReader(source.Stream(rc), c.readerOpts...)
	if err != nil {
		rc.Close()
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer r.Close()

	if err := c.handler.Handle(ctx, name, r.All()); err != nil {
		return err
	}

	// The handle is released before the batch is moved.
	if err := r.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return c.storage.Complete(ctx, name)
}

// Process reads and processes all waiting batches once, in order.
func (c *Consumer) Process(ctx context.Context) error {
	files, err := c.storage.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list batch files: %w", err)
	}

	for _, file := range files {
		if err := c.processFile(ctx, file); err != nil {
			return fmt.Errorf("failed to process file %s: %w", file, err)
		}
	}

	return nil
}
