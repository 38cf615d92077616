package worker

import (
	"context"
	"fmt"
	"time"

	"cantiere/internal/amqp"
	"cantiere/internal/core"
	"cantiere/internal/export"
	"cantiere/internal/log"

	"golang.org/x/sync/errgroup"
)

type (
	// LedgerReader is the slice of the store the worker needs.
	LedgerReader interface {
		FetchAll(ctx context.Context) ([]core.Record, error)
	}

	// EventConsumer delivers ledger change events until the context ends.
	EventConsumer interface {
		ConsumeLedgerEvents(ctx context.Context, handler func(*amqp.LedgerEventMessage) error) error
	}
)

// ExportWorker mirrors the ledger to an external spreadsheet. Every change
// event triggers a full snapshot export; a periodic re-export covers events
// lost while the worker was down.
type ExportWorker struct {
	store  LedgerReader
	writer export.SnapshotWriter
	logger *log.Logger
}

func NewExportWorker(store LedgerReader, writer export.SnapshotWriter, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		store:  store,
		writer: writer,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes one ledger event by re-exporting the snapshot.
// The event payload is only a trigger; the store is the source of truth.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger event", "id", msg.ID, "kind", msg.Kind)
	return w.Export(ctx)
}

// Export reads the full ledger and rewrites the mirror.
func (w *ExportWorker) Export(ctx context.Context) error {
	records, err := w.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	if err := w.writer.WriteSnapshot(ctx, records); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	w.logger.InfoContext(ctx, "Ledger snapshot exported", "records", len(records))
	return nil
}

// Run consumes change events and re-exports on a fixed interval, returning
// when the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, consumer EventConsumer, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
			return w.HandleEvent(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Export(ctx); err != nil {
					w.logger.ErrorContext(ctx, "Periodic export failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}
