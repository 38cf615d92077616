// Package services orchestrates ledger operations across the sqlite store
// and the optional AMQP event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"cantiere/internal/amqp"
	"cantiere/internal/core"
)

type (
	// Ledger is the storage port: durable CRUD over the expenses table.
	Ledger interface {
		Add(ctx context.Context, r core.Record) (int64, error)
		Delete(ctx context.Context, id int64) error
		FetchAll(ctx context.Context) ([]core.Record, error)
		Close() error
	}

	// EventPublisher notifies downstream consumers that the ledger changed.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, kind string, id int64) error
		Close() error
	}
)

// LedgerService is the write path of the dashboard: it shapes entries per
// the selected mode, persists them, and publishes change events. Event
// publishing is best effort; the store write is the source of truth.
type LedgerService struct {
	store     Ledger
	publisher EventPublisher
}

func NewLedgerService(store Ledger, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// Records returns the full ledger. Every view recomputes from this.
func (s *LedgerService) Records(ctx context.Context) ([]core.Record, error) {
	return s.store.FetchAll(ctx)
}

// AddEntry builds a record for the given entry mode and persists it. For
// deductions the current ledger is read first to determine the eligible
// category set.
func (s *LedgerService) AddEntry(ctx context.Context, mode core.EntryMode, form core.EntryForm) (core.Record, error) {
	var existing []core.Record
	if mode == core.ModeDeduction {
		var err error
		existing, err = s.store.FetchAll(ctx)
		if err != nil {
			return core.Record{}, fmt.Errorf("read ledger: %w", err)
		}
	}

	rec, err := core.BuildEntry(mode, form, existing)
	if err != nil {
		return core.Record{}, err
	}

	id, err := s.store.Add(ctx, rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}
	rec.ID = id

	s.publish(ctx, amqp.EventRecordAdded, id)
	return rec, nil
}

// DeleteRecord removes a record by id and publishes a delete event. Deleting
// a missing id is a no-op, mirroring the store semantics.
func (s *LedgerService) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	s.publish(ctx, amqp.EventRecordDeleted, id)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, kind string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, kind, id); err != nil {
		// Don't fail the request - the record change is already durable
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind, "id", id, "error", err)
	}
}

// Close closes both the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
