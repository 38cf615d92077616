package services

import (
	"context"
	"errors"
	"testing"

	"cantiere/internal/amqp"
	"cantiere/internal/core"

	"github.com/shopspring/decimal"
)

type fakeLedger struct {
	records []core.Record
	nextID  int64
	addErr  error
	closed  bool
}

func (f *fakeLedger) Add(ctx context.Context, r core.Record) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.nextID++
	r.ID = f.nextID
	f.records = append(f.records, r)
	return r.ID, nil
}

func (f *fakeLedger) Delete(ctx context.Context, id int64) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLedger) FetchAll(ctx context.Context) ([]core.Record, error) {
	return append([]core.Record(nil), f.records...), nil
}

func (f *fakeLedger) Close() error {
	f.closed = true
	return nil
}

type fakePublisher struct {
	events []string
	err    error
}

func (f *fakePublisher) PublishLedgerEvent(ctx context.Context, kind string, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, kind)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestAddEntryPersistsAndPublishes(t *testing.T) {
	ledger := &fakeLedger{}
	pub := &fakePublisher{}
	svc := NewLedgerService(ledger, pub)

	form := core.EntryForm{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Cement",
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(400),
	}
	rec, err := svc.AddEntry(context.Background(), core.ModeNewEntry, form)
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if rec.ID != 1 {
		t.Fatalf("expected store-assigned id 1, got %d", rec.ID)
	}
	if len(pub.events) != 1 || pub.events[0] != amqp.EventRecordAdded {
		t.Fatalf("expected one record_added event, got %v", pub.events)
	}
}

func TestAddEntryDeductionReadsLedgerFirst(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewLedgerService(ledger, nil)
	ctx := context.Background()

	if _, err := svc.AddEntry(ctx, core.ModeNewEntry, core.EntryForm{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Cement",
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(400),
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	ded, err := svc.AddEntry(ctx, core.ModeDeduction, core.EntryForm{
		Date:       core.NewDate(2024, 1, 10),
		Category:   "Cement",
		PaidAmount: decimal.NewFromInt(600),
	})
	if err != nil {
		t.Fatalf("deduction: %v", err)
	}
	if !ded.TotalAmount.IsZero() {
		t.Fatalf("deduction must persist a zero total, got %s", ded.TotalAmount)
	}

	// Balance is now settled: the mode has no target anymore.
	_, err = svc.AddEntry(ctx, core.ModeDeduction, core.EntryForm{
		Date:       core.NewDate(2024, 1, 11),
		Category:   "Cement",
		PaidAmount: decimal.NewFromInt(1),
	})
	if !errors.Is(err, core.ErrNoOutstandingCategories) {
		t.Fatalf("expected ErrNoOutstandingCategories, got %v", err)
	}
}

func TestAddEntryStoreFailure(t *testing.T) {
	ledger := &fakeLedger{addErr: errors.New("disk full")}
	pub := &fakePublisher{}
	svc := NewLedgerService(ledger, pub)

	_, err := svc.AddEntry(context.Background(), core.ModeNewEntry, core.EntryForm{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Cement",
		TotalAmount: decimal.NewFromInt(100),
	})
	if err == nil {
		t.Fatalf("expected error from failing store")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event must be published when the store write fails")
	}
}

func TestDeleteRecordPublishFailureIsNotFatal(t *testing.T) {
	ledger := &fakeLedger{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(ledger, pub)

	if err := svc.DeleteRecord(context.Background(), 7); err != nil {
		t.Fatalf("delete must succeed even when publishing fails: %v", err)
	}
}

func TestCloseClosesStore(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewLedgerService(ledger, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !ledger.closed {
		t.Fatalf("store not closed")
	}
}
