package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildEntryNewEntry(t *testing.T) {
	form := EntryForm{
		Date:        NewDate(2024, 1, 1),
		Category:    " Cement ",
		Description: "50 bags",
		TotalAmount: decimal.NewFromInt(1000),
		PaidAmount:  decimal.NewFromInt(400),
		PaidBy:      "Ravi",
	}
	got, err := BuildEntry(ModeNewEntry, form, nil)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got.Category != "Cement" {
		t.Fatalf("expected trimmed category, got %q", got.Category)
	}
	if got.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", got.Quantity)
	}

	form.PaidAmount = decimal.NewFromInt(1200)
	if _, err := BuildEntry(ModeNewEntry, form, nil); !errors.Is(err, ErrPaidExceedsTotal) {
		t.Fatalf("expected ErrPaidExceedsTotal, got %v", err)
	}
}

func TestBuildEntryDeduction(t *testing.T) {
	existing := []Record{rec(NewDate(2024, 1, 1), "Cement", "1000", "400")}

	form := EntryForm{
		Date:       NewDate(2024, 1, 10),
		Category:   "Cement",
		PaidAmount: decimal.NewFromInt(600),
	}
	got, err := BuildEntry(ModeDeduction, form, existing)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !got.TotalAmount.IsZero() {
		t.Fatalf("deduction must carry a zero total, got %s", got.TotalAmount)
	}
	if !got.PaidAmount.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected paid 600, got %s", got.PaidAmount)
	}

	// Category fully paid up is not an eligible target.
	form.Category = "Electrical"
	if _, err := BuildEntry(ModeDeduction, form, existing); !errors.Is(err, ErrCategoryNotEligible) {
		t.Fatalf("expected ErrCategoryNotEligible, got %v", err)
	}

	// Zero installment is rejected.
	form.Category = "Cement"
	form.PaidAmount = decimal.Zero
	if _, err := BuildEntry(ModeDeduction, form, existing); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestBuildEntryDeductionUnavailable(t *testing.T) {
	// Everything settled: deduction mode has no valid target.
	existing := []Record{rec(NewDate(2024, 1, 1), "Cement", "1000", "1000")}

	form := EntryForm{
		Date:       NewDate(2024, 1, 10),
		Category:   "Cement",
		PaidAmount: decimal.NewFromInt(100),
	}
	if _, err := BuildEntry(ModeDeduction, form, existing); !errors.Is(err, ErrNoOutstandingCategories) {
		t.Fatalf("expected ErrNoOutstandingCategories, got %v", err)
	}
}

func TestBuildEntryUnknownMode(t *testing.T) {
	if _, err := BuildEntry("edit", EntryForm{Date: NewDate(2024, 1, 1), Category: "c"}, nil); !errors.Is(err, ErrUnknownEntryMode) {
		t.Fatalf("expected ErrUnknownEntryMode, got %v", err)
	}
}

func TestTaxonomy(t *testing.T) {
	records := []Record{
		rec(NewDate(2024, 1, 1), "Cement", "10", "0"),   // already suggested
		rec(NewDate(2024, 1, 2), "Plumbing", "20", "0"), // free text
	}
	got := Taxonomy(records)
	if len(got) != len(SuggestedCategories)+1 {
		t.Fatalf("expected %d categories, got %d", len(SuggestedCategories)+1, len(got))
	}
	if got[len(got)-1] != "Plumbing" {
		t.Fatalf("expected ledger category appended last, got %v", got)
	}
}
