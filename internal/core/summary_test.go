package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rec(date Date, category string, total, paid string) Record {
	return Record{
		Date:        date,
		Category:    category,
		TotalAmount: decimal.RequireFromString(total),
		PaidAmount:  decimal.RequireFromString(paid),
		Quantity:    1,
	}
}

func TestTotalsEmptyLedger(t *testing.T) {
	var records []Record
	if !TotalExpense(records).IsZero() {
		t.Fatalf("expected zero total expense")
	}
	if !TotalPaid(records).IsZero() {
		t.Fatalf("expected zero total paid")
	}
	if !PendingAmount(records).IsZero() {
		t.Fatalf("expected zero pending amount")
	}
}

func TestPendingAmountEqualsExpenseMinusPaid(t *testing.T) {
	records := []Record{
		rec(NewDate(2024, 1, 1), "Cement", "1000", "400"),
		rec(NewDate(2024, 1, 5), "Electrical", "250.50", "250.50"),
		rec(NewDate(2024, 1, 9), "Flooring", "100", "180"), // overpaid, not clamped
	}
	want := TotalExpense(records).Sub(TotalPaid(records))
	if !PendingAmount(records).Equal(want) {
		t.Fatalf("pending %s != expense-paid %s", PendingAmount(records), want)
	}
	if !PendingAmount(records).Equal(decimal.RequireFromString("520")) {
		t.Fatalf("expected 520, got %s", PendingAmount(records))
	}
}

func TestSummaryByCategory(t *testing.T) {
	records := []Record{
		rec(NewDate(2024, 1, 1), "Cement", "1000", "400"),
		rec(NewDate(2024, 1, 2), "Cement", "500", "500"),
		rec(NewDate(2024, 1, 3), "Electrical", "200", "50"),
	}
	summaries := SummaryByCategory(records)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summaries))
	}
	// Sorted by name: Cement first.
	cement := summaries[0]
	if cement.Category != "Cement" {
		t.Fatalf("expected Cement first, got %s", cement.Category)
	}
	if !cement.Total.Equal(decimal.NewFromInt(1500)) || !cement.Paid.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("unexpected cement sums: total=%s paid=%s", cement.Total, cement.Paid)
	}
	if !cement.Remaining.Equal(cement.Total.Sub(cement.Paid)) {
		t.Fatalf("remaining must equal total-paid per category")
	}

	// Summing remaining across categories equals the global pending amount.
	sum := decimal.Zero
	for _, s := range summaries {
		sum = sum.Add(s.Remaining)
	}
	if !sum.Equal(PendingAmount(records)) {
		t.Fatalf("sum of remaining %s != global pending %s", sum, PendingAmount(records))
	}
}

func TestDeductionClearsOutstandingBalance(t *testing.T) {
	records := []Record{rec(NewDate(2024, 1, 1), "Cement", "1000", "400")}

	outstanding := CategoriesWithOutstandingBalance(records)
	if len(outstanding) != 1 || outstanding[0] != "Cement" {
		t.Fatalf("expected [Cement], got %v", outstanding)
	}

	// Installment of 600 recorded as a zero-total row against the category.
	records = append(records, rec(NewDate(2024, 1, 10), "Cement", "0", "600"))

	summaries := SummaryByCategory(records)
	if !summaries[0].Remaining.IsZero() {
		t.Fatalf("expected zero remaining after deduction, got %s", summaries[0].Remaining)
	}
	if got := CategoriesWithOutstandingBalance(records); len(got) != 0 {
		t.Fatalf("expected no outstanding categories, got %v", got)
	}
}

func TestFilterByDateRange(t *testing.T) {
	records := []Record{
		rec(NewDate(2024, 1, 1), "Cement", "10", "10"),
		rec(NewDate(2024, 2, 15), "Cement", "20", "20"),
		rec(NewDate(2024, 3, 1), "Cement", "30", "30"),
	}

	got := FilterByDateRange(records, NewDate(2024, 2, 1), NewDate(2024, 2, 28))
	if len(got) != 1 || !got[0].Date.Equal(NewDate(2024, 2, 15).Time) {
		t.Fatalf("expected only the 2024-02-15 record, got %v", got)
	}

	// Bounds are inclusive.
	got = FilterByDateRange(records, NewDate(2024, 2, 15), NewDate(2024, 3, 1))
	if len(got) != 2 {
		t.Fatalf("expected 2 records for inclusive bounds, got %d", len(got))
	}

	// Inverted range is empty, not an error.
	got = FilterByDateRange(records, NewDate(2024, 3, 1), NewDate(2024, 1, 1))
	if len(got) != 0 {
		t.Fatalf("expected empty result for inverted range, got %d", len(got))
	}
}

func TestFilterByCategory(t *testing.T) {
	records := []Record{
		rec(NewDate(2024, 1, 1), "Cement", "10", "10"),
		rec(NewDate(2024, 1, 2), "Electrical", "20", "20"),
	}
	if got := FilterByCategory(records, AllCategories); len(got) != 2 {
		t.Fatalf("expected identity for %q, got %d records", AllCategories, len(got))
	}
	got := FilterByCategory(records, "Electrical")
	if len(got) != 1 || got[0].Category != "Electrical" {
		t.Fatalf("expected exact match, got %v", got)
	}
	if got := FilterByCategory(records, "Plumbing"); len(got) != 0 {
		t.Fatalf("expected empty result for absent category, got %v", got)
	}
}

func TestCategoryShares(t *testing.T) {
	records := []Record{
		rec(NewDate(2024, 1, 1), "Cement", "750", "0"),
		rec(NewDate(2024, 1, 2), "Electrical", "250", "0"),
	}
	shares := CategoryShares(records)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	if shares[0].Percent != 75 || shares[1].Percent != 25 {
		t.Fatalf("expected 75/25 split, got %v/%v", shares[0].Percent, shares[1].Percent)
	}

	// Zero ledger total yields zero percentages rather than dividing by zero.
	zero := CategoryShares([]Record{rec(NewDate(2024, 1, 1), "Cement", "0", "100")})
	if zero[0].Percent != 0 {
		t.Fatalf("expected 0 percent on zero total, got %v", zero[0].Percent)
	}
}
