// Package core holds the ledger domain types and the balance and summary
// engine: pure aggregation over the full set of ledger rows, recomputed from
// scratch on every read.
package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AllCategories is the wildcard accepted by FilterByCategory.
const AllCategories = "All"

type (
	// CategorySummary aggregates one category's rows.
	CategorySummary struct {
		Category  string
		Total     decimal.Decimal
		Paid      decimal.Decimal
		Remaining decimal.Decimal
	}

	// CategoryShare is one slice of the category breakdown chart: a
	// category's total cost and its percentage of the global total.
	CategoryShare struct {
		Category string
		Total    decimal.Decimal
		Percent  float64
	}
)

// TotalExpense sums total_amount over all records.
func TotalExpense(records []Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.TotalAmount)
	}
	return sum
}

// TotalPaid sums paid_amount over all records.
func TotalPaid(records []Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.PaidAmount)
	}
	return sum
}

// PendingAmount is the global outstanding balance: total expense minus total
// paid. Negative values mean overpayment and are not clamped.
func PendingAmount(records []Record) decimal.Decimal {
	return TotalExpense(records).Sub(TotalPaid(records))
}

// SummaryByCategory aggregates total, paid and remaining per distinct
// category, sorted by category name.
func SummaryByCategory(records []Record) []CategorySummary {
	byCat := make(map[string]*CategorySummary)
	for _, r := range records {
		s, ok := byCat[r.Category]
		if !ok {
			s = &CategorySummary{Category: r.Category, Total: decimal.Zero, Paid: decimal.Zero}
			byCat[r.Category] = s
		}
		s.Total = s.Total.Add(r.TotalAmount)
		s.Paid = s.Paid.Add(r.PaidAmount)
	}

	out := make([]CategorySummary, 0, len(byCat))
	for _, s := range byCat {
		s.Remaining = s.Total.Sub(s.Paid)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// CategoriesWithOutstandingBalance returns the categories whose summed total
// strictly exceeds their summed paid amount. These are the only valid targets
// for a deduction entry.
func CategoriesWithOutstandingBalance(records []Record) []string {
	var out []string
	for _, s := range SummaryByCategory(records) {
		if s.Total.GreaterThan(s.Paid) {
			out = append(out, s.Category)
		}
	}
	return out
}

// FilterByDateRange returns the records dated within [start, end] inclusive.
// An inverted range yields an empty result rather than an error.
func FilterByDateRange(records []Record, start, end Date) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Date.Before(start.Time) || r.Date.After(end.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterByCategory returns the records matching the category exactly, or all
// records when category is AllCategories.
func FilterByCategory(records []Record, category string) []Record {
	if category == AllCategories {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// CategoryShares computes each category's share of the global total expense.
// Percentages are zero when the ledger total is zero.
func CategoryShares(records []Record) []CategoryShare {
	total := TotalExpense(records)
	summaries := SummaryByCategory(records)
	out := make([]CategoryShare, 0, len(summaries))
	for _, s := range summaries {
		share := CategoryShare{Category: s.Category, Total: s.Total}
		if total.IsPositive() {
			share.Percent, _ = s.Total.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}
		out = append(out, share)
	}
	return out
}
