package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cantiere/internal/core"
	applog "cantiere/internal/log"

	"github.com/shopspring/decimal"
)

type recordDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TotalAmount string `json:"total_amount"`
	PaidAmount  string `json:"paid_amount"`
	Quantity    int64  `json:"quantity"`
	PaidBy      string `json:"paid_by,omitempty"`
}

func toRecordDTO(r core.Record) recordDTO {
	return recordDTO{
		ID:          r.ID,
		Date:        r.Date.String(),
		Category:    r.Category,
		Description: r.Description,
		TotalAmount: r.TotalAmount.String(),
		PaidAmount:  r.PaidAmount.String(),
		Quantity:    r.Quantity,
		PaidBy:      r.PaidBy,
	}
}

func toRecordDTOs(records []core.Record) []recordDTO {
	out := make([]recordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordDTO(r))
	}
	return out
}

// handleLedger serves GET (full or filtered ledger) and POST (entry-mode add).
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListLedger(w, r)
	case http.MethodPost:
		s.handleAddEntry(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Records(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read ledger", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}

	q := r.URL.Query()
	startStr := strings.TrimSpace(q.Get("start"))
	endStr := strings.TrimSpace(q.Get("end"))
	if (startStr == "") != (endStr == "") {
		writeError(w, http.StatusBadRequest, "start and end must be supplied together")
		return
	}
	if startStr != "" {
		start, err := core.ParseDate(startStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		end, err := core.ParseDate(endStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date")
			return
		}
		records = core.FilterByDateRange(records, start, end)
	}

	category := sanitizeInput(q.Get("category"))
	if category == "" {
		category = core.AllCategories
	}
	records = core.FilterByCategory(records, category)

	writeJSON(w, http.StatusOK, map[string]any{
		"records": toRecordDTOs(records),
		"count":   len(records),
	})
}

type entryRequest struct {
	Mode        string `json:"mode"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TotalAmount string `json:"total_amount"`
	PaidAmount  string `json:"paid_amount"`
	Quantity    int64  `json:"quantity"`
	PaidBy      string `json:"paid_by"`
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode := core.EntryMode(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = core.ModeNewEntry
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	total, err := parseOptionalAmount(req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid total amount")
		return
	}
	paid, err := parseOptionalAmount(req.PaidAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid paid amount")
		return
	}

	form := core.EntryForm{
		Date:        date,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		TotalAmount: total,
		PaidAmount:  paid,
		Quantity:    req.Quantity,
		PaidBy:      sanitizeInput(req.PaidBy),
	}

	rec, err := s.svc.AddEntry(r.Context(), mode, form)
	if err != nil {
		status := entryErrorStatus(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Failed to save entry",
				applog.FieldError, err,
				applog.FieldEntryMode, string(mode),
				applog.FieldCategory, form.Category)
			writeError(w, status, "error saving entry")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Entry created",
		applog.FieldRecordID, rec.ID,
		applog.FieldEntryMode, string(mode),
		applog.FieldCategory, rec.Category)

	writeJSON(w, http.StatusCreated, toRecordDTO(rec))
}

// entryErrorStatus maps entry-building failures onto API statuses. An
// unavailable deduction mode is a conflict, not a server error.
func entryErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNoOutstandingCategories):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnknownEntryMode),
		errors.Is(err, core.ErrPaidExceedsTotal),
		errors.Is(err, core.ErrCategoryNotEligible),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrDescriptionTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleLedgerByID serves DELETE /api/ledger/{id}.
func (s *Server) handleLedgerByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/ledger/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := s.svc.DeleteRecord(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete record",
			applog.FieldError, err,
			applog.FieldRecordID, id)
		writeError(w, http.StatusInternalServerError, "error deleting record")
		return
	}

	slog.InfoContext(r.Context(), "Record deleted", applog.FieldRecordID, id)
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteForm is the form-friendly alias for clients that cannot
// issue DELETE requests.
func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("id")), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := s.svc.DeleteRecord(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete record",
			applog.FieldError, err,
			applog.FieldRecordID, id)
		writeError(w, http.StatusInternalServerError, "error deleting record")
		return
	}

	slog.InfoContext(r.Context(), "Record deleted", applog.FieldRecordID, id)
	w.WriteHeader(http.StatusNoContent)
}

type categorySummaryDTO struct {
	Category  string `json:"category"`
	Total     string `json:"total"`
	Paid      string `json:"paid"`
	Remaining string `json:"remaining"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.svc.Records(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read ledger", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}

	summaries := core.SummaryByCategory(records)
	categories := make([]categorySummaryDTO, 0, len(summaries))
	for _, c := range summaries {
		categories = append(categories, categorySummaryDTO{
			Category:  c.Category,
			Total:     c.Total.String(),
			Paid:      c.Paid.String(),
			Remaining: c.Remaining.String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_expense":  core.TotalExpense(records).String(),
		"total_paid":     core.TotalPaid(records).String(),
		"pending_amount": core.PendingAmount(records).String(),
		"categories":     categories,
	})
}

// handleOutstanding reports the deduction eligibility set. An empty set
// means deduction mode is unavailable, which the UI renders as disabled.
func (s *Server) handleOutstanding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.svc.Records(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read ledger", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}

	outstanding := core.CategoriesWithOutstandingBalance(records)
	if outstanding == nil {
		outstanding = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories":          outstanding,
		"deduction_available": len(outstanding) > 0,
	})
}

type categoryShareDTO struct {
	Category string  `json:"category"`
	Total    string  `json:"total"`
	Percent  float64 `json:"percent"`
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.svc.Records(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read ledger", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}

	shares := core.CategoryShares(records)
	slices := make([]categoryShareDTO, 0, len(shares))
	for _, sh := range shares {
		slices = append(slices, categoryShareDTO{
			Category: sh.Category,
			Total:    sh.Total.String(),
			Percent:  sh.Percent,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"slices": slices})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.svc.Records(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read ledger", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": core.Taxonomy(records)})
}

// parseOptionalAmount treats a blank field as zero, which deduction
// entries use for their total.
func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return core.ParseAmount(s)
}
