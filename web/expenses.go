package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/ledger"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSONResponse(w, status, &ErrorResponse{Error: message})
}

// ExpensesResponse is the JSON response structure for the expenses endpoint.
type ExpensesResponse struct {
	Expenses []expense.Expense `json:"expenses"`
}

// handleGetExpenses handles GET requests to /api/expenses.
// q searches, month filters by YYYY-MM prefix; both may be combined.
func (s *Server) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	month := r.URL.Query().Get("month")

	s.mu.RLock()
	var records []expense.Expense
	switch {
	case keyword != "":
		records = s.ledger.Search(keyword)
	case month != "":
		records = s.ledger.FilterByMonth(month)
	default:
		records = s.ledger.GetAll()
	}
	s.mu.RUnlock()

	if keyword != "" && month != "" {
		filtered := records[:0]
		for _, e := range records {
			if strings.HasPrefix(e.Date, month) {
				filtered = append(filtered, e)
			}
		}
		records = filtered
	}

	writeJSONResponse(w, http.StatusOK, &ExpensesResponse{Expenses: records})
}

// AddExpenseRequest is the body of POST /api/expenses. Amount accepts a
// JSON number or a numeric string.
type AddExpenseRequest struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// handleAddExpense handles POST requests to /api/expenses.
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.ledger.ExportAll()

	e, err := s.ledger.Add(req.Date, req.Amount, req.Category, req.Description)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) || errors.Is(err, ledger.ErrInvalidDate) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.SaveExpenses(r.Context(), s.ledger.ExportAll()); err != nil {
		s.ledger.LoadAll(previous)
		s.Logger.Error("failed to save expenses", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to save expenses")
		return
	}

	s.Logger.Debug("expense added", "id", e.ID, "category", e.Category)
	writeJSONResponse(w, http.StatusCreated, e)
}
