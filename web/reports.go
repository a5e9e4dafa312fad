package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/report"
)

// handleMonthly handles GET requests to /api/reports/monthly.
// Without a month parameter the current month is reported.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	summary := report.Monthly(s.ledger.ExportAll(), r.URL.Query().Get("month"))
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, summary)
}

// BreakdownResponse is the JSON response structure for the breakdown endpoint.
type BreakdownResponse struct {
	Categories []report.CategoryBreakdown `json:"categories"`
	Total      decimal.Decimal            `json:"total"`
}

// handleBreakdown handles GET requests to /api/reports/breakdown.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	breakdown := report.Categories(s.ledger.ExportAll(), s.budget)
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, &BreakdownResponse{
		Categories: breakdown.Categories,
		Total:      breakdown.Total(),
	})
}

// handleStatistics handles GET requests to /api/reports/statistics.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stats := report.Stats(s.ledger.ExportAll())
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, stats)
}

// BudgetResponse is the JSON response structure for the budget endpoint.
type BudgetResponse struct {
	Categories []string      `json:"categories"`
	Budget     report.Budget `json:"budget"`
}

// handleGetBudget handles GET requests to /api/budget.
func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := &BudgetResponse{
		Categories: s.ledger.Categories().Names(),
		Budget:     make(report.Budget, len(s.budget)),
	}
	for name, value := range s.budget {
		resp.Budget[name] = value
	}
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, resp)
}

// VersionResponse is the JSON response structure for the version endpoint.
type VersionResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commit_sha"`
	ReadOnly  bool   `json:"read_only"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, &VersionResponse{
		Version:   s.Version,
		CommitSHA: s.CommitSHA,
		ReadOnly:  s.ReadOnly,
	})
}
