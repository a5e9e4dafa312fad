package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/report"
	"github.com/robinvdvleuten/financetracker/store"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	ctx := context.Background()
	st := store.New(t.TempDir())

	err := st.SaveExpenses(ctx, []expense.Expense{
		{ID: 1, Date: "2026-01-05", Amount: d("100"), Category: "Food", Description: "Lunch"},
		{ID: 2, Date: "2026-01-10", Amount: d("50"), Category: "Transport", Description: "Bus"},
		{ID: 3, Date: "2026-02-01", Amount: d("150"), Category: "Food", Description: "Dinner with team"},
	})
	assert.NoError(t, err)
	assert.NoError(t, st.SaveBudget(ctx, report.Budget{"Food": d("200")}))

	server := New(8080, st, expense.DefaultCategories())
	server.reload(ctx)

	return server, st
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAPIExpenses(t *testing.T) {
	server, _ := newTestServer(t)
	mux := server.setupRouter()

	tests := []struct {
		name   string
		target string
		ids    []int
	}{
		{"All", "/api/expenses", []int{1, 2, 3}},
		{"Search", "/api/expenses?q=FOOD", []int{1, 3}},
		{"SearchDescription", "/api/expenses?q=team", []int{3}},
		{"Month", "/api/expenses?month=2026-01", []int{1, 2}},
		{"SearchAndMonth", "/api/expenses?q=food&month=2026-01", []int{1}},
		{"NoMatch", "/api/expenses?q=rent", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var response ExpensesResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

			ids := []int{}
			for _, e := range response.Expenses {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestAPIAddExpense(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		server, st := newTestServer(t)
		mux := server.setupRouter()

		rec := serve(mux, http.MethodPost, "/api/expenses",
			`{"date": "2026-02-03", "amount": 12.5, "category": "shopping", "description": " Socks "}`)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var e expense.Expense
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
		assert.Equal(t, 4, e.ID)
		assert.Equal(t, "Shopping", e.Category)
		assert.Equal(t, "Socks", e.Description)
		assert.True(t, d("12.5").Equal(e.Amount))

		saved := st.LoadExpenses(context.Background())
		assert.Equal(t, 4, len(saved))
		assert.Equal(t, "Shopping", saved[3].Category)
	})

	t.Run("AmountAsString", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec := serve(server.setupRouter(), http.MethodPost, "/api/expenses",
			`{"date": "2026-02-03", "amount": "7.25", "category": "Bills"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"ZeroAmount", `{"date": "2026-02-03", "amount": 0, "category": "Food"}`, "Amount must be positive"},
		{"NegativeAmount", `{"date": "2026-02-03", "amount": -5, "category": "Food"}`, "Amount must be positive"},
		{"MissingAmount", `{"date": "2026-02-03", "category": "Food"}`, "Amount must be positive"},
		{"BadDate", `{"date": "2026-13-01", "amount": 5, "category": "Food"}`, "Invalid date"},
		{"MalformedBody", `{"date":`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, st := newTestServer(t)
			rec := serve(server.setupRouter(), http.MethodPost, "/api/expenses", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var response ErrorResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Contains(t, response.Error, tt.message)

			assert.Equal(t, 3, len(st.LoadExpenses(context.Background())))
		})
	}
}

func TestAPIReadOnly(t *testing.T) {
	server, st := newTestServer(t)
	server.ReadOnly = true
	mux := server.setupRouter()

	rec := serve(mux, http.MethodPost, "/api/expenses",
		`{"date": "2026-02-03", "amount": 5, "category": "Food"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "read-only")
	assert.Equal(t, 3, len(st.LoadExpenses(context.Background())))

	rec = serve(mux, http.MethodGet, "/api/expenses", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIReports(t *testing.T) {
	server, _ := newTestServer(t)
	mux := server.setupRouter()

	t.Run("Monthly", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/reports/monthly?month=2026-01", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var summary report.MonthlySummary
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
		assert.Equal(t, "2026-01", summary.YearMonth)
		assert.Equal(t, 2, summary.Count)
		assert.True(t, d("150").Equal(summary.Total))
		assert.Equal(t, 2, len(summary.ByCategory))
		assert.Equal(t, "Food", summary.ByCategory[0].Category)
	})

	t.Run("MonthlyEmpty", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/reports/monthly?month=1999-01", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"by_category":[]`)
	})

	t.Run("Breakdown", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/reports/breakdown", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response BreakdownResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.True(t, d("300").Equal(response.Total))
		assert.Equal(t, 2, len(response.Categories))

		food := response.Categories[0]
		assert.Equal(t, "Food", food.Category)
		assert.True(t, d("250").Equal(food.Amount))
		assert.True(t, d("50").Equal(food.OverBudget))
		assert.Equal(t, "83.33", food.Percentage.StringFixed(2))
	})

	t.Run("Statistics", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/reports/statistics", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var stats report.Statistics
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
		assert.Equal(t, 3, stats.Count)
		assert.True(t, d("300").Equal(stats.Total))
		assert.True(t, d("100").Equal(stats.Average))
	})

	t.Run("Budget", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/budget", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var response BudgetResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, expense.DefaultCategories().Names(), response.Categories)
		assert.True(t, d("200").Equal(response.Budget.Get("Food")))
	})
}

func TestAPIMethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t)
	rec := serve(server.setupRouter(), http.MethodDelete, "/api/expenses", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSSEBroadcast(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.setupRouter())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	assert.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "data: connected\n", line)
	assert.Equal(t, 1, server.clientCount())

	server.broadcast("reload")

	_, _ = reader.ReadString('\n') // blank separator
	line, err = reader.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "data: reload\n", line)
}

func TestWatcherReloads(t *testing.T) {
	server, st := newTestServer(t)
	server.WatchEnabled = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, server.startWatcher(ctx))

	err := st.SaveExpenses(ctx, []expense.Expense{
		{ID: 1, Date: "2026-03-01", Amount: d("9"), Category: "Bills"},
	})
	assert.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for {
		server.mu.RLock()
		n := server.ledger.Len()
		server.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ledger not reloaded, still has %d expenses", n)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	server, _ := newTestServer(t)
	server.Port = 0
	server.WatchEnabled = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
