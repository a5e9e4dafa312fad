package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/report"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func records() []expense.Expense {
	return []expense.Expense{
		{ID: 1, Date: "2026-01-01", Amount: d("10"), Category: "Food", Description: "Test"},
		{ID: 2, Date: "2026-01-02", Amount: d("20.5"), Category: "Bills", Description: "Water, \"cold\""},
	}
}

func TestSaveAndLoadExpenses(t *testing.T) {
	ctx := context.Background()
	st := New(filepath.Join(t.TempDir(), "nested", "data"))

	assert.NoError(t, st.SaveExpenses(ctx, records()))

	loaded := st.LoadExpenses(ctx)
	assert.Equal(t, 2, len(loaded))
	assert.Equal(t, "Food", loaded[0].Category)
	assert.True(t, loaded[1].Amount.Equal(d("20.5")))
	assert.Equal(t, "Water, \"cold\"", loaded[1].Description)

	raw, err := os.ReadFile(st.DataFile())
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "\n  {\n    \"id\": 1,")
	assert.Contains(t, string(raw), "\"amount\": 20.5,")
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	st := New(t.TempDir())

	assert.NoError(t, st.SaveExpenses(ctx, records()))
	assert.NoError(t, st.SaveExpenses(ctx, records()[:1]))
	assert.Equal(t, 1, len(st.LoadExpenses(ctx)))

	assert.NoError(t, st.SaveExpenses(ctx, nil))
	raw, err := os.ReadFile(st.DataFile())
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLoadExpensesLenient(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		warns   bool
	}{
		{name: "valid", content: `[{"id": 1, "date": "2026-01-01", "amount": 1, "category": "Food"}]`, want: 1},
		{name: "empty list", content: `[]`, want: 0},
		{name: "null", content: `null`, want: 0},
		{name: "object instead of list", content: `{"id": 1}`, want: 0, warns: true},
		{name: "truncated", content: `[{"id": 1,`, want: 0, warns: true},
		{name: "missing field", content: `[{"id": 1, "date": "2026-01-01", "category": "Food"}]`, want: 0, warns: true},
		{name: "empty file", content: ``, want: 0, warns: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			assert.NoError(t, os.WriteFile(filepath.Join(dir, ExpensesFileName), []byte(tt.content), 0644))

			var logs bytes.Buffer
			st := New(dir, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

			loaded := st.LoadExpenses(context.Background())
			assert.Equal(t, tt.want, len(loaded))
			assert.True(t, loaded != nil)
			if tt.warns {
				assert.Contains(t, logs.String(), "ignoring malformed file")
			} else {
				assert.Equal(t, "", logs.String())
			}
		})
	}
}

func TestLoadExpensesMissingFile(t *testing.T) {
	var logs bytes.Buffer
	st := New(t.TempDir(), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	loaded := st.LoadExpenses(context.Background())
	assert.Equal(t, 0, len(loaded))
	assert.Equal(t, "", logs.String())
}

func TestBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		st := New(t.TempDir())
		assert.NoError(t, st.SaveBudget(ctx, report.Budget{"Food": d("5000"), "Bills": d("1200.5")}))

		budget := st.LoadBudget(ctx)
		assert.Equal(t, 2, len(budget))
		assert.True(t, budget.Get("Food").Equal(d("5000")))
		assert.True(t, budget.Get("Bills").Equal(d("1200.5")))

		raw, err := os.ReadFile(st.BudgetFile())
		assert.NoError(t, err)
		assert.Contains(t, string(raw), `"Bills": 1200.5`)
	})

	t.Run("Missing", func(t *testing.T) {
		st := New(t.TempDir())
		budget := st.LoadBudget(ctx)
		assert.True(t, budget != nil)
		assert.Equal(t, 0, len(budget))
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, content := range []string{`[1, 2]`, `{"Food": "lots"}`, `{`} {
			dir := t.TempDir()
			assert.NoError(t, os.WriteFile(filepath.Join(dir, BudgetFileName), []byte(content), 0644))
			budget := New(dir).LoadBudget(ctx)
			assert.Equal(t, 0, len(budget), "content %s", content)
		}
	})
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	st := New(t.TempDir())

	path, err := st.ExportCSV(ctx, records())
	assert.NoError(t, err)
	assert.Equal(t, st.ExportFile(), path)

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "date", "amount", "category", "description"},
		{"1", "2026-01-01", "10", "Food", "Test"},
		{"2", "2026-01-02", "20.5", "Bills", "Water, \"cold\""},
	}, rows)
}

func TestExportCSVEmpty(t *testing.T) {
	st := New(t.TempDir())

	path, err := st.ExportCSV(context.Background(), nil)
	assert.NoError(t, err)

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "id,date,amount,category,description\n", string(raw))
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("NothingToBackUp", func(t *testing.T) {
		st := New(t.TempDir())
		copied, err := st.Backup(ctx)
		assert.NoError(t, err)
		assert.False(t, copied)
		_, err = os.Stat(st.BackupFile())
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("NothingToRestore", func(t *testing.T) {
		st := New(t.TempDir())
		assert.NoError(t, st.SaveExpenses(ctx, records()))
		copied, err := st.Restore(ctx)
		assert.NoError(t, err)
		assert.False(t, copied)
		assert.Equal(t, 2, len(st.LoadExpenses(ctx)))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		st := New(t.TempDir())
		assert.NoError(t, st.SaveExpenses(ctx, records()))

		copied, err := st.Backup(ctx)
		assert.NoError(t, err)
		assert.True(t, copied)

		assert.NoError(t, st.SaveExpenses(ctx, records()[:1]))
		assert.Equal(t, 1, len(st.LoadExpenses(ctx)))

		copied, err = st.Restore(ctx)
		assert.NoError(t, err)
		assert.True(t, copied)
		assert.Equal(t, 2, len(st.LoadExpenses(ctx)))
	})
}
