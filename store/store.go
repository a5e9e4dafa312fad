// Package store persists the ledger and the budget as JSON files and
// provides CSV export and single-slot backup/restore.
//
// Reads are lenient: a missing, unreadable or malformed file yields an empty
// collection (or an empty budget) instead of an error. The condition is
// logged at warn level so it is not lost entirely. Writes always replace the
// whole file and do return errors.
//
// Example usage:
//
//	st := store.New("data", store.WithLogger(logger))
//	l := ledger.New()
//	l.LoadAll(st.LoadExpenses(ctx))
//	// ...
//	if err := st.SaveExpenses(ctx, l.ExportAll()); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/report"
	"github.com/robinvdvleuten/financetracker/telemetry"
)

// File names inside the data directory.
const (
	ExpensesFileName = "expenses.json"
	BackupFileName   = "expenses_backup.json"
	BudgetFileName   = "budget.json"
	ExportDirName    = "exports"
	ExportFileName   = "expenses.csv"
)

// Store reads and writes the tracker's files under a data directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report swallowed read failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store rooted at dir. Nothing is touched on disk until the
// first write.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// DataFile returns the path of the expenses file.
func (s *Store) DataFile() string { return filepath.Join(s.dir, ExpensesFileName) }

// BackupFile returns the path of the backup copy.
func (s *Store) BackupFile() string { return filepath.Join(s.dir, BackupFileName) }

// BudgetFile returns the path of the budget file.
func (s *Store) BudgetFile() string { return filepath.Join(s.dir, BudgetFileName) }

// ExportFile returns the path CSV exports are written to.
func (s *Store) ExportFile() string { return filepath.Join(s.dir, ExportDirName, ExportFileName) }

// LoadExpenses returns the stored records, or an empty slice when the file
// is missing or cannot be decoded as a list of records.
func (s *Store) LoadExpenses(ctx context.Context) []expense.Expense {
	path := s.DataFile()
	timer := telemetry.StartTimer(ctx, "store.load "+filepath.Base(path))
	defer timer.End()

	var records []expense.Expense
	if !s.readJSON(ctx, path, &records) {
		return []expense.Expense{}
	}
	if records == nil {
		// "null" decodes without error.
		return []expense.Expense{}
	}

	s.logger.DebugContext(ctx, "loaded expenses", "path", path, "count", len(records))
	return records
}

// SaveExpenses overwrites the expenses file with records.
func (s *Store) SaveExpenses(ctx context.Context, records []expense.Expense) error {
	if records == nil {
		records = []expense.Expense{}
	}
	return s.writeJSON(ctx, s.DataFile(), records)
}

// LoadBudget returns the stored budget, or an empty one when the file is
// missing or is not an object of numbers.
func (s *Store) LoadBudget(ctx context.Context) report.Budget {
	path := s.BudgetFile()
	timer := telemetry.StartTimer(ctx, "store.load "+filepath.Base(path))
	defer timer.End()

	var raw map[string]decimal.Decimal
	if !s.readJSON(ctx, path, &raw) {
		return report.Budget{}
	}

	budget := make(report.Budget, len(raw))
	for category, amount := range raw {
		budget[category] = amount
	}
	return budget
}

// SaveBudget overwrites the budget file. Amounts are written as JSON numbers.
func (s *Store) SaveBudget(ctx context.Context, budget report.Budget) error {
	raw := make(map[string]json.Number, len(budget))
	for category, amount := range budget {
		raw[category] = json.Number(amount.String())
	}
	return s.writeJSON(ctx, s.BudgetFile(), raw)
}

// readJSON decodes path into v and reports whether it succeeded. Failures
// are logged, never returned.
func (s *Store) readJSON(ctx context.Context, path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "ignoring unreadable file", "path", path, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.WarnContext(ctx, "ignoring malformed file", "path", path, "error", err)
		return false
	}

	return true
}

func (s *Store) writeJSON(ctx context.Context, path string, v any) error {
	timer := telemetry.StartTimer(ctx, "store.save "+filepath.Base(path))
	defer timer.End()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.DebugContext(ctx, "saved file", "path", path, "bytes", len(data))
	return nil
}
