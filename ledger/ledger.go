// Package ledger holds the in-memory expense collection and enforces the
// rules for creating new records.
//
// The ledger keeps records in insertion order. Records it creates are
// validated and normalized:
//   - the amount must be strictly positive
//   - the date must be a real calendar date in YYYY-MM-DD form
//   - the category is normalized against the configured category set,
//     falling back to "Other"
//   - the description is trimmed
//
// Records hydrated with LoadAll are taken as-is.
//
// Example usage:
//
//	l := ledger.New()
//	l.LoadAll(st.LoadExpenses(ctx))
//
//	e, err := l.Add("2026-01-01", decimal.NewFromInt(100), "food", "Lunch")
//	if errors.Is(err, ledger.ErrInvalidAmount) {
//	    // ask again
//	}
//
// A Ledger is not safe for concurrent use. Callers sharing one across
// goroutines must serialize LoadAll and Add.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
)

// Ledger is an ordered collection of expenses.
//
// IDs assigned by Add are the insertion position at creation time
// (count before insert + 1). After loading a collection with gaps, a new
// record may reuse an id that already exists. This mirrors the data files
// the ledger reads and is kept deliberately.
type Ledger struct {
	categories expense.Categories
	expenses   []expense.Expense
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCategories sets the category set used to normalize new records.
func WithCategories(categories expense.Categories) Option {
	return func(l *Ledger) {
		l.categories = categories
	}
}

// New creates an empty ledger using the default categories unless
// WithCategories is given.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		expenses: make([]expense.Expense, 0),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.categories.IsZero() {
		l.categories = expense.DefaultCategories()
	}

	return l
}

// Categories returns the category set in use.
func (l *Ledger) Categories() expense.Categories {
	return l.categories
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.expenses)
}

// LoadAll replaces the whole collection with records. Nothing is validated
// or normalized.
func (l *Ledger) LoadAll(records []expense.Expense) {
	l.expenses = clone(records)
}

// ExportAll returns the collection as plain data in internal order.
func (l *Ledger) ExportAll() []expense.Expense {
	return clone(l.expenses)
}

// GetAll returns a snapshot of all records.
func (l *Ledger) GetAll() []expense.Expense {
	return clone(l.expenses)
}

// Add validates and normalizes the input, appends a new record and returns
// it. On error the collection is left untouched.
func (l *Ledger) Add(date string, amount decimal.Decimal, category, description string) (expense.Expense, error) {
	if !amount.IsPositive() {
		return expense.Expense{}, &InvalidAmountError{Amount: amount}
	}

	if _, err := expense.ParseDate(date); err != nil {
		return expense.Expense{}, &InvalidDateError{Date: date, Err: err}
	}

	e := expense.Expense{
		ID:          len(l.expenses) + 1,
		Date:        date,
		Amount:      amount,
		Category:    l.categories.Normalize(category),
		Description: strings.TrimSpace(description),
	}
	l.expenses = append(l.expenses, e)

	return e, nil
}

// Search returns records whose category, date or description contains
// keyword, ignoring case. An empty keyword matches every record.
func (l *Ledger) Search(keyword string) []expense.Expense {
	kw := strings.ToLower(keyword)

	results := make([]expense.Expense, 0)
	for _, e := range l.expenses {
		if strings.Contains(strings.ToLower(e.Category), kw) ||
			strings.Contains(strings.ToLower(e.Date), kw) ||
			strings.Contains(strings.ToLower(e.Description), kw) {
			results = append(results, e)
		}
	}

	return results
}

// FilterByMonth returns records whose date starts with yearMonth. This is a
// plain string prefix match, so "2026-0" matches the whole first nine months.
func (l *Ledger) FilterByMonth(yearMonth string) []expense.Expense {
	results := make([]expense.Expense, 0)
	for _, e := range l.expenses {
		if strings.HasPrefix(e.Date, yearMonth) {
			results = append(results, e)
		}
	}

	return results
}

func clone(records []expense.Expense) []expense.Expense {
	out := make([]expense.Expense, len(records))
	copy(out, records)
	return out
}
