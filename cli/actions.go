package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/ledger"
	"github.com/robinvdvleuten/financetracker/output"
	"github.com/robinvdvleuten/financetracker/report"
)

const noExpenses = "No expenses recorded yet."

// InputError is a problem with what the user typed. It is shown to the user
// and the command exits non-zero.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// isInputError reports whether err should be shown to the user rather than
// treated as an internal failure.
func isInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr) ||
		errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrInvalidDate)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &InputError{Message: fmt.Sprintf("Invalid amount %q", raw)}
	}
	return value, nil
}

// resolveDate turns "" and "today" into today's date.
func resolveDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "today") {
		return expense.FormatDate(now)
	}
	return raw
}

func (s *session) writeJSON(v any) error {
	enc := json.NewEncoder(s.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// addExpense adds a record from raw input and saves the ledger.
func (s *session) addExpense(date, amount, category, description string) (expense.Expense, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return expense.Expense{}, err
	}

	e, err := s.ledger.Add(resolveDate(date, time.Now()), value, category, description)
	if err != nil {
		return expense.Expense{}, err
	}

	if err := s.save(); err != nil {
		return expense.Expense{}, err
	}

	s.logger.Debug("expense added", "id", e.ID, "category", e.Category)
	return e, nil
}

// showExpenses prints records as a table, or emptyMessage when there are none.
func (s *session) showExpenses(records []expense.Expense, emptyMessage string) error {
	if s.json {
		return s.writeJSON(records)
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(s.stdout, s.styles.Dim(emptyMessage))
		return nil
	}

	table := output.NewTable(
		output.Column{Title: "ID", Align: output.AlignRight},
		output.Column{Title: "Date"},
		output.Column{Title: "Amount", Align: output.AlignRight},
		output.Column{Title: "Category"},
		output.Column{Title: "Description"},
	)
	for _, e := range records {
		table.AddRow(fmt.Sprint(e.ID), e.Date, s.money(e.Amount), e.Category, e.Description)
	}

	return table.Render(s.stdout, s.styles)
}

// listExpenses prints the last limit records; limit <= 0 prints all.
func (s *session) listExpenses(limit int) error {
	records := s.ledger.GetAll()
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return s.showExpenses(records, noExpenses)
}

func (s *session) searchExpenses(keyword string) error {
	return s.showExpenses(s.ledger.Search(keyword), "No matching expenses found.")
}

func (s *session) monthlyReport(yearMonth string) error {
	summary := report.Monthly(s.ledger.ExportAll(), strings.TrimSpace(yearMonth))
	if s.json {
		return s.writeJSON(summary)
	}

	printTitle(s.stdout, "Report for "+summary.YearMonth)
	_, _ = fmt.Fprintf(s.stdout, "Total expenses: %s\n", s.styles.Amount(s.money(summary.Total)))
	_, _ = fmt.Fprintf(s.stdout, "Number of expenses: %d\n", summary.Count)
	if summary.Count == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(s.stdout)
	table := output.NewTable(
		output.Column{Title: "Category"},
		output.Column{Title: "Amount", Align: output.AlignRight},
	)
	for _, c := range summary.ByCategory {
		table.AddRow(c.Category, s.money(c.Amount))
	}
	return table.Render(s.stdout, s.styles)
}

func (s *session) categoryBreakdown() error {
	breakdown := report.Categories(s.ledger.ExportAll(), s.budget)
	if s.json {
		return s.writeJSON(breakdown)
	}

	if len(breakdown.Categories) == 0 {
		_, _ = fmt.Fprintln(s.stdout, s.styles.Dim(noExpenses))
		return nil
	}

	_, _ = fmt.Fprintf(s.stdout, "Total spent: %s\n\n", s.styles.Amount(s.money(breakdown.Total())))

	table := output.NewTable(
		output.Column{Title: "Category"},
		output.Column{Title: "Amount", Align: output.AlignRight},
		output.Column{Title: "Share", Align: output.AlignRight},
		output.Column{Title: "Over budget", Align: output.AlignRight},
		output.Column{Title: "Status"},
	)
	for _, c := range breakdown.Categories {
		table.AddRow(
			c.Category,
			s.money(c.Amount),
			output.Percent(c.Percentage),
			s.money(c.OverBudget),
			s.styles.BudgetStatus(c.IsOverBudget()),
		)
	}
	return table.Render(s.stdout, s.styles)
}

func (s *session) statistics() error {
	stats := report.Stats(s.ledger.ExportAll())
	if s.json {
		return s.writeJSON(stats)
	}

	if stats.Count == 0 {
		_, _ = fmt.Fprintln(s.stdout, s.styles.Dim(noExpenses))
		return nil
	}

	_, _ = fmt.Fprintf(s.stdout, "Total spent: %s\n", s.styles.Amount(s.money(stats.Total)))
	_, _ = fmt.Fprintf(s.stdout, "Average expense: %s\n", s.styles.Amount(s.money(stats.Average)))
	_, _ = fmt.Fprintf(s.stdout, "Number of expenses: %d\n", stats.Count)
	return nil
}

// setBudget stores the budget of category. The category is normalized the
// same way new expenses are.
func (s *session) setBudget(category, amount string) (string, decimal.Decimal, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return "", decimal.Zero, err
	}
	if value.IsNegative() {
		return "", decimal.Zero, &InputError{Message: fmt.Sprintf("Budget must not be negative, got %s", value)}
	}

	name := s.ledger.Categories().Normalize(category)
	s.budget[name] = value

	if err := s.save(); err != nil {
		return "", decimal.Zero, err
	}
	return name, value, nil
}

func (s *session) showBudget() error {
	if s.json {
		return s.writeJSON(s.budget)
	}

	table := output.NewTable(
		output.Column{Title: "Category"},
		output.Column{Title: "Monthly budget", Align: output.AlignRight},
	)

	categories := s.ledger.Categories()
	for _, name := range categories.Names() {
		table.AddRow(name, s.money(s.budget.Get(name)))
	}

	// Entries written by hand or under an older category set.
	var extra []string
	for name := range s.budget {
		if !categories.Contains(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		table.AddRow(name, s.money(s.budget[name]))
	}

	return table.Render(s.stdout, s.styles)
}

func (s *session) exportCSV() error {
	path, err := s.store.ExportCSV(s.ctx, s.ledger.ExportAll())
	if err != nil {
		return err
	}
	printInfof(s.stdout, "Data exported to: %s", pathStyle.Render(path))
	return nil
}

func (s *session) backup() error {
	copied, err := s.store.Backup(s.ctx)
	if err != nil {
		return err
	}
	if !copied {
		printInfof(s.stdout, "Nothing to back up yet.")
		return nil
	}
	printSuccess(s.stdout, "Backup created successfully.")
	return nil
}

func (s *session) restore() error {
	copied, err := s.store.Restore(s.ctx)
	if err != nil {
		return err
	}
	if !copied {
		printInfof(s.stdout, "No backup found at %s", pathStyle.Render(s.store.BackupFile()))
		return nil
	}
	s.reload()
	printSuccess(s.stdout, "Data restored from backup.")
	return nil
}
