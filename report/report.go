// Package report computes summaries over a snapshot of expense records.
//
// Every function is pure: records and budgets are only read. Category
// groupings keep the order in which a category first appears in the input,
// they are not sorted.
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
)

var hundred = decimal.NewFromInt(100)

// Budget maps a category to its monthly budget.
type Budget map[string]decimal.Decimal

// Get returns the budget for category, zero when there is no entry.
func (b Budget) Get(category string) decimal.Decimal {
	if v, ok := b[category]; ok {
		return v
	}
	return decimal.Zero
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlySummary is the spending of a single month.
type MonthlySummary struct {
	YearMonth  string          `json:"year_month"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// Amount returns the total of category within the month.
func (s MonthlySummary) Amount(category string) (decimal.Decimal, bool) {
	for _, c := range s.ByCategory {
		if c.Category == category {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}

// Monthly summarizes the records of yearMonth (YYYY-MM), matched as a date
// prefix. An empty yearMonth means the current month.
func Monthly(records []expense.Expense, yearMonth string) MonthlySummary {
	return MonthlyAt(records, yearMonth, time.Now())
}

// MonthlyAt is Monthly with an explicit clock for the default month.
func MonthlyAt(records []expense.Expense, yearMonth string, now time.Time) MonthlySummary {
	if yearMonth == "" {
		yearMonth = expense.YearMonth(now)
	}

	summary := MonthlySummary{
		YearMonth: yearMonth,
		Total:     decimal.Zero,
	}

	var totals categoryTotals
	for _, e := range records {
		if !strings.HasPrefix(e.Date, yearMonth) {
			continue
		}
		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++
		totals.add(e.Category, e.Amount)
	}
	summary.ByCategory = totals.list()

	return summary
}

// CategoryBreakdown is one category's share of all-time spending compared
// against its budget.
type CategoryBreakdown struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	OverBudget decimal.Decimal `json:"over_budget"`
}

// IsOverBudget reports whether spending exceeded the budget.
func (c CategoryBreakdown) IsOverBudget() bool {
	return c.OverBudget.IsPositive()
}

// Breakdown is the all-time spending per category.
type Breakdown struct {
	Categories []CategoryBreakdown `json:"categories"`
}

// Get returns the entry of category.
func (b Breakdown) Get(category string) (CategoryBreakdown, bool) {
	for _, c := range b.Categories {
		if c.Category == category {
			return c, true
		}
	}
	return CategoryBreakdown{}, false
}

// Total is the amount spent across all categories.
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Categories {
		total = total.Add(c.Amount)
	}
	return total
}

// Categories sums every category present in records, computes its share of
// the total and how far it is over budget. Negative OverBudget means under
// budget. Budget entries for categories without records are ignored.
func Categories(records []expense.Expense, budget Budget) Breakdown {
	var totals categoryTotals
	for _, e := range records {
		totals.add(e.Category, e.Amount)
	}

	spent := decimal.Zero
	for _, c := range totals.items {
		spent = spent.Add(c.Amount)
	}

	result := Breakdown{
		Categories: make([]CategoryBreakdown, 0, len(totals.items)),
	}
	for _, c := range totals.items {
		pct := decimal.Zero
		if spent.IsPositive() {
			pct = c.Amount.Div(spent).Mul(hundred)
		}
		result.Categories = append(result.Categories, CategoryBreakdown{
			Category:   c.Category,
			Amount:     c.Amount,
			Percentage: pct,
			OverBudget: c.Amount.Sub(budget.Get(c.Category)),
		})
	}

	return result
}

// Statistics is the overall total, count and mean of a record set.
type Statistics struct {
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// Stats computes totals over records. An empty input yields zeros.
func Stats(records []expense.Expense) Statistics {
	stats := Statistics{
		Total:   decimal.Zero,
		Average: decimal.Zero,
	}
	if len(records) == 0 {
		return stats
	}

	for _, e := range records {
		stats.Total = stats.Total.Add(e.Amount)
	}
	stats.Count = len(records)
	stats.Average = stats.Total.Div(decimal.NewFromInt(int64(stats.Count)))

	return stats
}

// categoryTotals accumulates amounts per category in first-seen order.
type categoryTotals struct {
	items []CategoryTotal
	index map[string]int
}

func (c *categoryTotals) add(category string, amount decimal.Decimal) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[category]; ok {
		c.items[i].Amount = c.items[i].Amount.Add(amount)
		return
	}
	c.index[category] = len(c.items)
	c.items = append(c.items, CategoryTotal{Category: category, Amount: amount})
}

func (c *categoryTotals) list() []CategoryTotal {
	if c.items == nil {
		return []CategoryTotal{}
	}
	return c.items
}
