// Sample Expense Data Generator
//
// This tool writes a large expenses.json for performance testing and
// profiling of the reports and the web API. Records go through the ledger,
// so ids are sequential and categories are normalized exactly as real input.
//
// Usage:
//
//	go run main.go                   # 10000 expenses into ./data
//	go run main.go 250000 /tmp/data  # count and data directory
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/ledger"
	"github.com/robinvdvleuten/financetracker/report"
	"github.com/robinvdvleuten/financetracker/store"
)

const (
	defaultCount = 10000
	defaultDir   = "data"
)

var descriptions = map[string][]string{
	"Food":          {"Groceries", "Lunch", "Restaurant dinner", "Coffee", "Takeaway"},
	"Transport":     {"Bus pass", "Fuel", "Taxi", "Train ticket", "Parking"},
	"Entertainment": {"Movie tickets", "Concert", "Streaming subscription", "Books"},
	"Shopping":      {"Clothing", "Electronics", "Online purchase", "Gift"},
	"Bills":         {"Electricity", "Internet", "Phone", "Rent", "Insurance premium"},
	"Other":         {"Donation", "Medical appointment", "Haircut", ""},
}

// Typical amount range per category, in whole currency units.
var amountRange = map[string][2]int64{
	"Food":          {50, 1500},
	"Transport":     {20, 800},
	"Entertainment": {100, 2500},
	"Shopping":      {200, 8000},
	"Bills":         {300, 15000},
	"Other":         {50, 3000},
}

func main() {
	count := defaultCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			count = n
		}
	}

	dir := defaultDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	l := ledger.New()
	names := l.Categories().Names()

	// Spread the records evenly over the last two years.
	start := time.Now().AddDate(-2, 0, 0)
	step := 2 * 365 * 24 * time.Hour / time.Duration(count)

	for i := 0; i < count; i++ {
		category := names[rand.Intn(len(names))]
		date := expense.FormatDate(start.Add(time.Duration(i) * step))

		if _, err := l.Add(date, randomAmount(category), category, randomDescription(category)); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating expense %d: %v\n", i+1, err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	st := store.New(dir)

	if err := st.SaveExpenses(ctx, l.ExportAll()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing expenses: %v\n", err)
		os.Exit(1)
	}

	budget := report.Budget{}
	for _, name := range names {
		r := amountRange[name]
		budget[name] = decimal.NewFromInt(r[1] * 10)
	}
	if err := st.SaveBudget(ctx, budget); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing budget: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated %d expenses in %s\n", l.Len(), st.DataFile())
}

func randomAmount(category string) decimal.Decimal {
	r, ok := amountRange[category]
	if !ok {
		r = amountRange[expense.Other]
	}
	cents := (r[0] + rand.Int63n(r[1]-r[0])) * 100
	cents += rand.Int63n(100)
	return decimal.New(cents, -2)
}

func randomDescription(category string) string {
	options := descriptions[category]
	if len(options) == 0 {
		return ""
	}
	return options[rand.Intn(len(options))]
}
