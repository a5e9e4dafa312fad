package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	if styles == nil {
		t.Fatal("NewStyles should return non-nil Styles")
	}

	if styles.output == nil {
		t.Error("Styles should have non-nil output")
	}
}

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name string
		fn   func(string) string
		text string
	}{
		{name: "Success", fn: styles.Success, text: "Expense #3 added"},
		{name: "Error", fn: styles.Error, text: "Invalid date"},
		{name: "Warning", fn: styles.Warning, text: "over budget"},
		{name: "FilePath", fn: styles.FilePath, text: "data/exports/expenses.csv"},
		{name: "Category", fn: styles.Category, text: "Food"},
		{name: "Amount", fn: styles.Amount, text: "₹100.50"},
		{name: "Keyword", fn: styles.Keyword, text: "Total"},
		{name: "Dim", fn: styles.Dim, text: "no expenses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.fn(tt.text)
			if !strings.Contains(result, tt.text) {
				t.Errorf("%s() result should contain %q, got: %s", tt.name, tt.text, result)
			}
		})
	}
}

func TestBudgetStatus(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Contains(t, styles.BudgetStatus(true), "✗")
	assert.Contains(t, styles.BudgetStatus(false), "✓")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹100.00", Money("₹", decimal.NewFromInt(100)))
	assert.Equal(t, "$0.50", Money("$", decimal.RequireFromString("0.5")))
	assert.Equal(t, "-₹12.35", Money("₹", decimal.RequireFromString("-12.345")))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.3%", Percent(decimal.RequireFromString("33.3333")))
	assert.Equal(t, "0.0%", Percent(decimal.Zero))
}
