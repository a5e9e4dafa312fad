// Package expense defines the expense record shared by the ledger, the
// reports and the persistence layer, together with the category set and
// the date helpers used to validate records.
//
// Amounts are decimal values. On the wire (JSON files, the web API) an
// amount is a plain JSON number so files written by float-based tools load
// unchanged.
package expense

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Expense is a single dated spending record. Values are never mutated after
// creation; the ledger hands out copies.
type Expense struct {
	ID          int
	Date        string
	Amount      decimal.Decimal
	Category    string
	Description string
}

// MissingFieldError is returned when a decoded record lacks a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("expense record is missing required field %q", e.Field)
}

type wireExpense struct {
	ID          *int             `json:"id"`
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description string           `json:"description"`
}

// MarshalJSON writes the record with the amount as a JSON number.
func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          int         `json:"id"`
		Date        string      `json:"date"`
		Amount      json.Number `json:"amount"`
		Category    string      `json:"category"`
		Description string      `json:"description"`
	}{
		ID:          e.ID,
		Date:        e.Date,
		Amount:      json.Number(e.Amount.String()),
		Category:    e.Category,
		Description: e.Description,
	})
}

// UnmarshalJSON reads a record. id, date, amount and category are required;
// description defaults to the empty string. Field values are taken verbatim,
// no normalization happens here.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var w wireExpense
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch {
	case w.ID == nil:
		return &MissingFieldError{Field: "id"}
	case w.Date == nil:
		return &MissingFieldError{Field: "date"}
	case w.Amount == nil:
		return &MissingFieldError{Field: "amount"}
	case w.Category == nil:
		return &MissingFieldError{Field: "category"}
	}

	*e = Expense{
		ID:          *w.ID,
		Date:        *w.Date,
		Amount:      *w.Amount,
		Category:    *w.Category,
		Description: w.Description,
	}
	return nil
}
