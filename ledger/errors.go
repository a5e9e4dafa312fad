package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// InvalidAmountError is returned by Add when the amount is zero or negative.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("Amount must be positive, got %s", e.Amount.String())
}

func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// InvalidDateError is returned by Add when the date is not a real calendar
// date in YYYY-MM-DD form.
type InvalidDateError struct {
	Date string
	Err  error // parse failure from the time package
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", e.Date)
}

func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}
