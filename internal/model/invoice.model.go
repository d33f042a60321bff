package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the flat classification of an invoice. There is no
// transition machinery, an invoice is simply one or the other.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

type Invoice struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Amount     int64         `json:"amount"` // minor currency units (cents)
	Status     InvoiceStatus `json:"status"`
	Date       string        `json:"date"` // ISO calendar date, set once at create
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceInput carries the raw form fields exactly as submitted. Amount is
// the user-facing major-unit decimal string; parsing converts it to cents.
type InvoiceInput struct {
	CustomerID string
	Amount     string
	Status     string
}

// InvoiceCreateParams is a fully validated create payload. ID and date are
// system-assigned and intentionally absent.
type InvoiceCreateParams struct {
	CustomerID  string
	AmountCents int64
	Status      InvoiceStatus
}

// InvoiceUpdateParams is a fully validated update payload. The target id
// comes from the route, date is never updated.
type InvoiceUpdateParams struct {
	CustomerID  string
	AmountCents int64
	Status      InvoiceStatus
}

// ValidationError reports every field that failed to parse. Both shapes
// fail closed: one bad field rejects the whole input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid invoice input: " + strings.Join(parts, "; ")
}

// ParseCreate validates the create shape: customerId, amount and status are
// required, id and date are omitted because the system assigns them.
func (in InvoiceInput) ParseCreate() (InvoiceCreateParams, error) {
	fields := make(map[string]string)

	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		fields["customerId"] = "is required"
	}

	cents, err := parseAmount(in.Amount)
	if err != nil {
		fields["amount"] = err.Error()
	}

	status := InvoiceStatus(strings.TrimSpace(in.Status))
	if !status.Valid() {
		fields["status"] = fmt.Sprintf("must be %q or %q", InvoiceStatusPending, InvoiceStatusPaid)
	}

	if len(fields) > 0 {
		return InvoiceCreateParams{}, &ValidationError{Fields: fields}
	}

	return InvoiceCreateParams{
		CustomerID:  customerID,
		AmountCents: cents,
		Status:      status,
	}, nil
}

// ParseUpdate validates the update shape. It accepts the same three form
// fields; date never appears because updates leave it untouched.
func (in InvoiceInput) ParseUpdate() (InvoiceUpdateParams, error) {
	p, err := in.ParseCreate()
	if err != nil {
		return InvoiceUpdateParams{}, err
	}
	return InvoiceUpdateParams(p), nil
}

// parseAmount coerces the major-unit decimal string into minor units,
// rounding half away from zero so 12.505 persists as 1251, never as a
// fractional cent.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("must be a decimal number")
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("must not be negative")
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// InvoiceFilter controls listing queries.
type InvoiceFilter struct {
	CustomerID *string         // equals
	Statuses   []InvoiceStatus // IN (...)
	Limit      int             // default 50
	Offset     int
	Desc       bool // order by date
}
