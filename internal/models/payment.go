package models

import "github.com/shopspring/decimal"

// Payment is money sent from FromUser to ToUser. It is immutable once
// created; its settlement effects live on the shares it touched.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// FromUser is the debtor settling up.
	FromUser string

	// ToUser is the creditor being paid.
	ToUser string

	// Amount is strictly positive.
	Amount decimal.Decimal

	// Notes is an optional free-form description.
	Notes string

	// CreatedAt is the Unix millisecond timestamp when the payment was recorded.
	CreatedAt int64
}
