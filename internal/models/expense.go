package models

import "github.com/shopspring/decimal"

// Expense is money fronted by CreatedBy on behalf of Participants.
// Only Title and Description may change after shares are calculated.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Title       string
	Description string

	// TotalAmount is the pre-tax amount; it equals the sum of Items.
	TotalAmount decimal.Decimal

	// TaxAmount is split equally among all participants.
	TaxAmount decimal.Decimal

	// CreatedBy is the payer who fronted the money.
	CreatedBy string

	// Participants are the user IDs sharing this expense, payer included.
	Participants []string

	Items  []ExpenseItem
	Shares []ExpenseShare

	// CreatedAt is the Unix millisecond timestamp; settlement processes
	// older expenses first.
	CreatedAt int64
	UpdatedAt int64
}

// ExpenseItem is a single line of an expense.
type ExpenseItem struct {
	ID        string
	ExpenseID string
	Name      string
	Amount    decimal.Decimal

	// IsShared items are split equally among all participants.
	IsShared bool

	// AssignedTo receives the full amount of a non-shared item.
	// Required when IsShared is false.
	AssignedTo string
}

// ExpenseShare is one obligation: Participant owes Amount to the creator of
// ExpenseID. Rows are mutated by settlement (Amount reduced or Settled set)
// and never deleted.
type ExpenseShare struct {
	ID          string
	ExpenseID   string
	Participant string
	Amount      decimal.Decimal
	Settled     bool

	// SettledBy is the payment that settled this row, empty while open.
	SettledBy string

	// Version increments on every update; used for optimistic locking.
	Version int64

	// ExpenseCreatedAt is the owning expense's timestamp. It is populated
	// when shares are loaded as settlement candidates.
	ExpenseCreatedAt int64
}

// ShareRole is how a share relates to the user viewing it.
type ShareRole string

const (
	// RoleDebtor means the viewer owes the share amount.
	RoleDebtor ShareRole = "debtor"
	// RoleCreditor means the viewer fronted the expense and is owed the amount.
	RoleCreditor ShareRole = "creditor"
)

// RoleFor derives the viewer's role for a share of an expense created by creditor.
func RoleFor(viewer, creditor string) ShareRole {
	if viewer == creditor {
		return RoleCreditor
	}
	return RoleDebtor
}

// ShareView is a share together with its expense context, as seen by one user.
type ShareView struct {
	Share        ExpenseShare
	ExpenseTitle string
	Creditor     string
	Role         ShareRole
}
