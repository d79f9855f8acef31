package models

import "github.com/shopspring/decimal"

// Obligation is an open (unsettled) share reduced to what balance
// aggregation needs.
type Obligation struct {
	Debtor   string // share participant
	Creditor string // expense creator
	Amount   decimal.Decimal
}

// CounterpartyTotal is a grouped balance line for one other user.
type CounterpartyTotal struct {
	UserID      string
	DisplayName string
	Total       decimal.Decimal
}

// Balance is a net position: DueToUser minus UserOwes.
type Balance struct {
	Total     decimal.Decimal
	DueToUser decimal.Decimal
	UserOwes  decimal.Decimal
}

// BalanceSummary is a user's overall position with grouped breakdowns.
type BalanceSummary struct {
	Balance
	FriendsOwingUser []CounterpartyTotal
	UserOwingFriends []CounterpartyTotal
}

// Friend is another user who shares at least one expense with the viewer.
type Friend struct {
	User    User
	Balance Balance
}
