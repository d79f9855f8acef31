package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/money"
)

// Item represents a single item on an expense.
type Item struct {
	Name       string
	Amount     decimal.Decimal
	IsShared   bool
	AssignedTo string
}

// Obligation is what one non-payer participant owes the payer.
type Obligation struct {
	Participant string
	Amount      decimal.Decimal
}

// SplitResult is the output of CalculateShares.
type SplitResult struct {
	// Participants is the resolved participant set in canonical order.
	Participants []string

	// Accumulated is every participant's full portion, payer included.
	Accumulated map[string]decimal.Decimal

	// PayerCost is the payer's own portion; never recorded as a debt.
	// It includes every division remainder.
	PayerCost decimal.Decimal

	// Obligations lists non-payer participants with a positive portion,
	// in participant order.
	Obligations []Obligation
}

// Total returns the sum of all obligations plus the payer's own cost.
func (r *SplitResult) Total() decimal.Decimal {
	total := r.PayerCost
	for _, o := range r.Obligations {
		total = total.Add(o.Amount)
	}
	return total
}

// ResolveParticipants removes duplicates and empty IDs, keeping first
// occurrence order, and appends the payer if it was omitted.
func ResolveParticipants(payer string, participants []string) []string {
	seen := make(map[string]bool, len(participants)+1)
	resolved := make([]string, 0, len(participants)+1)
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		resolved = append(resolved, p)
	}
	if !seen[payer] {
		resolved = append(resolved, payer)
	}
	return resolved
}

// CalculateShares splits items and tax among participants.
//
// Shared items and tax are divided equally and truncated to the minor unit;
// whatever cannot be divided evenly is charged to the payer, so the payer's
// cost plus all obligations always equals the items total plus tax exactly.
// Non-shared items land entirely on their assignee.
//
// Every item is validated before any accumulation happens.
func CalculateShares(payer string, participants []string, items []Item, tax decimal.Decimal) (*SplitResult, error) {
	if payer == "" {
		return nil, apperrors.Validation("created_by", "payer is required")
	}
	resolved := ResolveParticipants(payer, participants)

	if err := validateItems(items, resolved); err != nil {
		return nil, err
	}
	if tax.IsNegative() {
		return nil, apperrors.Validation("tax_amount", "must not be negative")
	}
	if err := money.CheckScale(tax); err != nil {
		return nil, apperrors.Validation("tax_amount", "%v", err)
	}
	if err := money.CheckRange(tax); err != nil {
		return nil, apperrors.Validation("tax_amount", "%v", err)
	}

	accumulated := make(map[string]decimal.Decimal, len(resolved))
	for _, p := range resolved {
		accumulated[p] = decimal.Zero
	}

	addEqually := func(amount decimal.Decimal) {
		part, remainder := money.Split(amount, len(resolved))
		for _, p := range resolved {
			accumulated[p] = accumulated[p].Add(part)
		}
		accumulated[payer] = accumulated[payer].Add(remainder)
	}

	for _, item := range items {
		if item.IsShared {
			addEqually(item.Amount)
			continue
		}
		accumulated[item.AssignedTo] = accumulated[item.AssignedTo].Add(item.Amount)
	}

	if tax.IsPositive() {
		addEqually(tax)
	}

	result := &SplitResult{
		Participants: resolved,
		Accumulated:  accumulated,
		PayerCost:    accumulated[payer],
	}
	for _, p := range resolved {
		if p == payer {
			continue
		}
		if amount := accumulated[p]; amount.IsPositive() {
			result.Obligations = append(result.Obligations, Obligation{Participant: p, Amount: amount})
		}
	}
	return result, nil
}

func validateItems(items []Item, participants []string) error {
	members := make(map[string]bool, len(participants))
	for _, p := range participants {
		members[p] = true
	}

	for i, item := range items {
		if !item.Amount.IsPositive() {
			return apperrors.Validation(itemField(i, "amount"), "must be positive")
		}
		if err := money.CheckScale(item.Amount); err != nil {
			return apperrors.Validation(itemField(i, "amount"), "%v", err)
		}
		if err := money.CheckRange(item.Amount); err != nil {
			return apperrors.Validation(itemField(i, "amount"), "%v", err)
		}
		if item.IsShared {
			continue
		}
		if item.AssignedTo == "" {
			return apperrors.Validation(itemField(i, "assigned_to"), "required for non-shared items")
		}
		if !members[item.AssignedTo] {
			return apperrors.Validation(itemField(i, "assigned_to"), "%s is not a participant", item.AssignedTo)
		}
	}
	return nil
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}
