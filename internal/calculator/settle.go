package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Settlement is the outcome of applying one payment to open shares.
type Settlement struct {
	// Updated holds the candidate shares that changed, in application order.
	// Fully paid shares have Settled set; a partially paid share keeps
	// Settled false with its Amount reduced.
	Updated []models.ExpenseShare

	// Split is the new settled row for the portion of a partially paid
	// share, or nil. Its ID is left empty for the store to assign.
	Split *models.ExpenseShare

	// Applied is min(payment, total candidate debt).
	Applied decimal.Decimal

	// Unapplied is the payment surplus that matched no open share.
	Unapplied decimal.Decimal
}

// FullySettled returns how many shares were closed without splitting.
func (s *Settlement) FullySettled() int {
	n := 0
	for _, share := range s.Updated {
		if share.Settled {
			n++
		}
	}
	return n
}

// SortCandidates orders shares oldest expense first, then by expense ID and
// share ID so that ties settle deterministically.
func SortCandidates(shares []models.ExpenseShare) {
	sort.SliceStable(shares, func(i, j int) bool {
		a, b := shares[i], shares[j]
		if a.ExpenseCreatedAt != b.ExpenseCreatedAt {
			return a.ExpenseCreatedAt < b.ExpenseCreatedAt
		}
		if a.ExpenseID != b.ExpenseID {
			return a.ExpenseID < b.ExpenseID
		}
		return a.ID < b.ID
	})
}

// Settle applies amount to candidates in the given order.
//
// Candidates must already be open shares of the payer towards the payee,
// ordered with SortCandidates. A share the remaining amount covers is marked
// settled with its amount unchanged. The first share it does not cover is
// reduced by the remaining amount and a settled split row carrying that
// remaining amount is produced; settlement stops there. Surplus is reported,
// never applied. The input slice is not modified.
func Settle(candidates []models.ExpenseShare, amount decimal.Decimal, paymentID string) *Settlement {
	result := &Settlement{Applied: decimal.Zero, Unapplied: decimal.Zero}
	remaining := amount

	for _, share := range candidates {
		if !remaining.IsPositive() {
			break
		}
		if share.Settled || !share.Amount.IsPositive() {
			continue
		}

		if remaining.GreaterThanOrEqual(share.Amount) {
			share.Settled = true
			share.SettledBy = paymentID
			remaining = remaining.Sub(share.Amount)
			result.Applied = result.Applied.Add(share.Amount)
			result.Updated = append(result.Updated, share)
			continue
		}

		share.Amount = share.Amount.Sub(remaining)
		result.Updated = append(result.Updated, share)
		result.Split = &models.ExpenseShare{
			ExpenseID:        share.ExpenseID,
			Participant:      share.Participant,
			Amount:           remaining,
			Settled:          true,
			SettledBy:        paymentID,
			ExpenseCreatedAt: share.ExpenseCreatedAt,
		}
		result.Applied = result.Applied.Add(remaining)
		remaining = decimal.Zero
		break
	}

	if remaining.IsPositive() {
		result.Unapplied = remaining
	}
	return result
}
