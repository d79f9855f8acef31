package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// The aggregation functions below are pure sums over open obligations.
// No balance is ever cached; "no matching rows" always yields zero.
// Self-obligations (debtor == creditor) are ignored everywhere.

// TotalDueToUser sums what others owe userID.
func TotalDueToUser(userID string, obligations []models.Obligation) decimal.Decimal {
	total := decimal.Zero
	for _, o := range obligations {
		if o.Creditor == userID && o.Debtor != userID {
			total = total.Add(o.Amount)
		}
	}
	return total
}

// TotalUserOwes sums what userID owes others.
func TotalUserOwes(userID string, obligations []models.Obligation) decimal.Decimal {
	total := decimal.Zero
	for _, o := range obligations {
		if o.Debtor == userID && o.Creditor != userID {
			total = total.Add(o.Amount)
		}
	}
	return total
}

// TotalBalance is TotalDueToUser minus TotalUserOwes.
func TotalBalance(userID string, obligations []models.Obligation) models.Balance {
	due := TotalDueToUser(userID, obligations)
	owes := TotalUserOwes(userID, obligations)
	return models.Balance{
		Total:     due.Sub(owes),
		DueToUser: due,
		UserOwes:  owes,
	}
}

// PairBalance restricts the totals to obligations between userID and friendID.
// A positive Total means friendID owes userID.
func PairBalance(userID, friendID string, obligations []models.Obligation) models.Balance {
	due, owes := decimal.Zero, decimal.Zero
	if userID != friendID {
		for _, o := range obligations {
			switch {
			case o.Creditor == userID && o.Debtor == friendID:
				due = due.Add(o.Amount)
			case o.Debtor == userID && o.Creditor == friendID:
				owes = owes.Add(o.Amount)
			}
		}
	}
	return models.Balance{
		Total:     due.Sub(owes),
		DueToUser: due,
		UserOwes:  owes,
	}
}

// FriendsOwingUser groups obligations towards userID by debtor.
func FriendsOwingUser(userID string, obligations []models.Obligation) []models.CounterpartyTotal {
	return groupBy(obligations, func(o models.Obligation) (string, bool) {
		return o.Debtor, o.Creditor == userID && o.Debtor != userID
	})
}

// UserOwingFriends groups obligations of userID by creditor.
func UserOwingFriends(userID string, obligations []models.Obligation) []models.CounterpartyTotal {
	return groupBy(obligations, func(o models.Obligation) (string, bool) {
		return o.Creditor, o.Debtor == userID && o.Creditor != userID
	})
}

// Summarize computes the overall balance with both grouped breakdowns.
func Summarize(userID string, obligations []models.Obligation) *models.BalanceSummary {
	return &models.BalanceSummary{
		Balance:          TotalBalance(userID, obligations),
		FriendsOwingUser: FriendsOwingUser(userID, obligations),
		UserOwingFriends: UserOwingFriends(userID, obligations),
	}
}

// Counterparties returns every other user appearing in obligations with
// userID, sorted by ID.
func Counterparties(userID string, obligations []models.Obligation) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range obligations {
		var other string
		switch {
		case o.Creditor == userID && o.Debtor != userID:
			other = o.Debtor
		case o.Debtor == userID && o.Creditor != userID:
			other = o.Creditor
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	sort.Strings(ids)
	return ids
}

// groupBy sums matching obligations per key. Output is sorted by key so
// results are stable across calls.
func groupBy(obligations []models.Obligation, key func(models.Obligation) (string, bool)) []models.CounterpartyTotal {
	totals := make(map[string]decimal.Decimal)
	for _, o := range obligations {
		k, ok := key(o)
		if !ok {
			continue
		}
		totals[k] = totals[k].Add(o.Amount)
	}

	groups := make([]models.CounterpartyTotal, 0, len(totals))
	for id, total := range totals {
		groups = append(groups, models.CounterpartyTotal{UserID: id, Total: total})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].UserID < groups[j].UserID })
	return groups
}
