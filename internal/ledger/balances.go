package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Balance returns actor's net position over all open shares, with grouped
// breakdowns per counterpart. It is recomputed from storage on every call.
func (l *Ledger) Balance(ctx context.Context, actor string) (*models.BalanceSummary, error) {
	obligations, err := l.store.ListOpenObligations(ctx, actor)
	if err != nil {
		return nil, classify(err, "load obligations")
	}

	summary := calculator.Summarize(actor, obligations)

	users, err := l.Users(ctx, calculator.Counterparties(actor, obligations))
	if err != nil {
		return nil, err
	}
	nameCounterparties(summary.FriendsOwingUser, users)
	nameCounterparties(summary.UserOwingFriends, users)

	return summary, nil
}

func nameCounterparties(totals []models.CounterpartyTotal, users map[string]*models.User) {
	for i := range totals {
		if u, ok := users[totals[i].UserID]; ok {
			totals[i].DisplayName = u.DisplayName
		}
	}
}

// FriendBalance returns the net position between actor and friendID.
func (l *Ledger) FriendBalance(ctx context.Context, actor, friendID string) (*models.Friend, error) {
	friend, err := l.requireUser(ctx, "friend_id", friendID)
	if err != nil {
		return nil, err
	}

	obligations, err := l.store.ListOpenObligations(ctx, actor)
	if err != nil {
		return nil, classify(err, "load obligations")
	}

	return &models.Friend{
		User:    *friend,
		Balance: calculator.PairBalance(actor, friendID, obligations),
	}, nil
}

// Friends returns every user linked to actor by a share, settled or not,
// each with the current pair balance.
func (l *Ledger) Friends(ctx context.Context, actor string) ([]models.Friend, error) {
	ids, err := l.store.ListCounterparties(ctx, actor)
	if err != nil {
		return nil, classify(err, "list friends")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := l.Users(ctx, ids)
	if err != nil {
		return nil, err
	}

	obligations, err := l.store.ListOpenObligations(ctx, actor)
	if err != nil {
		return nil, classify(err, "load obligations")
	}

	friends := make([]models.Friend, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		friends = append(friends, models.Friend{
			User:    *u,
			Balance: calculator.PairBalance(actor, id, obligations),
		})
	}
	return friends, nil
}
