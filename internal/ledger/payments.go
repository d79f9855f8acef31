package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/lock"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// PaymentInput describes money the acting user sent to ToUser.
type PaymentInput struct {
	ToUser string
	Amount decimal.Decimal
	Notes  string
}

// PaymentResult is a recorded payment and what it settled.
type PaymentResult struct {
	Payment *models.Payment

	// Applied is the debt the payment closed.
	Applied decimal.Decimal

	// Unapplied is the surplus beyond all outstanding debt. It is not
	// credited anywhere.
	Unapplied decimal.Decimal

	// Shares are the rows the payment touched: updated shares followed by
	// the split row, if one was created.
	Shares []models.ExpenseShare
}

// RecordPayment stores a payment from actor and settles actor's open shares
// towards the recipient, oldest expense first.
//
// Settlements for the same (actor, recipient) pair are serialized by the
// locker; within the transaction every share update is checked against the
// version that was read, so a concurrent writer yields a Conflict error and
// nothing is persisted.
func (l *Ledger) RecordPayment(ctx context.Context, actor string, in PaymentInput) (*PaymentResult, error) {
	if actor == "" {
		return nil, apperrors.Validation("from_user", "is required")
	}
	if err := positiveAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.ToUser == actor {
		return nil, apperrors.Validation("to_user", "cannot pay yourself")
	}
	if _, err := l.requireUser(ctx, "to_user", in.ToUser); err != nil {
		return nil, err
	}

	var result *PaymentResult
	err := l.locker.WithLock(ctx, lock.SettlementKey(actor, in.ToUser), func(ctx context.Context) error {
		var err error
		result, err = l.settle(ctx, actor, in)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrConcurrentModification) || errors.Is(err, lock.ErrNotAcquired) {
			l.metrics.SettlementConflict()
			l.logger.Warn("settlement conflict",
				"from_user", actor,
				"to_user", in.ToUser,
				"error", err,
			)
		}
		return nil, classify(err, "record payment")
	}

	return result, nil
}

func (l *Ledger) settle(ctx context.Context, actor string, in PaymentInput) (*PaymentResult, error) {
	payment := &models.Payment{
		ID:        models.NewID(),
		FromUser:  actor,
		ToUser:    in.ToUser,
		Amount:    in.Amount,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: l.now().UnixMilli(),
	}

	var settlement *calculator.Settlement
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		candidates, err := tx.ListSettlementCandidates(ctx, payment.FromUser, payment.ToUser)
		if err != nil {
			return err
		}
		calculator.SortCandidates(candidates)

		settlement = calculator.Settle(candidates, payment.Amount, payment.ID)

		for i := range settlement.Updated {
			if err := tx.UpdateShare(ctx, &settlement.Updated[i]); err != nil {
				return err
			}
		}
		if settlement.Split != nil {
			if err := tx.CreateShare(ctx, settlement.Split); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{
		Payment:   payment,
		Applied:   settlement.Applied,
		Unapplied: settlement.Unapplied,
		Shares:    append([]models.ExpenseShare(nil), settlement.Updated...),
	}
	if settlement.Split != nil {
		result.Shares = append(result.Shares, *settlement.Split)
	}

	surplus := settlement.Unapplied.IsPositive()
	l.metrics.PaymentSettled(settlement.FullySettled(), settlement.Split != nil, surplus)
	l.logger.Info("payment settled",
		"payment_id", payment.ID,
		"from_user", payment.FromUser,
		"to_user", payment.ToUser,
		"amount", money.Format(payment.Amount),
		"applied", money.Format(settlement.Applied),
		"shares_touched", len(result.Shares),
	)
	if surplus {
		l.logger.Warn("payment exceeds outstanding debt",
			"payment_id", payment.ID,
			"unapplied", money.Format(settlement.Unapplied),
		)
	}
	return result, nil
}

// ListPayments returns payments actor sent or received, newest first.
func (l *Ledger) ListPayments(ctx context.Context, actor string) ([]*models.Payment, error) {
	payments, err := l.store.ListPaymentsForUser(ctx, actor)
	if err != nil {
		return nil, classify(err, "list payments")
	}
	return payments, nil
}
