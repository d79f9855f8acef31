package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// CreatePayment persists a new payment.
func (t *sqliteTx) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = models.NewID()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = t.now().UnixMilli()
	}

	amount, err := toMinor("payment amount", payment.Amount)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO payments (id, from_user_id, to_user_id, amount_minor, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.FromUser, payment.ToUser, amount, nullString(payment.Notes), payment.CreatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to insert payment: %w", err))
	}

	return nil
}

// ListPaymentsForUser retrieves payments sent or received by the user.
func (s *SQLiteStore) ListPaymentsForUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_user_id, to_user_id, amount_minor, notes, created_at
		 FROM payments WHERE from_user_id = ? OR to_user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var (
			payment models.Payment
			amount  int64
			notes   sql.NullString
		)
		if err := rows.Scan(&payment.ID, &payment.FromUser, &payment.ToUser, &amount, &notes, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payment.Amount = money.FromMinor(amount)
		payment.Notes = notes.String
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
