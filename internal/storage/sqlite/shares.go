package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

const shareColumns = `s.id, s.expense_id, s.participant_id, s.amount_minor, s.settled, s.settled_by_payment_id, s.version`

// scanShare reads shareColumns followed by the owning expense's created_at.
func scanShare(row rowScanner, extra ...any) (*models.ExpenseShare, error) {
	var (
		share     models.ExpenseShare
		amount    int64
		settledBy sql.NullString
	)
	dest := []any{
		&share.ID, &share.ExpenseID, &share.Participant, &amount,
		&share.Settled, &settledBy, &share.Version, &share.ExpenseCreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	share.Amount = money.FromMinor(amount)
	share.SettledBy = settledBy.String
	return &share, nil
}

// ListSharesForUser returns shares the user owes or is owed, newest expense first.
func (s *SQLiteStore) ListSharesForUser(ctx context.Context, userID string) ([]models.ShareView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shareColumns+`, e.created_at, e.title, e.created_by
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE s.participant_id = ? OR e.created_by = ?
		 ORDER BY e.created_at DESC, e.id, s.rowid`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var views []models.ShareView
	for rows.Next() {
		var view models.ShareView
		share, err := scanShare(rows, &view.ExpenseTitle, &view.Creditor)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		view.Share = *share
		view.Role = models.RoleFor(userID, view.Creditor)
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return views, nil
}

// ListOpenObligations returns unsettled shares where the user is either side.
func (s *SQLiteStore) ListOpenObligations(ctx context.Context, userID string) ([]models.Obligation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.participant_id, e.created_by, s.amount_minor
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE s.settled = 0 AND (s.participant_id = ? OR e.created_by = ?)`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var (
			o      models.Obligation
			amount int64
		)
		if err := rows.Scan(&o.Debtor, &o.Creditor, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		o.Amount = money.FromMinor(amount)
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}
	return obligations, nil
}

// ListCounterparties returns users linked to userID by any share.
func (s *SQLiteStore) ListCounterparties(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.participant_id FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.created_by = ? AND s.participant_id <> ?
		 UNION
		 SELECT e.created_by FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE s.participant_id = ? AND e.created_by <> ?
		 ORDER BY 1`,
		userID, userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list counterparties: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan counterparty: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate counterparties: %w", err)
	}
	return ids, nil
}

// ListSettlementCandidates returns open shares of fromUser on expenses created
// by toUser, oldest expense first with expense ID then share ID as tie-breakers.
func (t *sqliteTx) ListSettlementCandidates(ctx context.Context, fromUser, toUser string) ([]models.ExpenseShare, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+shareColumns+`, e.created_at
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE s.participant_id = ? AND e.created_by = ? AND s.settled = 0 AND s.amount_minor > 0
		 ORDER BY e.created_at, e.id, s.id`,
		fromUser, toUser,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement candidates: %w", err)
	}
	defer rows.Close()

	var shares []models.ExpenseShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, *share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement candidates: %w", err)
	}
	return shares, nil
}

// UpdateShare writes the mutable share fields guarded by the row version.
func (t *sqliteTx) UpdateShare(ctx context.Context, share *models.ExpenseShare) error {
	amount, err := toMinor("share amount", share.Amount)
	if err != nil {
		return err
	}

	result, err := t.tx.ExecContext(ctx,
		`UPDATE expense_shares
		 SET amount_minor = ?, settled = ?, settled_by_payment_id = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		amount, boolToInt(share.Settled), nullString(share.SettledBy), share.ID, share.Version,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to update share: %w", err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("share %s at version %d: %w", share.ID, share.Version, storage.ErrConcurrentModification)
	}

	share.Version++
	return nil
}

// CreateShare inserts a share row. ID and Version are assigned when unset.
func (t *sqliteTx) CreateShare(ctx context.Context, share *models.ExpenseShare) error {
	if share.ID == "" {
		share.ID = models.NewID()
	}
	if share.Version == 0 {
		share.Version = 1
	}

	amount, err := toMinor("share amount", share.Amount)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO expense_shares (id, expense_id, participant_id, amount_minor, settled, settled_by_payment_id, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		share.ID, share.ExpenseID, share.Participant, amount,
		boolToInt(share.Settled), nullString(share.SettledBy), share.Version,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to insert share: %w", err))
	}
	return nil
}
