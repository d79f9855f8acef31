package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = `e.id, e.title, e.description, e.total_minor, e.tax_minor, e.created_by, e.created_at, e.updated_at`

// CreateExpense persists a new expense with its participants, items and shares.
func (t *sqliteTx) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = models.NewID()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = t.now().UnixMilli()
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	total, err := toMinor("total amount", expense.TotalAmount)
	if err != nil {
		return err
	}
	tax, err := toMinor("tax amount", expense.TaxAmount)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO expenses (id, title, description, total_minor, tax_minor, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Title, expense.Description, total, tax,
		expense.CreatedBy, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to insert expense: %w", err))
	}

	for i, userID := range expense.Participants {
		_, err = t.tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, position) VALUES (?, ?, ?)",
			expense.ID, userID, i,
		)
		if err != nil {
			return classify(fmt.Errorf("failed to insert participant: %w", err))
		}
	}

	for i := range expense.Items {
		item := &expense.Items[i]
		if item.ID == "" {
			item.ID = models.NewID()
		}
		item.ExpenseID = expense.ID

		amount, err := toMinor("item amount", item.Amount)
		if err != nil {
			return err
		}
		_, err = t.tx.ExecContext(ctx,
			`INSERT INTO expense_items (id, expense_id, name, amount_minor, is_shared, assigned_to, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, expense.ID, item.Name, amount, boolToInt(item.IsShared), nullString(item.AssignedTo), i,
		)
		if err != nil {
			return classify(fmt.Errorf("failed to insert item: %w", err))
		}
	}

	for i := range expense.Shares {
		share := &expense.Shares[i]
		share.ExpenseID = expense.ID
		share.ExpenseCreatedAt = expense.CreatedAt
		if err := t.CreateShare(ctx, share); err != nil {
			return err
		}
	}

	return nil
}

// GetExpense retrieves an expense by ID, including participants, items and shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses e WHERE e.id = ?`, expenseID)

	expense, err := scanExpense(row)
	if isNoRows(err) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := loadExpenseDetails(ctx, s.db, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesForUser returns expenses the user created or participates in.
func (s *SQLiteStore) ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		 WHERE e.created_by = ?
		    OR EXISTS (SELECT 1 FROM expense_participants p WHERE p.expense_id = e.id AND p.user_id = ?)
		 ORDER BY e.created_at DESC, e.id DESC`,
		userID, userID,
	)
}

// ListExpensesCreatedBy returns expenses the user fronted.
func (s *SQLiteStore) ListExpensesCreatedBy(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		 WHERE e.created_by = ?
		 ORDER BY e.created_at DESC, e.id DESC`,
		userID,
	)
}

// ListExpensesBetween returns expenses one of the two users paid for where
// the other holds a share.
func (s *SQLiteStore) ListExpensesBetween(ctx context.Context, userID, friendID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		 WHERE (e.created_by = ?
		        AND EXISTS (SELECT 1 FROM expense_shares s WHERE s.expense_id = e.id AND s.participant_id = ?))
		    OR (e.created_by = ?
		        AND EXISTS (SELECT 1 FROM expense_shares s WHERE s.expense_id = e.id AND s.participant_id = ?))
		 ORDER BY e.created_at DESC, e.id DESC`,
		friendID, userID, userID, friendID,
	)
}

// UpdateExpenseDetails changes the title and description of an expense.
// A zero updatedAt is stamped with the store clock.
func (s *SQLiteStore) UpdateExpenseDetails(ctx context.Context, expenseID, title, description string, updatedAt int64) error {
	if updatedAt == 0 {
		updatedAt = s.now().UnixMilli()
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET title = ?, description = ?, updated_at = ? WHERE id = ?",
		title, description, updatedAt, expenseID,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to update expense: %w", err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := loadExpenseDetails(ctx, s.db, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		expense    models.Expense
		total, tax int64
	)
	err := row.Scan(
		&expense.ID, &expense.Title, &expense.Description, &total, &tax,
		&expense.CreatedBy, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.TotalAmount = money.FromMinor(total)
	expense.TaxAmount = money.FromMinor(tax)
	return &expense, nil
}

// loadExpenseDetails fills participants, items and shares. Each query is
// drained before the next one starts.
func loadExpenseDetails(ctx context.Context, q querier, expense *models.Expense) error {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		expense.Participants = append(expense.Participants, userID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT id, name, amount_minor, is_shared, assigned_to
		 FROM expense_items WHERE expense_id = ? ORDER BY position`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	for rows.Next() {
		var (
			item       models.ExpenseItem
			amount     int64
			assignedTo sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &amount, &item.IsShared, &assignedTo); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan item: %w", err)
		}
		item.ExpenseID = expense.ID
		item.Amount = money.FromMinor(amount)
		item.AssignedTo = assignedTo.String
		expense.Items = append(expense.Items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		`SELECT `+shareColumns+`, e.created_at
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE s.expense_id = ? ORDER BY s.rowid`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		expense.Shares = append(expense.Shares, *share)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}
	return nil
}
