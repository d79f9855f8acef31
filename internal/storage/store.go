// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when an optimistic version check fails.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate")
)

// UserStore defines user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to User. Missing users are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// SearchUsers returns up to limit users whose display name or email
	// contains query, case-insensitively, ordered by display name then ID.
	// An empty query matches everyone.
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger.
type Store interface {
	UserStore

	// GetExpense retrieves an expense with its participants, items and shares.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesForUser returns expenses the user created or participates in,
	// newest first. Items and shares are loaded.
	ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// ListExpensesCreatedBy returns expenses the user fronted, newest first.
	ListExpensesCreatedBy(ctx context.Context, userID string) ([]*models.Expense, error)

	// ListExpensesBetween returns expenses one user paid for where the other
	// holds a share, newest first. Expenses paid by a third user are excluded.
	ListExpensesBetween(ctx context.Context, userID, friendID string) ([]*models.Expense, error)

	// UpdateExpenseDetails changes metadata only and sets updated_at to
	// updatedAt (Unix ms). Amounts and shares are immutable.
	UpdateExpenseDetails(ctx context.Context, expenseID, title, description string, updatedAt int64) error

	// ListSharesForUser returns shares where the user is the participant or
	// the expense creator.
	ListSharesForUser(ctx context.Context, userID string) ([]models.ShareView, error)

	// ListOpenObligations returns every unsettled share involving the user,
	// on either side.
	ListOpenObligations(ctx context.Context, userID string) ([]models.Obligation, error)

	// ListCounterparties returns users linked to the user by any share in
	// either direction, settled or not, ordered by ID.
	ListCounterparties(ctx context.Context, userID string) ([]string, error)

	// ListPaymentsForUser returns payments sent or received by the user, newest first.
	ListPaymentsForUser(ctx context.Context, userID string) ([]*models.Payment, error)

	// InTx runs fn inside a single write transaction. fn's error rolls
	// everything back; a nil return commits.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the write side of the ledger, only reachable inside Store.InTx.
type Tx interface {
	// CreateExpense persists the expense, its participants, items and shares.
	// IDs and timestamps left empty are assigned.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// CreatePayment persists the payment. ID and CreatedAt are assigned when empty.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListSettlementCandidates returns open shares of fromUser on expenses
	// created by toUser, oldest expense first.
	ListSettlementCandidates(ctx context.Context, fromUser, toUser string) ([]models.ExpenseShare, error)

	// UpdateShare writes Amount, Settled and SettledBy if the stored version
	// still equals share.Version, then increments it. Otherwise it returns
	// ErrConcurrentModification.
	UpdateShare(ctx context.Context, share *models.ExpenseShare) error

	// CreateShare inserts a new share row.
	CreateShare(ctx context.Context, share *models.ExpenseShare) error
}
