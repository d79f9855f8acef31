// Package ledger runs the ledger's units of work: validating requests,
// computing shares and settlements, and persisting each mutation atomically.
//
// Identity is trusted: every operation takes the acting user's ID as
// supplied by the caller's authentication layer.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/lock"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger is safe for concurrent use.
type Ledger struct {
	store   storage.Store
	locker  lock.Locker
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLocker replaces the in-process settlement lock.
func WithLocker(locker lock.Locker) Option {
	return func(l *Ledger) { l.locker = locker }
}

// WithMetrics records ledger activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock overrides the time source used for new records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		locker: lock.NewLocal(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Users returns the users with the given IDs, keyed by ID.
func (l *Ledger) Users(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users, err := l.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, classify(err, "load users")
	}
	return users, nil
}

func (l *Ledger) requireUser(ctx context.Context, field, id string) (*models.User, error) {
	if id == "" {
		return nil, apperrors.Validation(field, "is required")
	}
	user, err := l.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, classify(err, "load user")
	}
	return user, nil
}

// classify maps storage failures onto the ledger error taxonomy. Errors that
// already carry a ledger code pass through unchanged.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound("%s: %v", op, err)
	case errors.Is(err, storage.ErrConcurrentModification), errors.Is(err, lock.ErrNotAcquired):
		return apperrors.Conflict(op+": concurrent modification, retry", err)
	case errors.Is(err, storage.ErrDuplicate):
		return apperrors.AlreadyExists("%s: %v", op, err)
	default:
		return apperrors.Internal("failed to "+op, err)
	}
}
