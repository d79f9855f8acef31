package ledger

import (
	"context"
	"strings"

	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/models"
)

// User directory page sizes.
const (
	DefaultUserLimit = 50
	MaxUserLimit     = 200
)

// ListUsers searches the user directory by display name or email so callers
// can find the IDs expenses and payments refer to. A zero limit means
// DefaultUserLimit; larger limits are capped at MaxUserLimit.
func (l *Ledger) ListUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	switch {
	case limit < 0:
		return nil, apperrors.Validation("limit", "must not be negative")
	case limit == 0:
		limit = DefaultUserLimit
	case limit > MaxUserLimit:
		limit = MaxUserLimit
	}

	users, err := l.store.SearchUsers(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, classify(err, "list users")
	}
	return users, nil
}
