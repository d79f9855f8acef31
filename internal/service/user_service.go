package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// UserService implements the Connect UserService: the directory clients use
// to find participant and payee IDs.
type UserService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// NewUserService creates a new UserService.
func NewUserService(l *ledger.Ledger, logger *slog.Logger) *UserService {
	return &UserService{ledger: l, logger: logger}
}

// ListUsers searches users by display name or email.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("ListUsers request", "user_id", userID, "query", req.Msg.Query, "limit", req.Msg.Limit)

	users, err := s.ledger.ListUsers(ctx, req.Msg.Query, int(req.Msg.Limit))
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	out := make([]*api.User, 0, len(users))
	for _, u := range users {
		out = append(out, toAPIUser(u))
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}
