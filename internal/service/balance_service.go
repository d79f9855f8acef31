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

// BalanceService implements the Connect BalanceService. Every answer is
// recomputed from the open shares at request time.
type BalanceService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

var _ apiconnect.BalanceServiceHandler = (*BalanceService)(nil)

// NewBalanceService creates a new BalanceService.
func NewBalanceService(l *ledger.Ledger, logger *slog.Logger) *BalanceService {
	return &BalanceService{ledger: l, logger: logger}
}

// GetOverallBalance returns the caller's net position.
func (s *BalanceService) GetOverallBalance(ctx context.Context, req *connect.Request[api.GetOverallBalanceRequest]) (*connect.Response[api.GetOverallBalanceResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.GetOverallBalanceResponse{
		TotalDueToUser:   api.NewAmount(summary.DueToUser),
		TotalUserOwes:    api.NewAmount(summary.UserOwes),
		TotalBalance:     api.NewAmount(summary.Total),
		FriendsOwingUser: toAPICounterparties(summary.FriendsOwingUser),
		UserOwingFriends: toAPICounterparties(summary.UserOwingFriends),
	}), nil
}

// GetFriendBalance returns the net position between the caller and one friend.
func (s *BalanceService) GetFriendBalance(ctx context.Context, req *connect.Request[api.GetFriendBalanceRequest]) (*connect.Response[api.GetFriendBalanceResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	friend, err := s.ledger.FriendBalance(ctx, userID, req.Msg.FriendID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.GetFriendBalanceResponse{
		Friend:    toAPIUser(&friend.User),
		DueToUser: api.NewAmount(friend.Balance.DueToUser),
		UserOwes:  api.NewAmount(friend.Balance.UserOwes),
		Balance:   api.NewAmount(friend.Balance.Total),
	}), nil
}

// ListFriends lists everyone the caller shares expenses with.
func (s *BalanceService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.ledger.Friends(ctx, userID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	out := make([]api.Friend, 0, len(friends))
	for i := range friends {
		out = append(out, api.Friend{
			User:    toAPIUser(&friends[i].User),
			Balance: api.NewAmount(friends[i].Balance.Total),
		})
	}
	return connect.NewResponse(&api.ListFriendsResponse{Friends: out}), nil
}
