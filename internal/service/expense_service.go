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

// ExpenseService implements the Connect ExpenseService over the ledger.
type ExpenseService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(l *ledger.Ledger, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{ledger: l, logger: logger}
}

// CreateExpense records an expense fronted by the caller.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("CreateExpense request",
		"user_id", userID,
		"title", req.Msg.Title,
		"total", req.Msg.TotalAmount.String(),
		"items", len(req.Msg.Items),
		"participants", req.Msg.Participants,
	)

	expense, err := s.ledger.CreateExpense(ctx, userID, ledger.CreateExpenseInput{
		Title:        req.Msg.Title,
		Description:  req.Msg.Description,
		TotalAmount:  req.Msg.TotalAmount.Decimal,
		TaxAmount:    req.Msg.TaxAmount.Decimal,
		Items:        fromAPIItems(req.Msg.Items),
		Participants: req.Msg.Participants,
	})
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense returns one expense visible to the caller.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.ledger.GetExpense(ctx, userID, req.Msg.ExpenseID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense changes the title and description of an expense the caller created.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.ledger.UpdateExpenseDetails(ctx, userID, req.Msg.ExpenseID, req.Msg.Title, req.Msg.Description)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses lists every expense the caller created or participates in.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListExpenses(ctx, userID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// ListMyExpenses lists expenses the caller paid for.
func (s *ExpenseService) ListMyExpenses(ctx context.Context, req *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListMyExpenses(ctx, userID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// ListFriendExpenses lists expenses shared by the caller and one friend.
func (s *ExpenseService) ListFriendExpenses(ctx context.Context, req *connect.Request[api.ListFriendExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListFriendExpenses(ctx, userID, req.Msg.FriendID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// ListShares lists every share the caller owes or is owed.
func (s *ExpenseService) ListShares(ctx context.Context, req *connect.Request[api.ListSharesRequest]) (*connect.Response[api.ListSharesResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.ledger.ListShares(ctx, userID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	shares := make([]api.ExpenseShare, 0, len(views))
	for _, v := range views {
		shares = append(shares, toAPIShareView(v))
	}
	return connect.NewResponse(&api.ListSharesResponse{Shares: shares}), nil
}
