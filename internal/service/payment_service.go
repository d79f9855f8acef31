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

// PaymentService implements the Connect PaymentService over the ledger.
type PaymentService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

var _ apiconnect.PaymentServiceHandler = (*PaymentService)(nil)

// NewPaymentService creates a new PaymentService.
func NewPaymentService(l *ledger.Ledger, logger *slog.Logger) *PaymentService {
	return &PaymentService{ledger: l, logger: logger}
}

// CreatePayment records a payment from the caller and settles the caller's
// open shares towards the recipient.
func (s *PaymentService) CreatePayment(ctx context.Context, req *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("CreatePayment request",
		"from_user", userID,
		"to_user", req.Msg.ToUser,
		"amount", req.Msg.Amount.String(),
	)

	result, err := s.ledger.RecordPayment(ctx, userID, ledger.PaymentInput{
		ToUser: req.Msg.ToUser,
		Amount: req.Msg.Amount.Decimal,
		Notes:  req.Msg.Notes,
	})
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.CreatePaymentResponse{
		Payment:         toAPIPayment(result.Payment),
		AppliedAmount:   api.NewAmount(result.Applied),
		UnappliedAmount: api.NewAmount(result.Unapplied),
		Shares:          toAPIShares(result.Shares),
	}), nil
}

// ListPayments lists payments the caller sent or received.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.ledger.ListPayments(ctx, userID)
	if err != nil {
		return nil, apperrors.ToConnect(err)
	}

	out := make([]*api.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, toAPIPayment(p))
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}
