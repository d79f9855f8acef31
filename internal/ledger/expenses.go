package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	apperrors "github.com/mmynk/splitledger/internal/errors"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// ItemInput is one line of a new expense.
type ItemInput struct {
	Name       string
	Amount     decimal.Decimal
	IsShared   bool
	AssignedTo string
}

// CreateExpenseInput describes a new expense fronted by the acting user.
type CreateExpenseInput struct {
	Title       string
	Description string
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal

	// Items must sum to TotalAmount. When empty, the whole total is one
	// shared item named after the expense.
	Items []ItemInput

	// Participants may omit the actor; it is added automatically.
	Participants []string
}

// CreateExpense validates the input, splits it into shares and persists the
// expense, its items, participants and shares in one transaction.
func (l *Ledger) CreateExpense(ctx context.Context, actor string, in CreateExpenseInput) (*models.Expense, error) {
	if actor == "" {
		return nil, apperrors.Validation("created_by", "is required")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Validation("title", "is required")
	}
	if err := positiveAmount("total_amount", in.TotalAmount); err != nil {
		return nil, err
	}
	if in.TaxAmount.IsNegative() {
		return nil, apperrors.Validation("tax_amount", "must not be negative")
	}
	if err := money.CheckScale(in.TaxAmount); err != nil {
		return nil, apperrors.Validation("tax_amount", "%v", err)
	}
	if err := money.CheckRange(in.TaxAmount); err != nil {
		return nil, apperrors.Validation("tax_amount", "%v", err)
	}

	items, err := normalizeItems(title, in.TotalAmount, in.Items)
	if err != nil {
		return nil, err
	}

	participants := calculator.ResolveParticipants(actor, in.Participants)
	if err := l.requireUsers(ctx, participants); err != nil {
		return nil, err
	}

	split, err := calculator.CalculateShares(actor, participants, items, in.TaxAmount)
	if err != nil {
		return nil, err
	}

	now := l.now().UnixMilli()
	expense := &models.Expense{
		ID:           models.NewID(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		TotalAmount:  in.TotalAmount,
		TaxAmount:    in.TaxAmount,
		CreatedBy:    actor,
		Participants: split.Participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, item := range items {
		expense.Items = append(expense.Items, models.ExpenseItem{
			Name:       item.Name,
			Amount:     item.Amount,
			IsShared:   item.IsShared,
			AssignedTo: item.AssignedTo,
		})
	}
	for _, o := range split.Obligations {
		expense.Shares = append(expense.Shares, models.ExpenseShare{
			Participant: o.Participant,
			Amount:      o.Amount,
		})
	}

	err = l.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.CreateExpense(ctx, expense)
	})
	if err != nil {
		return nil, classify(err, "create expense")
	}

	l.metrics.ExpenseCreated(len(expense.Shares))
	l.logger.Info("expense created",
		"expense_id", expense.ID,
		"created_by", actor,
		"total", money.Format(expense.TotalAmount),
		"tax", money.Format(expense.TaxAmount),
		"participants", len(expense.Participants),
		"shares", len(expense.Shares),
	)
	return expense, nil
}

// normalizeItems checks item names and that items add up to total. An empty
// item list becomes a single shared item for the full total.
func normalizeItems(title string, total decimal.Decimal, in []ItemInput) ([]calculator.Item, error) {
	if len(in) == 0 {
		return []calculator.Item{{Name: title, Amount: total, IsShared: true}}, nil
	}

	items := make([]calculator.Item, 0, len(in))
	sum := decimal.Zero
	for i, item := range in {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, apperrors.Validation(fmt.Sprintf("items[%d].name", i), "is required")
		}
		if err := positiveAmount(fmt.Sprintf("items[%d].amount", i), item.Amount); err != nil {
			return nil, err
		}
		items = append(items, calculator.Item{
			Name:       name,
			Amount:     item.Amount,
			IsShared:   item.IsShared,
			AssignedTo: item.AssignedTo,
		})
		sum = sum.Add(item.Amount)
	}

	if !sum.Equal(total) {
		return nil, apperrors.Validation("items", "items add up to %s but total_amount is %s",
			money.Format(sum), money.Format(total))
	}
	return items, nil
}

func positiveAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Validation(field, "must be positive")
	}
	if err := money.CheckScale(amount); err != nil {
		return apperrors.Validation(field, "%v", err)
	}
	if err := money.CheckRange(amount); err != nil {
		return apperrors.Validation(field, "%v", err)
	}
	return nil
}

// requireUsers fails with NotFound naming the first unknown ID.
func (l *Ledger) requireUsers(ctx context.Context, ids []string) error {
	users, err := l.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return classify(err, "load participants")
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return apperrors.NotFound("user %s not found", id)
		}
	}
	return nil
}

// GetExpense returns an expense visible to actor: its creator or a participant.
func (l *Ledger) GetExpense(ctx context.Context, actor, expenseID string) (*models.Expense, error) {
	if expenseID == "" {
		return nil, apperrors.Validation("expense_id", "is required")
	}

	expense, err := l.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound("expense %s not found", expenseID)
	}
	if err != nil {
		return nil, classify(err, "get expense")
	}

	if expense.CreatedBy != actor && !slices.Contains(expense.Participants, actor) {
		return nil, apperrors.PermissionDenied("not a participant of expense %s", expenseID)
	}
	return expense, nil
}

// ListExpenses returns expenses actor created or participates in, newest first.
func (l *Ledger) ListExpenses(ctx context.Context, actor string) ([]*models.Expense, error) {
	expenses, err := l.store.ListExpensesForUser(ctx, actor)
	if err != nil {
		return nil, classify(err, "list expenses")
	}
	return expenses, nil
}

// ListMyExpenses returns expenses actor fronted, newest first.
func (l *Ledger) ListMyExpenses(ctx context.Context, actor string) ([]*models.Expense, error) {
	expenses, err := l.store.ListExpensesCreatedBy(ctx, actor)
	if err != nil {
		return nil, classify(err, "list expenses")
	}
	return expenses, nil
}

// ListFriendExpenses returns expenses where actor paid and friendID owes a
// share, or the other way round.
func (l *Ledger) ListFriendExpenses(ctx context.Context, actor, friendID string) ([]*models.Expense, error) {
	if _, err := l.requireUser(ctx, "friend_id", friendID); err != nil {
		return nil, err
	}

	expenses, err := l.store.ListExpensesBetween(ctx, actor, friendID)
	if err != nil {
		return nil, classify(err, "list expenses")
	}
	return expenses, nil
}

// UpdateExpenseDetails changes an expense's title and description. Only the
// creator may do this; amounts and shares never change after creation.
func (l *Ledger) UpdateExpenseDetails(ctx context.Context, actor, expenseID, title, description string) (*models.Expense, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation("title", "is required")
	}

	expense, err := l.GetExpense(ctx, actor, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy != actor {
		return nil, apperrors.PermissionDenied("only the creator can edit expense %s", expenseID)
	}

	description = strings.TrimSpace(description)
	if err := l.store.UpdateExpenseDetails(ctx, expenseID, title, description, l.now().UnixMilli()); err != nil {
		return nil, classify(err, "update expense")
	}

	l.logger.Info("expense updated", "expense_id", expenseID, "updated_by", actor)

	return l.GetExpense(ctx, actor, expenseID)
}

// ListShares returns every share actor owes or is owed, with actor's role.
func (l *Ledger) ListShares(ctx context.Context, actor string) ([]models.ShareView, error) {
	shares, err := l.store.ListSharesForUser(ctx, actor)
	if err != nil {
		return nil, classify(err, "list shares")
	}
	return shares, nil
}
