package service

import (
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	if u == nil {
		return nil
	}
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIShare(s models.ExpenseShare) api.ExpenseShare {
	return api.ExpenseShare{
		ID:                 s.ID,
		ExpenseID:          s.ExpenseID,
		Participant:        s.Participant,
		Amount:             api.NewAmount(s.Amount),
		Settled:            s.Settled,
		SettledByPaymentID: s.SettledBy,
	}
}

func toAPIShares(shares []models.ExpenseShare) []api.ExpenseShare {
	out := make([]api.ExpenseShare, 0, len(shares))
	for _, s := range shares {
		out = append(out, toAPIShare(s))
	}
	return out
}

func toAPIShareView(v models.ShareView) api.ExpenseShare {
	share := toAPIShare(v.Share)
	share.Role = string(v.Role)
	share.ExpenseTitle = v.ExpenseTitle
	share.Creditor = v.Creditor
	return share
}

func toAPIExpense(e *models.Expense) *api.Expense {
	items := make([]api.ExpenseItem, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, api.ExpenseItem{
			ID:         item.ID,
			Name:       item.Name,
			Amount:     api.NewAmount(item.Amount),
			IsShared:   item.IsShared,
			AssignedTo: item.AssignedTo,
		})
	}

	return &api.Expense{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		TotalAmount:  api.NewAmount(e.TotalAmount),
		TaxAmount:    api.NewAmount(e.TaxAmount),
		CreatedBy:    e.CreatedBy,
		Participants: append([]string{}, e.Participants...),
		Items:        items,
		Shares:       toAPIShares(e.Shares),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toAPIExpenses(expenses []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toAPIExpense(e))
	}
	return out
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:        p.ID,
		FromUser:  p.FromUser,
		ToUser:    p.ToUser,
		Amount:    api.NewAmount(p.Amount),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func toAPICounterparties(totals []models.CounterpartyTotal) []api.CounterpartyBalance {
	out := make([]api.CounterpartyBalance, 0, len(totals))
	for _, t := range totals {
		out = append(out, api.CounterpartyBalance{
			UserID:      t.UserID,
			DisplayName: t.DisplayName,
			Amount:      api.NewAmount(t.Total),
		})
	}
	return out
}

func fromAPIItems(items []api.ExpenseItem) []ledger.ItemInput {
	if len(items) == 0 {
		return nil
	}
	out := make([]ledger.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, ledger.ItemInput{
			Name:       item.Name,
			Amount:     item.Amount.Decimal,
			IsShared:   item.IsShared,
			AssignedTo: item.AssignedTo,
		})
	}
	return out
}
