package api

type Payment struct {
	ID        string `json:"id"`
	FromUser  string `json:"from_user"`
	ToUser    string `json:"to_user"`
	Amount    Amount `json:"amount"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type CreatePaymentRequest struct {
	ToUser string `json:"to_user"`
	Amount Amount `json:"amount"`
	Notes  string `json:"notes,omitempty"`
}

// CreatePaymentResponse reports the settlement the payment triggered.
// UnappliedAmount is any surplus beyond the payer's outstanding debt.
type CreatePaymentResponse struct {
	Payment         *Payment       `json:"payment"`
	AppliedAmount   Amount         `json:"applied_amount"`
	UnappliedAmount Amount         `json:"unapplied_amount"`
	Shares          []ExpenseShare `json:"shares"`
}

type ListPaymentsRequest struct{}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
