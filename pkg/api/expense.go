package api

// ExpenseItem is one line of an expense.
type ExpenseItem struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Amount     Amount `json:"amount"`
	IsShared   bool   `json:"is_shared"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

// ExpenseShare is one obligation row. Role, ExpenseTitle and Creditor are
// set on listings relative to the caller.
type ExpenseShare struct {
	ID                 string `json:"id"`
	ExpenseID          string `json:"expense_id"`
	Participant        string `json:"participant"`
	Amount             Amount `json:"amount"`
	Settled            bool   `json:"settled"`
	SettledByPaymentID string `json:"settled_by_payment_id,omitempty"`
	Role               string `json:"role,omitempty"`
	ExpenseTitle       string `json:"expense_title,omitempty"`
	Creditor           string `json:"creditor,omitempty"`
}

type Expense struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	TotalAmount  Amount         `json:"total_amount"`
	TaxAmount    Amount         `json:"tax_amount"`
	CreatedBy    string         `json:"created_by"`
	Participants []string       `json:"participants"`
	Items        []ExpenseItem  `json:"items"`
	Shares       []ExpenseShare `json:"shares"`
	CreatedAt    int64          `json:"created_at"`
	UpdatedAt    int64          `json:"updated_at"`
}

type CreateExpenseRequest struct {
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	TotalAmount  Amount        `json:"total_amount"`
	TaxAmount    Amount        `json:"tax_amount"`
	Items        []ExpenseItem `json:"items,omitempty"`
	Participants []string      `json:"participants"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string `json:"expense_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListMyExpensesRequest struct{}

type ListFriendExpensesRequest struct {
	FriendID string `json:"friend_id"`
}

// ListExpensesResponse answers every expense listing.
type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type ListSharesRequest struct{}

type ListSharesResponse struct {
	Shares []ExpenseShare `json:"shares"`
}
