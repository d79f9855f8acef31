package api

// CounterpartyBalance is one grouped line of a balance breakdown.
type CounterpartyBalance struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Amount      Amount `json:"amount"`
}

type GetOverallBalanceRequest struct{}

type GetOverallBalanceResponse struct {
	TotalDueToUser   Amount                `json:"total_due_to_user"`
	TotalUserOwes    Amount                `json:"total_user_owes"`
	TotalBalance     Amount                `json:"total_balance"`
	FriendsOwingUser []CounterpartyBalance `json:"friends_owing_user"`
	UserOwingFriends []CounterpartyBalance `json:"user_owing_friends"`
}

type GetFriendBalanceRequest struct {
	FriendID string `json:"friend_id"`
}

type GetFriendBalanceResponse struct {
	Friend    *User  `json:"friend"`
	DueToUser Amount `json:"due_to_user"`
	UserOwes  Amount `json:"user_owes"`
	Balance   Amount `json:"balance"`
}

// Friend is a user the caller shares expenses with; Balance is positive
// when the friend owes the caller.
type Friend struct {
	User    *User  `json:"user"`
	Balance Amount `json:"balance"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []Friend `json:"friends"`
}
