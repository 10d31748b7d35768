package banking

import (
	"context"
	"net/http"
	"net/url"
)

// NewUser is the payload for CreateUser.
type NewUser struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	InitialBalance float64 `json:"initialBalance"`
}

// NewAccount is the payload for CreateAccount.
type NewAccount struct {
	Email          string  `json:"email"`
	InitialBalance float64 `json:"initialBalance"`
}

// Credentials is the payload for Login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Transfer is the payload for Transfer.
type Transfer struct {
	FromAccountID string  `json:"fromAccountId"`
	ToAccountID   string  `json:"toAccountId"`
	Amount        float64 `json:"amount"`
}

// Ping checks API health.
func (c *Client) Ping(ctx context.Context, id Identity) Response {
	return c.Do(ctx, Call{Method: http.MethodGet, Path: "/ping", Identity: id})
}

// GetBalance returns the balance of an account.
func (c *Client) GetBalance(ctx context.Context, id Identity, accountID string) Response {
	return c.Do(ctx, Call{
		Method:   http.MethodGet,
		Path:     "/accounts/" + url.PathEscape(accountID) + "/balance",
		Identity: id,
	})
}

// CreateUser registers a user with an initial account.
func (c *Client) CreateUser(ctx context.Context, id Identity, u NewUser) Response {
	return c.Do(ctx, Call{Method: http.MethodPost, Path: "/users", Body: u, Identity: id})
}

// CreateAccount opens another account for an existing user.
func (c *Client) CreateAccount(ctx context.Context, id Identity, a NewAccount) Response {
	return c.Do(ctx, Call{Method: http.MethodPost, Path: "/accounts", Body: a, Identity: id})
}

// Login authenticates a user.
func (c *Client) Login(ctx context.Context, id Identity, cred Credentials) Response {
	return c.Do(ctx, Call{Method: http.MethodPost, Path: "/auth/login", Body: cred, Identity: id})
}

// Transfer moves funds between two accounts.
func (c *Client) Transfer(ctx context.Context, id Identity, t Transfer) Response {
	return c.Do(ctx, Call{Method: http.MethodPost, Path: "/transactions", Body: t, Identity: id})
}

// ListTransactions lists the transactions of an account, optionally bounded
// by ISO dates.
func (c *Client) ListTransactions(ctx context.Context, id Identity, accountID, startDate, endDate string) Response {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	return c.Do(ctx, Call{
		Method:   http.MethodGet,
		Path:     "/accounts/" + url.PathEscape(accountID) + "/transactions",
		Query:    q,
		Identity: id,
	})
}
