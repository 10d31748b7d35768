package mcptools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/LeonardoGonSantos/tracectl/internal/banking"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// bankingResult renders resp as indented JSON text alongside the structured
// envelope. API and transport failures are data, not tool errors.
func bankingResult(tool string, resp banking.Response) (*mcp.CallToolResult, banking.Response, error) {
	slog.Debug("banking call",
		"tool", tool,
		"status", resp.StatusCode,
		"correlation_id", resp.CorrelationID,
	)
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, banking.Response{}, err
	}
	return &mcp.CallToolResult{Content: textContent(string(data))}, resp, nil
}

func missingBankingParameter(name string) (*mcp.CallToolResult, banking.Response, error) {
	return missingParameterResult(name), banking.Response{}, nil
}

// PingHandler returns the handler for the ping tool.
func PingHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input PingInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PingInput) (*mcp.CallToolResult, banking.Response, error) {
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("ping", client.Ping(ctx, id))
	}
}

// GetBalanceHandler returns the handler for the get_balance tool.
func GetBalanceHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input GetBalanceInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetBalanceInput) (*mcp.CallToolResult, banking.Response, error) {
		if input.AccountID == "" {
			return missingBankingParameter("account_id")
		}
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("get_balance", client.GetBalance(ctx, id, input.AccountID))
	}
}

// CreateUserHandler returns the handler for the create_user tool.
func CreateUserHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input CreateUserInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateUserInput) (*mcp.CallToolResult, banking.Response, error) {
		switch {
		case input.Name == "":
			return missingBankingParameter("name")
		case input.Email == "":
			return missingBankingParameter("email")
		case input.Password == "":
			return missingBankingParameter("password")
		case input.InitialBalance == nil:
			return missingBankingParameter("initial_balance")
		}
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("create_user", client.CreateUser(ctx, id, banking.NewUser{
			Name:           input.Name,
			Email:          input.Email,
			Password:       input.Password,
			InitialBalance: *input.InitialBalance,
		}))
	}
}

// CreateAccountHandler returns the handler for the create_account tool.
func CreateAccountHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input CreateAccountInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateAccountInput) (*mcp.CallToolResult, banking.Response, error) {
		switch {
		case input.Email == "":
			return missingBankingParameter("email")
		case input.InitialBalance == nil:
			return missingBankingParameter("initial_balance")
		}
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("create_account", client.CreateAccount(ctx, id, banking.NewAccount{
			Email:          input.Email,
			InitialBalance: *input.InitialBalance,
		}))
	}
}

// LoginHandler returns the handler for the login tool.
func LoginHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input LoginInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input LoginInput) (*mcp.CallToolResult, banking.Response, error) {
		switch {
		case input.Email == "":
			return missingBankingParameter("email")
		case input.Password == "":
			return missingBankingParameter("password")
		}
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("login", client.Login(ctx, id, banking.Credentials{
			Email:    input.Email,
			Password: input.Password,
		}))
	}
}

// TransferHandler returns the handler for the transfer tool.
func TransferHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input TransferInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input TransferInput) (*mcp.CallToolResult, banking.Response, error) {
		switch {
		case input.FromAccountID == "":
			return missingBankingParameter("from_account_id")
		case input.ToAccountID == "":
			return missingBankingParameter("to_account_id")
		case input.Amount == nil:
			return missingBankingParameter("amount")
		}
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("transfer", client.Transfer(ctx, id, banking.Transfer{
			FromAccountID: input.FromAccountID,
			ToAccountID:   input.ToAccountID,
			Amount:        *input.Amount,
		}))
	}
}

// ListTransactionsHandler returns the handler for the list_transactions tool.
func ListTransactionsHandler(client *banking.Client) func(ctx context.Context, req *mcp.CallToolRequest, input ListTransactionsInput) (*mcp.CallToolResult, banking.Response, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListTransactionsInput) (*mcp.CallToolResult, banking.Response, error) {
		if input.AccountID == "" {
			return missingBankingParameter("account_id")
		}
		id := banking.Identity{CorrelationID: input.CorrelationID, ClientID: input.ClientID}
		return bankingResult("list_transactions",
			client.ListTransactions(ctx, id, input.AccountID, input.StartDate, input.EndDate))
	}
}
