package mcptools

// ClientInput is the input schema for the *_by_client tools.
type ClientInput struct {
	ClientID string `json:"client_id,omitempty" jsonschema:"Client identifier (Attributes.clientId). Required."`
	Period   string `json:"period,omitempty" jsonschema:"Natural-language period, e.g. 'ontem', 'há 2 horas', 'last week' (optional)"`
}

// CorrelationInput is the input schema for the *_by_correlation tools and get_full_flow.
type CorrelationInput struct {
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"Correlation identifier of one request flow (Attributes.correlationId). Required."`
	Period        string `json:"period,omitempty" jsonschema:"Natural-language period, e.g. 'hoje', 'última semana' (optional)"`
}

// LogsByPeriodInput is the input schema for the search_logs_by_period tool.
type LogsByPeriodInput struct {
	Period   string `json:"period,omitempty" jsonschema:"Natural-language period, e.g. 'hoje', 'há 2 horas'. Required."`
	Severity string `json:"severity,omitempty" jsonschema:"Exact SeverityText to match, e.g. 'Error' or 'Warning' (optional)"`
}

// TracesByPeriodInput is the input schema for the search_traces_by_period tool.
type TracesByPeriodInput struct {
	Period        string `json:"period,omitempty" jsonschema:"Natural-language period, e.g. 'hoje', 'há 2 horas'. Required."`
	OperationName string `json:"operation_name,omitempty" jsonschema:"Exact span name to match (optional)"`
}

// ReportOutput is the output schema for every search tool.
type ReportOutput struct {
	Report string `json:"report"`
}

// ErrorOutput is the JSON body of a failed tool call.
type ErrorOutput struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// Error types reported in ErrorOutput.
const (
	ErrTypeMissingParameter = "missing_parameter"
	ErrTypeSearch           = "search_error"
)

// PingInput is the input schema for the ping tool.
type PingInput struct {
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID      string `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}

// GetBalanceInput is the input schema for the get_balance tool.
type GetBalanceInput struct {
	AccountID     string `json:"account_id,omitempty" jsonschema:"Account ID (GUID). Required."`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID      string `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}

// CreateUserInput is the input schema for the create_user tool.
type CreateUserInput struct {
	Name           string   `json:"name,omitempty" jsonschema:"User name. Required."`
	Email          string   `json:"email,omitempty" jsonschema:"User email. Required."`
	Password       string   `json:"password,omitempty" jsonschema:"User password. Required."`
	InitialBalance *float64 `json:"initial_balance,omitempty" jsonschema:"Opening balance of the user's first account. Required."`
	CorrelationID  string   `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID       string   `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}

// CreateAccountInput is the input schema for the create_account tool.
type CreateAccountInput struct {
	Email          string   `json:"email,omitempty" jsonschema:"Email of the account owner. Required."`
	InitialBalance *float64 `json:"initial_balance,omitempty" jsonschema:"Opening balance. Required."`
	CorrelationID  string   `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID       string   `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}

// LoginInput is the input schema for the login tool.
type LoginInput struct {
	Email         string `json:"email,omitempty" jsonschema:"User email. Required."`
	Password      string `json:"password,omitempty" jsonschema:"User password. Required."`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID      string `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}

// TransferInput is the input schema for the transfer tool.
type TransferInput struct {
	FromAccountID string   `json:"from_account_id,omitempty" jsonschema:"Source account ID (GUID). Required."`
	ToAccountID   string   `json:"to_account_id,omitempty" jsonschema:"Destination account ID (GUID). Required."`
	Amount        *float64 `json:"amount,omitempty" jsonschema:"Amount to transfer. Required."`
	CorrelationID string   `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID      string   `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}

// ListTransactionsInput is the input schema for the list_transactions tool.
type ListTransactionsInput struct {
	AccountID     string `json:"account_id,omitempty" jsonschema:"Account ID (GUID). Required."`
	StartDate     string `json:"start_date,omitempty" jsonschema:"ISO 8601 lower bound (optional)"`
	EndDate       string `json:"end_date,omitempty" jsonschema:"ISO 8601 upper bound (optional)"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"Correlation ID to propagate; generated when absent (optional)"`
	ClientID      string `json:"client_id,omitempty" jsonschema:"Client ID to propagate (optional)"`
}
