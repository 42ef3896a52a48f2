package transfer

// Error codes carried on blocking verdict errors. The same codes surface as
// failure reasons when an execution-time re-check fails.
const (
	CodeInsufficientFunds           = "INSUFFICIENT_FUNDS"
	CodeDailyLimitExceeded          = "DAILY_LIMIT_EXCEEDED"
	CodePerTransactionLimitExceeded = "PER_TRANSACTION_LIMIT_EXCEEDED"
)

// Warning types. Warnings are advisory and never block execution.
const (
	WarningDailyLimit        = "daily_limit_warning"
	WarningDuplicateTransfer = "duplicate_transfer"
)

// FieldError is a blocking validation error tied to a request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning is an advisory finding the sender may acknowledge and proceed past.
type Warning struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Verdict is the structured result of validating a transfer request.
// IsValid is true exactly when Errors is empty; Warnings never affect it.
type Verdict struct {
	IsValid  bool         `json:"is_valid"`
	Errors   []FieldError `json:"errors"`
	Warnings []Warning    `json:"warnings"`
}
