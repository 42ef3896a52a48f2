package handler

// CreateAccountRequest represents a request to create a new account.
// All monetary fields are in sen/minor units.
type CreateAccountRequest struct {
	OwnerName           string `json:"owner_name" binding:"required"`
	AccountNumber       string `json:"account_number" binding:"required"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	InitialBalance      int64  `json:"initial_balance" binding:"min=0"`
	Currency            string `json:"currency" binding:"required,len=3"`
	DailyLimit          int64  `json:"daily_limit" binding:"required,gt=0"`
	MonthlyLimit        int64  `json:"monthly_limit" binding:"required,gt=0"`
	PerTransactionLimit int64  `json:"per_transaction_limit" binding:"required,gt=0"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID            string `json:"id"`
	OwnerName     string `json:"owner_name"`
	AccountNumber string `json:"account_number"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	Balance       int64  `json:"balance"`
	Currency      string `json:"currency"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// AccountLimitsResponse reports limit thresholds alongside usage projected
// onto the current daily/monthly window
type AccountLimitsResponse struct {
	DailyLimit          int64 `json:"daily_limit"`
	DailyUsed           int64 `json:"daily_used"`
	DailyRemaining      int64 `json:"daily_remaining"`
	MonthlyLimit        int64 `json:"monthly_limit"`
	MonthlyUsed         int64 `json:"monthly_used"`
	MonthlyRemaining    int64 `json:"monthly_remaining"`
	PerTransactionLimit int64 `json:"per_transaction_limit"`
}

// SaveRecipientRequest represents a request to save a new transfer recipient.
// At least one of account number or phone number must be present.
type SaveRecipientRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountNumber string `json:"account_number,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// FavoriteRecipientRequest marks a saved recipient as favorite. Omitting
// is_favorite means favoriting; sending false clears the flag.
type FavoriteRecipientRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	IsFavorite  *bool  `json:"is_favorite,omitempty"`
}

// TransferRequestBody is the shared payload for validating and submitting a
// transfer. The recipient may be referenced by saved id, account number, or
// phone number; at least one must be present.
type TransferRequestBody struct {
	AccountID              string `json:"account_id" binding:"required,uuid"`
	Amount                 int64  `json:"amount" binding:"required,gt=0"`
	Currency               string `json:"currency" binding:"required,len=3"`
	RecipientID            string `json:"recipient_id,omitempty"`
	RecipientAccountNumber string `json:"recipient_account_number,omitempty"`
	RecipientPhoneNumber   string `json:"recipient_phone_number,omitempty"`
	RecipientName          string `json:"recipient_name,omitempty"`
	BankName               string `json:"bank_name,omitempty"`
	Note                   string `json:"note,omitempty"`
	IdempotencyKey         string `json:"idempotency_key,omitempty"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	TransferID    string         `json:"transfer_id"`
	AccountID     string         `json:"account_id"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	Recipient     PartyResponse  `json:"recipient"`
	Sender        *PartyResponse `json:"sender,omitempty"`
	Note          string         `json:"note,omitempty"`
	Reference     string         `json:"reference,omitempty"`
	Status        string         `json:"status"`
	FailureReason string         `json:"failure_reason,omitempty"`
	CreatedAt     string         `json:"created_at"`
	CompletedAt   string         `json:"completed_at,omitempty"`
}

// PartyResponse is the sender/recipient snapshot inside a transfer response
type PartyResponse struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// RecipientResponse represents a saved recipient in API responses
type RecipientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AccountNumber  string `json:"account_number,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	BankName       string `json:"bank_name,omitempty"`
	IsFavorite     bool   `json:"is_favorite"`
	LastTransferAt string `json:"last_transfer_at,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
