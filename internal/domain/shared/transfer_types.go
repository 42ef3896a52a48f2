package shared

// TransferStatus defines transfer processing states
type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "PENDING"
	TransferStatusProcessing TransferStatus = "PROCESSING"
	TransferStatusCompleted  TransferStatus = "COMPLETED"
	TransferStatusFailed     TransferStatus = "FAILED"
)

// FailureReason defines transfer failure categories
type FailureReason string

const (
	FailureReasonAccountNotFound    FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonCurrencyMismatch   FailureReason = "CURRENCY_MISMATCH"
	FailureReasonInsufficientFunds  FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonDailyLimitExceeded FailureReason = "DAILY_LIMIT_EXCEEDED"
	FailureReasonInvalidAmount      FailureReason = "INVALID_AMOUNT"
	FailureReasonMissingRecipient   FailureReason = "MISSING_RECIPIENT"
	FailureReasonCommitFailed       FailureReason = "TRANSFER_COMMIT_FAILED"
	FailureReasonUnknownError       FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
