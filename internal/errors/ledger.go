package errors

var (
	ErrUnsupportedCurrency = &DomainError{
		Code:    "UNSUPPORTED_CURRENCY",
		Message: "currency is not supported",
	}
	ErrCurrencyMismatch = &DomainError{
		Code:    "CURRENCY_MISMATCH",
		Message: "currency mismatch",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be positive",
	}
	ErrInvalidReferenceFormat = &DomainError{
		Code:    "INVALID_REFERENCE_FORMAT",
		Message: "reference number does not match the expected format",
	}
	ErrMissingIdempotencyKey = &DomainError{
		Code:    "MISSING_IDEMPOTENCY_KEY",
		Message: "idempotency key is required",
	}
	ErrAccountNotFound = &DomainError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "account not found",
	}
	ErrTransferNotFound = &DomainError{
		Code:    "TRANSFER_NOT_FOUND",
		Message: "transfer not found",
	}
	ErrAccountInactive = &DomainError{
		Code:    "ACCOUNT_INACTIVE",
		Message: "account is not active",
	}
	ErrSameAccountTransfer = &DomainError{
		Code:    "SAME_ACCOUNT_TRANSFER",
		Message: "source and destination accounts must differ",
	}
	ErrIllegalTransactionState = &DomainError{
		Code:    "ILLEGAL_TRANSACTION_STATE",
		Message: "illegal transaction state transition",
	}
	ErrTransferFailed = &DomainError{
		Code:    "TRANSFER_FAILED",
		Message: "transfer failed, retry with the same idempotency key",
	}
)
