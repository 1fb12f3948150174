package repositories

import "errors"

// Persistence-level errors. The service layer translates these into the
// domain error taxonomy.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransferNotFound    = errors.New("transfer not found")

	// ErrDuplicateIdempotencyKey is returned when the unique constraint on
	// transfers.idempotency_key rejects a write. Two requests racing on the
	// same key converge through this error onto the committed row.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrDuplicateReferenceNumber is returned when a reference number
	// collides with an existing transaction row.
	ErrDuplicateReferenceNumber = errors.New("duplicate reference number")
)
