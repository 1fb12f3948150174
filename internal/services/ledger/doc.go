/*
Package ledger implements the double-entry transfer orchestrator.

A transfer moves funds between two accounts as one debit and one credit
transaction (plus an optional fee leg) linked by a Transfer aggregate and
guarded by a client-supplied idempotency key:

	svc := ledger.NewService(repo, cache, publisher, ledger.Config{}, nil)

	result, err := svc.Transfer(ctx, ledger.TransferRequest{
	    SourceAccountID:      1,
	    DestinationAccountID: 2,
	    Amount:               amount,
	    Description:          "rent",
	    IdempotencyKey:       "client-generated-key",
	})

Guarantees:

  - Exactly-once: retrying with the same idempotency key returns the
    originally computed result and performs no further mutation, even when
    two requests race on the key.
  - Atomicity: balance mutations, transaction rows and the transfer row
    commit in one unit of work or not at all.
  - Deadlock freedom: accounts are always locked in ascending id order
    regardless of which one is the source.
  - Velocity limits: accumulated completed volume per UTC day and month is
    checked against the per-account-type ceilings before any mutation.

Single-leg deposits and withdrawals, and reversals of committed transfers,
follow the same discipline.
*/
package ledger
