package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Keeps one slow operation from wedging an account.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

// Reference prefixes identify the operation that produced an entry. Both
// legs of a two-account operation share one reference, as do both
// reversal legs of a cancellation.
const (
	refPrefixMovement = "MOV"
	refPrefixDeposit  = "DEP"
	refPrefixWithdraw = "WDR"
	refPrefixTransfer = "TRF"
	refPrefixExchange = "FX"
	refPrefixBill     = "BILL"
	refPrefixCard     = "CC"
	refPrefixMint     = "MINT"
	refPrefixReversal = "REV"
)
