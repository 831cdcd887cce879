package entities

import "errors"

// Sentinel errors returned by the payment and synchronization services.
// Callers discriminate with errors.Is; none of these abort the host.
var (
	// ErrUnknownPlayer means a name did not resolve to a player ID.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrInvalidAmount means an amount was unparseable, zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSelfPayment means sender and recipient are the same player.
	ErrSelfPayment = errors.New("cannot pay yourself")

	// ErrInsufficientFunds means the ledger refused the withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRecipientOffline means the recipient is not connected; offline
	// payments are unsupported because the target bucket is ambiguous.
	ErrRecipientOffline = errors.New("recipient is offline")

	// ErrPaymentAborted means the withdrawal succeeded but the deposit
	// leg could not be applied; the sender has been refunded.
	ErrPaymentAborted = errors.New("payment aborted")
)
