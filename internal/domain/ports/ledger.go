package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger is the external economy system. It owns the single live balance
// per player; this core mirrors exactly one stored bucket into it at a
// time. Withdraw and Deposit are atomic: they either fully apply or
// return an error with the balance unchanged.
type Ledger interface {
	// Balance returns the player's current live balance.
	Balance(ctx context.Context, playerID string) (decimal.Decimal, error)

	// SetBalance overwrites the player's live balance.
	SetBalance(ctx context.Context, playerID string, amount decimal.Decimal) error

	// Withdraw removes amount from the player's live balance. A refusal
	// because the balance does not cover the amount is reported as
	// entities.ErrInsufficientFunds; any other error means the ledger
	// itself failed and the outcome is unknown to the caller.
	Withdraw(ctx context.Context, playerID string, amount decimal.Decimal) error

	// Deposit adds amount to the player's live balance.
	Deposit(ctx context.Context, playerID string, amount decimal.Decimal) error
}
