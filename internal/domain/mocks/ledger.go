package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ersonp/worldpurse/internal/domain/entities"
)

// Ledger is an in-memory mock of ports.Ledger. New accounts start at
// DefaultBalance, mimicking an economy plugin's starting balance.
type Ledger struct {
	mu             sync.Mutex
	balances       map[string]decimal.Decimal
	DefaultBalance decimal.Decimal

	BalanceErr  error
	SetErr      error
	WithdrawErr error
	DepositErr  error

	// DepositErrFor fails deposits for specific players only.
	DepositErrFor map[string]error
}

// NewLedger creates a mock ledger with a zero default balance.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]decimal.Decimal)}
}

// Balance returns the player's live balance, creating the account at the
// default balance on first touch.
func (m *Ledger) Balance(_ context.Context, playerID string) (decimal.Decimal, error) {
	if m.BalanceErr != nil {
		return decimal.Zero, m.BalanceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account(playerID), nil
}

// SetBalance overwrites the player's live balance.
func (m *Ledger) SetBalance(_ context.Context, playerID string, amount decimal.Decimal) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] = amount
	return nil
}

// Withdraw removes amount from the live balance, refusing overdrafts.
func (m *Ledger) Withdraw(_ context.Context, playerID string, amount decimal.Decimal) error {
	if m.WithdrawErr != nil {
		return m.WithdrawErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.account(playerID)
	if current.LessThan(amount) {
		return fmt.Errorf("%w: %s short of %s", entities.ErrInsufficientFunds, current, amount)
	}
	m.balances[playerID] = current.Sub(amount)
	return nil
}

// Deposit adds amount to the live balance.
func (m *Ledger) Deposit(_ context.Context, playerID string, amount decimal.Decimal) error {
	if m.DepositErr != nil {
		return m.DepositErr
	}
	if err := m.DepositErrFor[playerID]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[playerID] = m.account(playerID).Add(amount)
	return nil
}

func (m *Ledger) account(playerID string) decimal.Decimal {
	if b, ok := m.balances[playerID]; ok {
		return b
	}
	m.balances[playerID] = m.DefaultBalance
	return m.DefaultBalance
}
