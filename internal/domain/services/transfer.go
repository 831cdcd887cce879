package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ersonp/worldpurse/internal/domain/entities"
	"github.com/ersonp/worldpurse/internal/domain/ports"
)

// Payments moves money between players. Both sides' live ledger
// balances mirror their current buckets, so a withdraw/deposit pair on
// the ledger moves money correctly regardless of grouping: a deposit to
// a recipient in a different bucket reaches their stored snapshot on
// their next push.
type Payments struct {
	ledger ports.Ledger
	names  ports.NameIndex
	sync   *Synchronizer
	logger *slog.Logger
}

// NewPayments creates a Payments engine sharing the Synchronizer's
// per-player sessions.
func NewPayments(
	ledger ports.Ledger,
	names ports.NameIndex,
	sync *Synchronizer,
	logger *slog.Logger,
) *Payments {
	return &Payments{
		ledger: ledger,
		names:  names,
		sync:   sync,
		logger: logger,
	}
}

// Pay transfers amount from the sender to the named recipient. The
// amount must be positive; offline recipients are rejected because
// their record cannot be pinned to one bucket. Either both legs apply,
// or only the withdrawal applies and is refunded immediately
// (entities.ErrPaymentAborted). Holding both session locks keeps a
// concurrent push from snapshotting either side mid-transfer.
func (p *Payments) Pay(ctx context.Context, senderID, recipientName string, amount decimal.Decimal) error {
	amount = entities.RoundHalfDown(amount, 2)
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: %s", entities.ErrInvalidAmount, amount)
	}

	recipientID, err := p.names.Resolve(ctx, recipientName)
	if err != nil {
		return fmt.Errorf("resolving recipient: %w", err)
	}
	if recipientID == "" {
		return fmt.Errorf("%w: %s", entities.ErrUnknownPlayer, recipientName)
	}
	if recipientID == senderID {
		return entities.ErrSelfPayment
	}

	senderSess, ok := p.sync.session(senderID)
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrUnknownPlayer, senderID)
	}
	recipientSess, ok := p.sync.session(recipientID)
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrRecipientOffline, recipientName)
	}

	// Both sessions are locked in ID order so two opposite payments
	// running concurrently cannot deadlock.
	unlock := lockPair(senderID, senderSess, recipientID, recipientSess)
	defer unlock()

	if senderSess.record == nil {
		return fmt.Errorf("%w: %s", entities.ErrUnknownPlayer, senderID)
	}
	// A disconnect that completed after the session lookup has already
	// persisted the record; depositing now would be lost.
	if recipientSess.record == nil {
		return fmt.Errorf("%w: %s", entities.ErrRecipientOffline, recipientName)
	}

	if err := p.ledger.Withdraw(ctx, senderID, amount); err != nil {
		if errors.Is(err, entities.ErrInsufficientFunds) {
			return fmt.Errorf("%w: %s", entities.ErrInsufficientFunds, senderID)
		}
		p.logger.Error("ledger withdrawal failed",
			"player", senderID, "amount", amount, "error", err)
		return fmt.Errorf("%w: withdrawal failed: %v", entities.ErrPaymentAborted, err)
	}

	if err := p.ledger.Deposit(ctx, recipientID, amount); err != nil {
		p.refund(ctx, senderID, amount)
		return fmt.Errorf("%w: deposit failed: %v", entities.ErrPaymentAborted, err)
	}
	return nil
}

// refund returns a withdrawn amount to the sender after a failed deposit
// leg. A refund failure leaves the ledger short; it is logged loudly and
// left for the ledger's own reconciliation.
func (p *Payments) refund(ctx context.Context, senderID string, amount decimal.Decimal) {
	if err := p.ledger.Deposit(ctx, senderID, amount); err != nil {
		p.logger.Error("refunding aborted payment failed",
			"player", senderID, "amount", amount, "error", err)
	}
}

// lockPair locks two sessions in ascending ID order and returns the
// matching unlock.
func lockPair(aID string, a *session, bID string, b *session) func() {
	first, second := a, b
	if bID < aID {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
