// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package payer implements the process-wide-per-NCN account payer: a single
// PDA that fronts rent for every per-epoch account, grows those accounts in
// bounded increments, and sweeps their lamports back on close. It is the
// only core component that models lamport-denominated account lifecycle
// rather than domain state.
package payer

import (
	"github.com/luxfi/ids"
	luxlog "github.com/luxfi/log"

	"github.com/luxfi/ncn-consensus/core/codec"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/epochstate"
	"github.com/luxfi/ncn-consensus/core/limits"
	nolog "github.com/luxfi/ncn-consensus/log"
)

// AccountState is the payer's bookkeeping view of one account it funded. It
// does not model account contents, only what the payer needs to grow and
// close it correctly.
type AccountState struct {
	Discriminator codec.Discriminator
	Size          int
	Deposited     uint64
	Closed        bool
}

// Payer is the per-NCN rent-funding account. It owns no domain state; it
// tracks every account it has created so pay_and_realloc and close_account
// can validate against the account's own discriminator and current size,
// the same safety check a real on-chain program gets from account headers.
type Payer struct {
	NCN     ids.ID
	Balance uint64

	accounts map[ids.ID]*AccountState
	markers  map[ids.ID]bool // epoch address -> "already existed" sentinel

	log luxlog.Logger
}

// New returns an empty payer for ncn funded with the given initial lamport
// balance.
func New(ncn ids.ID, initialBalance uint64, log luxlog.Logger) *Payer {
	if log == nil {
		log = nolog.NewNoOpLogger()
	}
	return &Payer{
		NCN:      ncn,
		Balance:  initialBalance,
		accounts: make(map[ids.ID]*AccountState),
		markers:  make(map[ids.ID]bool),
		log:      log,
	}
}

// PayAndCreateAccount allocates target with the given discriminator and
// initial space, depositing rentCost lamports from the payer's balance
//. Refuses if the account is already open, or if epochMarker
// is non-empty and has already been written by a prior CloseEpochState call
// — the one-shot guard against re-opening a closed epoch.
func (p *Payer) PayAndCreateAccount(target ids.ID, discriminator codec.Discriminator, space int, rentCost uint64, epochMarker ids.ID) error {
	if existing, ok := p.accounts[target]; ok && !existing.Closed {
		return coreerrors.Wrap(coreerrors.CodeEpochAlreadyExists, "account %s already created and not closed", target)
	}
	if epochMarker != ids.Empty && p.markers[epochMarker] {
		return coreerrors.ErrEpochAlreadyExists
	}
	if rentCost > p.Balance {
		return coreerrors.ErrInsufficientFunds
	}
	p.Balance -= rentCost
	p.accounts[target] = &AccountState{
		Discriminator: discriminator,
		Size:          space,
		Deposited:     rentCost,
	}
	p.log.Debug("created account", "target", target, "discriminator", discriminator, "space", space, "rent", rentCost)
	return nil
}

// PayAndRealloc grows target to newSize, topping up rent for the added
// space. Accounts never shrink; growth beyond limits.MaxReallocBytes in a
// single call is rejected, keeping each realloc within a single
// transaction's size bound.
func (p *Payer) PayAndRealloc(target ids.ID, newSize int, additionalRent uint64) error {
	acct, ok := p.accounts[target]
	if !ok || acct.Closed {
		return coreerrors.ErrVaultNotFound
	}
	if newSize < acct.Size {
		return coreerrors.ErrReallocTooSmall
	}
	grown := newSize - acct.Size
	if grown > limits.MaxReallocBytes {
		return coreerrors.Wrap(coreerrors.CodeReallocTooSmall, "realloc of %d bytes exceeds max %d", grown, limits.MaxReallocBytes)
	}
	if additionalRent > p.Balance {
		return coreerrors.ErrInsufficientFunds
	}
	p.Balance -= additionalRent
	acct.Size = newSize
	acct.Deposited += additionalRent
	p.log.Debug("reallocated account", "target", target, "new_size", newSize, "additional_rent", additionalRent)
	return nil
}

// CloseAccount sweeps target's deposited rent back to the payer, refusing if
// the caller's expected discriminator does not match what the account was
// created with (preventing closing the wrong type.K) or if
// the account was never created or already closed.
func (p *Payer) CloseAccount(target ids.ID, expectedDiscriminator codec.Discriminator) (uint64, error) {
	acct, ok := p.accounts[target]
	if !ok {
		return 0, coreerrors.Wrap(coreerrors.CodeAccountAlreadyClosed, "account %s was never created", target)
	}
	if acct.Closed {
		return 0, coreerrors.ErrAccountAlreadyClosed
	}
	if acct.Discriminator != expectedDiscriminator {
		return 0, coreerrors.ErrDiscriminatorMismatch
	}
	refund := acct.Deposited
	p.Balance += refund
	acct.Closed = true
	acct.Deposited = 0
	p.log.Debug("closed account", "target", target, "refund", refund)
	return refund, nil
}

// AccountOf returns the payer's bookkeeping view of target, if any.
func (p *Payer) AccountOf(target ids.ID) (AccountState, bool) {
	acct, ok := p.accounts[target]
	if !ok {
		return AccountState{}, false
	}
	return *acct, ok
}

// CanCloseEpochAccount applies the per-epoch closure gate: consensus must
// have resolved and the configured cool-off elapsed, and consensus-result
// accounts are excluded from closure entirely.
func CanCloseEpochAccount(
	es *epochstate.EpochState,
	schedule epochstate.EpochSchedule,
	epochsAfterConsensusBeforeClose uint64,
	currentSlot uint64,
	discriminator codec.Discriminator,
) bool {
	if discriminator == codec.DiscriminatorConsensusResult {
		return false
	}
	return es.CanCloseEpochAccounts(schedule, epochsAfterConsensusBeforeClose, currentSlot)
}

// CanCloseEpochState reports whether the epoch-state account itself may be
// closed: every other per-epoch account the payer funded for this epoch must
// already be closed first.
func (p *Payer) CanCloseEpochState(epochAccounts []ids.ID) bool {
	for _, id := range epochAccounts {
		acct, ok := p.accounts[id]
		if !ok {
			continue
		}
		if !acct.Closed {
			return false
		}
	}
	return true
}

// CloseEpochState closes the epoch-state account itself and writes its
// epoch marker, the sentinel that makes the epoch permanently non-reopenable
//. Callers must check CanCloseEpochState first.
func (p *Payer) CloseEpochState(target ids.ID, epochMarker ids.ID) (uint64, error) {
	refund, err := p.CloseAccount(target, codec.DiscriminatorEpochState)
	if err != nil {
		return 0, err
	}
	p.markers[epochMarker] = true
	return refund, nil
}

// EpochMarked reports whether epochMarker has been written by a prior
// CloseEpochState call.
func (p *Payer) EpochMarked(epochMarker ids.ID) bool {
	return p.markers[epochMarker]
}
