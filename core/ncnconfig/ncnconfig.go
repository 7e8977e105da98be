// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ncnconfig implements the per-NCN configuration and admin surface:
// bounded parameters, admin role storage, and the validation that keeps
// every bound enforced at construction and on every admin-driven update.
package ncnconfig

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
)

const (
	MinEpochsBeforeStall = 1
	MaxEpochsBeforeStall = 50

	MinEpochsAfterConsensusBeforeClose = 10
	MaxEpochsAfterConsensusBeforeClose = 100

	MinSlotsAfterConsensus = 1000
	// MaxSlotsAfterConsensusFactor bounds valid_slots_after_consensus at
	// 50 * SLOTS_PER_EPOCH; callers pass the product since SLOTS_PER_EPOCH
	// is a host chain constant this package does not own.
	MaxSlotsAfterConsensusFactor = 50

	// MaxFeeBps is the basis-point cap shared by protocol and NCN fees.
	MaxFeeBps = 10_000
)

// Config is the per-NCN parameter and admin record.
type Config struct {
	NCN ids.ID

	EpochsBeforeStall               uint64
	EpochsAfterConsensusBeforeClose uint64
	ValidSlotsAfterConsensus        uint64
	StartingValidEpoch              uint64

	TieBreakerAdmin ids.ID
	NCNAdmin        ids.ID

	NCNFeeBps      uint16
	ProtocolFeeBps uint16
}

// New validates and returns a Config, or the first bound violation found.
func New(
	ncn ids.ID,
	ncnAdmin, tieBreakerAdmin ids.ID,
	epochsBeforeStall, epochsAfterConsensusBeforeClose, validSlotsAfterConsensus uint64,
	slotsPerEpoch uint64,
	startingValidEpoch uint64,
	ncnFeeBps, protocolFeeBps uint16,
) (*Config, error) {
	c := &Config{
		NCN:                             ncn,
		NCNAdmin:                        ncnAdmin,
		TieBreakerAdmin:                 tieBreakerAdmin,
		EpochsBeforeStall:               epochsBeforeStall,
		EpochsAfterConsensusBeforeClose: epochsAfterConsensusBeforeClose,
		ValidSlotsAfterConsensus:        validSlotsAfterConsensus,
		StartingValidEpoch:              startingValidEpoch,
		NCNFeeBps:                       ncnFeeBps,
		ProtocolFeeBps:                  protocolFeeBps,
	}
	if err := c.Validate(slotsPerEpoch); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate re-checks every bound. slotsPerEpoch is the host chain's
// SLOTS_PER_EPOCH constant, used to bound ValidSlotsAfterConsensus.
func (c *Config) Validate(slotsPerEpoch uint64) error {
	if c.EpochsBeforeStall < MinEpochsBeforeStall || c.EpochsBeforeStall > MaxEpochsBeforeStall {
		return coreerrors.ErrInvalidEpochsBeforeStall
	}
	if c.EpochsAfterConsensusBeforeClose < MinEpochsAfterConsensusBeforeClose ||
		c.EpochsAfterConsensusBeforeClose > MaxEpochsAfterConsensusBeforeClose {
		return coreerrors.ErrInvalidEpochsBeforeClose
	}
	maxSlots := MaxSlotsAfterConsensusFactor * slotsPerEpoch
	if c.ValidSlotsAfterConsensus < MinSlotsAfterConsensus || c.ValidSlotsAfterConsensus > maxSlots {
		return coreerrors.ErrInvalidSlotsAfterConsensus
	}
	if c.NCNFeeBps > MaxFeeBps || c.ProtocolFeeBps > MaxFeeBps {
		return coreerrors.ErrFeeCapExceeded
	}
	if uint32(c.NCNFeeBps)+uint32(c.ProtocolFeeBps) > MaxFeeBps {
		return coreerrors.ErrFeeCapExceeded
	}
	return nil
}

// SetParameters atomically updates the bounded parameters, validating the
// full resulting config before committing any field.
func (c *Config) SetParameters(epochsBeforeStall, epochsAfterConsensusBeforeClose, validSlotsAfterConsensus, slotsPerEpoch uint64) error {
	candidate := *c
	candidate.EpochsBeforeStall = epochsBeforeStall
	candidate.EpochsAfterConsensusBeforeClose = epochsAfterConsensusBeforeClose
	candidate.ValidSlotsAfterConsensus = validSlotsAfterConsensus
	if err := candidate.Validate(slotsPerEpoch); err != nil {
		return err
	}
	*c = candidate
	return nil
}

// SetFees atomically updates the fee split.
func (c *Config) SetFees(ncnFeeBps, protocolFeeBps uint16, slotsPerEpoch uint64) error {
	candidate := *c
	candidate.NCNFeeBps = ncnFeeBps
	candidate.ProtocolFeeBps = protocolFeeBps
	if err := candidate.Validate(slotsPerEpoch); err != nil {
		return err
	}
	*c = candidate
	return nil
}

// SetNewAdmin changes the NCN admin. caller must be the current admin;
// the update is a single atomic field write, never partial.
func (c *Config) SetNewAdmin(caller, newAdmin ids.ID) error {
	if caller != c.NCNAdmin {
		return coreerrors.ErrInvalidAdmin
	}
	c.NCNAdmin = newAdmin
	return nil
}

// SetTieBreakerAdmin changes the tie-breaker admin. caller must be the
// current NCN admin.
func (c *Config) SetTieBreakerAdmin(caller, newTieBreakerAdmin ids.ID) error {
	if caller != c.NCNAdmin {
		return coreerrors.ErrInvalidAdmin
	}
	c.TieBreakerAdmin = newTieBreakerAdmin
	return nil
}

// AdvanceStartingValidEpoch lets the admin move the epoch floor forward,
// never backward.
func (c *Config) AdvanceStartingValidEpoch(caller ids.ID, newStartingValidEpoch uint64) error {
	if caller != c.NCNAdmin {
		return coreerrors.ErrInvalidAdmin
	}
	if newStartingValidEpoch <= c.StartingValidEpoch {
		return coreerrors.Wrap(coreerrors.CodeInvalidEpochsBeforeStall, "starting_valid_epoch may only advance")
	}
	c.StartingValidEpoch = newStartingValidEpoch
	return nil
}

// OperatorVaultFeeBps returns the remainder after the two fixed fee
// channels, the operator-vault pool's implicit share.
func (c *Config) OperatorVaultFeeBps() uint16 {
	return MaxFeeBps - c.NCNFeeBps - c.ProtocolFeeBps
}
