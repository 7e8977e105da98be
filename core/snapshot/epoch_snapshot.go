// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package snapshot implements the per-epoch frozen view of the delegation
// graph: the epoch snapshot (aggregate totals) and the operator snapshot
// (per-operator stake weight and per-vault delegation slots), plus the
// "snapshot vault-operator delegation" step that populates both.
package snapshot

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
)

// FeeConfig captures the epoch's routing split, copied from ncnconfig at
// snapshot time so that later fee changes never affect an in-flight epoch.
type FeeConfig struct {
	ProtocolFeeBps      uint16
	NCNFeeBps           uint16
	OperatorVaultFeeBps uint16 // derived: remainder after the two above
}

// EpochSnapshot is the aggregate, per-epoch, per-NCN frozen view.
type EpochSnapshot struct {
	NCN              ids.ID
	Epoch            uint64
	OperatorCount    int
	Fees             FeeConfig
	TotalStakeWeight stakeweight.StakeWeight

	operatorRegistrations int
	operatorFinalized     int
	finalized             bool
}

// InitializeEpochSnapshot creates the epoch snapshot, capturing the
// operator count that was active in the registry at this slot.
func InitializeEpochSnapshot(ncn ids.ID, epoch uint64, operatorCount int, fees FeeConfig) *EpochSnapshot {
	return &EpochSnapshot{
		NCN:           ncn,
		Epoch:         epoch,
		OperatorCount: operatorCount,
		Fees:          fees,
	}
}

// Finalized reports whether every operator snapshot for this epoch has been
// finalized.
func (s *EpochSnapshot) Finalized() bool {
	return s.finalized
}

// OperatorRegistrations returns how many operator snapshots have been
// initialized (active or not) so far.
func (s *EpochSnapshot) OperatorRegistrations() int {
	return s.operatorRegistrations
}

// recordOperatorRegistration is called once per operator snapshot
// initialization, regardless of whether the operator turned out active.
func (s *EpochSnapshot) recordOperatorRegistration() {
	s.operatorRegistrations++
}

// recordOperatorFinalized is called once an individual operator snapshot
// becomes finalized — immediately for an inactive operator, or once its
// last delegation is recorded for an active one. The epoch snapshot itself
// finalizes once every operator snapshot has.
func (s *EpochSnapshot) recordOperatorFinalized() {
	s.operatorFinalized++
	if s.operatorFinalized == s.OperatorCount {
		s.finalized = true
	}
}

// addStakeWeight accumulates delta into the epoch total. Called from
// RecordDelegation once per (vault,operator) pair.
func (s *EpochSnapshot) addStakeWeight(delta stakeweight.StakeWeight) error {
	sum, err := s.TotalStakeWeight.Increment(delta)
	if err != nil {
		return err
	}
	s.TotalStakeWeight = sum
	return nil
}

// VerifyWeightSum checks that the epoch's total stake weight equals the sum
// of its operator snapshots' stake weights. Intended for tests and for
// keeper-side sanity checks, not for on every-call enforcement.
func VerifyWeightSum(epoch *EpochSnapshot, operators []*OperatorSnapshot) error {
	sum := stakeweight.New(0)
	for _, op := range operators {
		var err error
		sum, err = sum.Increment(op.StakeWeight)
		if err != nil {
			return err
		}
	}
	if sum.Cmp(epoch.TotalStakeWeight) != 0 {
		return coreerrors.Wrap(coreerrors.CodeArithmeticOverflow, "epoch total %d != sum of operator weights %d", epoch.TotalStakeWeight.Uint64(), sum.Uint64())
	}
	return nil
}
