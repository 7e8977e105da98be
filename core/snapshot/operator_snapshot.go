// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
	"github.com/luxfi/ncn-consensus/core/vaultregistry"
	"github.com/luxfi/ncn-consensus/core/weighttable"
)

// VaultDelegation is one recorded (vault, mint) delegation slot inside an
// operator snapshot.
type VaultDelegation struct {
	VaultID     ids.ID
	MintID      ids.ID
	StakeWeight stakeweight.StakeWeight
	recorded    bool
}

// OperatorSnapshot is the per-operator frozen view for one epoch.
type OperatorSnapshot struct {
	Operator         ids.ID
	NCN              ids.ID
	Epoch            uint64
	IsActive         bool
	NCNOperatorIndex int
	OperatorFeeBps   uint16
	StakeWeight      stakeweight.StakeWeight
	VaultCount       int

	delegations []VaultDelegation
	finalized   bool
	recordedCnt int
}

// InitializeOperatorSnapshot creates an operator snapshot. operatorIndex
// must be within [0, epoch.OperatorCount); an inactive operator is recorded
// immediately as a zero-weight, zero-vault, finalized snapshot and counted
// against the epoch's operator_registrations.
func InitializeOperatorSnapshot(
	epoch *EpochSnapshot,
	operator ids.ID,
	operatorIndex int,
	isActive bool,
	operatorFeeBps uint16,
	vaultCount int,
) (*OperatorSnapshot, error) {
	if operatorIndex < 0 || operatorIndex >= epoch.OperatorCount {
		return nil, coreerrors.ErrOperatorIsNotInSnapshot
	}

	s := &OperatorSnapshot{
		Operator:         operator,
		NCN:              epoch.NCN,
		Epoch:            epoch.Epoch,
		IsActive:         isActive,
		NCNOperatorIndex: operatorIndex,
		OperatorFeeBps:   operatorFeeBps,
	}

	if isActive && vaultCount > 0 {
		s.VaultCount = vaultCount
		s.delegations = make([]VaultDelegation, vaultCount)
	} else {
		// inactive, or active with no delegating vaults: zero-weight and
		// immediately finalized.
		s.finalized = true
	}

	epoch.recordOperatorRegistration()
	if s.finalized {
		epoch.recordOperatorFinalized()
	}
	return s, nil
}

// Finalized reports whether every vault delegation slot has been recorded.
func (s *OperatorSnapshot) Finalized() bool {
	return s.finalized
}

// RecordDelegation records the delegation amount a vault has delegated to
// this operator, looking up the mint's weight from the weight table and
// accumulating delegationAmount*weight into both this operator's stake
// weight and the epoch's total. Each (vault,operator)
// pair may be recorded once per epoch.
func (s *OperatorSnapshot) RecordDelegation(
	epoch *EpochSnapshot,
	table *weighttable.Table,
	vaultIndex int,
	vault ids.ID,
	mint ids.ID,
	delegationAmount uint64,
) error {
	if s.finalized {
		return coreerrors.ErrOperatorSnapshotAlreadyFinalized
	}
	if vaultIndex < 0 || vaultIndex >= len(s.delegations) {
		return coreerrors.Wrap(coreerrors.CodeVaultNotFound, "vault index %d out of range", vaultIndex)
	}
	if s.delegations[vaultIndex].recorded {
		return coreerrors.ErrDelegationAlreadyRecorded
	}

	weight, err := table.WeightOf(mint)
	if err != nil {
		return err
	}

	delta, err := stakeweight.New(delegationAmount).Mul(stakeweight.New(weight))
	if err != nil {
		return err
	}

	newOperatorWeight, err := s.StakeWeight.Increment(delta)
	if err != nil {
		return err
	}
	if err := epoch.addStakeWeight(delta); err != nil {
		return err
	}

	s.StakeWeight = newOperatorWeight
	s.delegations[vaultIndex] = VaultDelegation{
		VaultID:     vault,
		MintID:      mint,
		StakeWeight: delta,
		recorded:    true,
	}
	s.recordedCnt++

	if s.recordedCnt == len(s.delegations) {
		s.finalized = true
		epoch.recordOperatorFinalized()
	}
	return nil
}

// Delegations returns the recorded vault delegation slots.
func (s *OperatorSnapshot) Delegations() []VaultDelegation {
	return s.delegations
}

// ResolveVaultMint exists purely so callers that only have a vault registry
// (not yet a resolved mint) can resolve vault -> mint before calling
// RecordDelegation.
func ResolveVaultMint(reg *vaultregistry.Registry, vault ids.ID) (ids.ID, error) {
	entry, err := reg.GetVaultEntry(vault)
	if err != nil {
		return ids.Empty, err
	}
	return entry.MintID, nil
}
