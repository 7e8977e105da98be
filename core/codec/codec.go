// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec implements deterministic account addressing and the
// discriminator scheme: every per-epoch entity is addressed by hashing a
// component tag, the NCN id, and (where applicable) the epoch, and every
// persisted record starts with a one-byte discriminator that identifies its
// type for closure-time safety checks.
package codec

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/ids"
)

// Discriminator tags the type of a persisted record. It doubles as the
// closure subsystem's type check: CloseAccount refuses to close an account
// whose stored discriminator does not match the caller's expectation.
type Discriminator byte

const (
	DiscriminatorNone Discriminator = iota
	DiscriminatorConfig
	DiscriminatorVaultRegistry
	DiscriminatorWeightTable
	DiscriminatorEpochSnapshot
	DiscriminatorOperatorSnapshot
	DiscriminatorBallotBox
	DiscriminatorConsensusResult
	DiscriminatorEpochState
	DiscriminatorEpochMarker
	DiscriminatorNCNRewardRouter
	DiscriminatorOperatorVaultRewardRouter
)

// Seed tags are the component-specific prefixes used in address derivation,
// following a "tag followed by NCN id [and epoch]" scheme.
const (
	SeedConfig           = "ncn_config"
	SeedVaultRegistry    = "vault_registry"
	SeedWeightTable      = "weight_table"
	SeedEpochSnapshot    = "epoch_snapshot"
	SeedOperatorSnapshot = "operator_snapshot"
	SeedBallotBox        = "ballot_box"
	SeedConsensusResult  = "consensus_result"
	SeedEpochState       = "epoch_state"
	SeedEpochMarker      = "epoch_marker"
	SeedNCNRewardRouter  = "ncn_reward_router"
	SeedOVRewardRouter   = "operator_vault_reward_router"
	SeedAccountPayer     = "account_payer"
)

// DeriveEpochAddress returns the deterministic address of a per-epoch
// account: hash(seedTag, ncn, epoch_le).
func DeriveEpochAddress(seedTag string, ncn ids.ID, epoch uint64) ids.ID {
	h := sha256.New()
	h.Write([]byte(seedTag))
	h.Write(ncn[:])
	var epochBytes [8]byte
	binary.LittleEndian.PutUint64(epochBytes[:], epoch)
	h.Write(epochBytes[:])
	return idFromSum(h.Sum(nil))
}

// DeriveOperatorEpochAddress returns the deterministic address of a
// per-(operator,epoch) account, used by the operator snapshot and the
// operator-vault reward router.
func DeriveOperatorEpochAddress(seedTag string, ncn, operator ids.ID, epoch uint64) ids.ID {
	h := sha256.New()
	h.Write([]byte(seedTag))
	h.Write(ncn[:])
	h.Write(operator[:])
	var epochBytes [8]byte
	binary.LittleEndian.PutUint64(epochBytes[:], epoch)
	h.Write(epochBytes[:])
	return idFromSum(h.Sum(nil))
}

// DeriveNCNAddress returns the deterministic address of an account that is
// scoped to an NCN but not to any particular epoch (the vault registry, the
// config, the account payer).
func DeriveNCNAddress(seedTag string, ncn ids.ID) ids.ID {
	h := sha256.New()
	h.Write([]byte(seedTag))
	h.Write(ncn[:])
	return idFromSum(h.Sum(nil))
}

func idFromSum(sum []byte) ids.ID {
	var id ids.ID
	copy(id[:], sum)
	return id
}
