// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package epochstate implements the central progress ledger for one epoch:
// a tagged state machine over six variants, gating every other core
// component's transitions and tracking the per-component progress
// sub-counters that decide when to advance.
package epochstate

import (
	"github.com/luxfi/ids"
	luxlog "github.com/luxfi/log"

	"github.com/luxfi/ncn-consensus/core/coreerrors"
	nolog "github.com/luxfi/ncn-consensus/log"
)

// State is the tagged variant the epoch is currently in. It is not stored on
// EpochState; CurrentState computes it from the progress counters, without
// virtual dispatch.
type State int

const (
	StateSetWeight State = iota
	StateSnapshot
	StateVote
	StatePostVoteCooldown
	StateDistribute
	StateClose
)

func (s State) String() string {
	switch s {
	case StateSetWeight:
		return "SetWeight"
	case StateSnapshot:
		return "Snapshot"
	case StateVote:
		return "Vote"
	case StatePostVoteCooldown:
		return "PostVoteCooldown"
	case StateDistribute:
		return "Distribute"
	case StateClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// Progress is a simple tally/total sub-counter. Complete reports whether
// every expected unit of work has landed.
type Progress struct {
	Tally uint64
	Total uint64
}

// Complete reports whether Tally has reached Total. A zero-Total progress
// (nothing to do) is vacuously complete.
func (p Progress) Complete() bool {
	return p.Tally >= p.Total
}

// Increment advances the tally by one, failing if already complete.
func (p *Progress) Increment() error {
	if p.Complete() {
		return coreerrors.Wrap(coreerrors.CodeArithmeticOverflow, "progress already complete (%d/%d)", p.Tally, p.Total)
	}
	p.Tally++
	return nil
}

// VotingProgress extends Progress with the consensus bookkeeping the vote
// stage needs to decide when to leave the Vote state.
type VotingProgress struct {
	Progress
	ConsensusReached bool
	ConsensusSlot    uint64
	ConsensusEpoch   uint64
	TieBreakerSet    bool
}

// EpochSchedule resolves slots to epochs for the host chain in use. A real
// deployment backs this with the host's actual epoch schedule; tests use a
// fixed-length implementation.
type EpochSchedule interface {
	EpochOf(slot uint64) uint64
}

// FixedLengthSchedule is an EpochSchedule where every epoch has the same
// number of slots.
type FixedLengthSchedule struct {
	SlotsPerEpoch uint64
}

func (s FixedLengthSchedule) EpochOf(slot uint64) uint64 {
	if s.SlotsPerEpoch == 0 {
		return 0
	}
	return slot / s.SlotsPerEpoch
}

// EpochState is the central per-(ncn,epoch) progress ledger.
type EpochState struct {
	NCN           ids.ID
	Epoch         uint64
	Bump          uint8
	OperatorCount int
	VaultCount    int

	SetWeightProgress           Progress
	EpochSnapshotProgress       Progress
	OperatorSnapshotProgress    []Progress // indexed by ncn_operator_index
	VotingProgress              VotingProgress
	RewardRouteProgress         Progress
	OperatorRewardRouteProgress []Progress // indexed by ncn_operator_index

	closing bool

	log luxlog.Logger
}

// New creates a fresh epoch state. mintCount seeds SetWeightProgress.Total
// (one unit of work per mint that must receive a weight); operatorCount
// seeds both the epoch snapshot's completion requirement and the
// per-operator progress slices. A nil logger defaults to a no-op logger.
func New(ncn ids.ID, epoch uint64, bump uint8, mintCount, operatorCount, vaultCount int, log luxlog.Logger) *EpochState {
	if log == nil {
		log = nolog.NewNoOpLogger()
	}
	es := &EpochState{
		NCN:           ncn,
		Epoch:         epoch,
		Bump:          bump,
		OperatorCount: operatorCount,
		VaultCount:    vaultCount,
		log:           log,
	}
	es.SetWeightProgress = Progress{Total: uint64(mintCount)}
	es.EpochSnapshotProgress = Progress{Total: uint64(operatorCount)}
	es.OperatorSnapshotProgress = make([]Progress, operatorCount)
	es.OperatorRewardRouteProgress = make([]Progress, operatorCount)
	return es
}

// SetOperatorSnapshotTotal records how many vault-delegation slots operator
// at ncnOperatorIndex must fill before its snapshot progress is complete.
func (es *EpochState) SetOperatorSnapshotTotal(ncnOperatorIndex int, vaultSlots int) error {
	if ncnOperatorIndex < 0 || ncnOperatorIndex >= len(es.OperatorSnapshotProgress) {
		return coreerrors.ErrOperatorIsNotInSnapshot
	}
	es.OperatorSnapshotProgress[ncnOperatorIndex].Total = uint64(vaultSlots)
	return nil
}

// RecordWeightSet advances the weight-setting progress by one mint.
func (es *EpochState) RecordWeightSet() error {
	if err := es.SetWeightProgress.Increment(); err != nil {
		return err
	}
	es.log.Debug("weight set recorded", "ncn", es.NCN, "epoch", es.Epoch, "tally", es.SetWeightProgress.Tally, "total", es.SetWeightProgress.Total)
	return nil
}

// RecordOperatorRegistered advances the epoch snapshot's operator
// registration counter by one.
func (es *EpochState) RecordOperatorRegistered() error {
	if err := es.EpochSnapshotProgress.Increment(); err != nil {
		return err
	}
	es.log.Debug("operator registered", "ncn", es.NCN, "epoch", es.Epoch, "tally", es.EpochSnapshotProgress.Tally, "total", es.EpochSnapshotProgress.Total)
	return nil
}

// RecordDelegationSnapshotted advances the named operator's snapshot
// progress by one vault-delegation slot.
func (es *EpochState) RecordDelegationSnapshotted(ncnOperatorIndex int) error {
	if ncnOperatorIndex < 0 || ncnOperatorIndex >= len(es.OperatorSnapshotProgress) {
		return coreerrors.ErrOperatorIsNotInSnapshot
	}
	if err := es.OperatorSnapshotProgress[ncnOperatorIndex].Increment(); err != nil {
		return err
	}
	es.log.Debug("delegation snapshotted", "ncn", es.NCN, "epoch", es.Epoch, "operator_index", ncnOperatorIndex)
	return nil
}

func (es *EpochState) allOperatorSnapshotsComplete() bool {
	for _, p := range es.OperatorSnapshotProgress {
		if !p.Complete() {
			return false
		}
	}
	return true
}

// RecordVoteCast advances the voting progress by one operator vote.
func (es *EpochState) RecordVoteCast() {
	es.VotingProgress.Tally++
	es.log.Debug("vote cast", "ncn", es.NCN, "epoch", es.Epoch, "tally", es.VotingProgress.Tally)
}

// RecordConsensusReached marks the vote stage resolved, either naturally or
// via tie-breaker.
func (es *EpochState) RecordConsensusReached(slot, epoch uint64, tieBreaker bool) {
	es.VotingProgress.ConsensusReached = true
	es.VotingProgress.ConsensusSlot = slot
	es.VotingProgress.ConsensusEpoch = epoch
	es.VotingProgress.TieBreakerSet = tieBreaker
	es.log.Debug("consensus reached", "ncn", es.NCN, "epoch", es.Epoch, "slot", slot, "tie_breaker", tieBreaker)
}

// SetRewardRouteTotal seeds how many reward-route sub-steps (protocol, ncn,
// operator-vault pool distribution) must complete in Distribute.
func (es *EpochState) SetRewardRouteTotal(total uint64) {
	es.RewardRouteProgress.Total = total
}

// RecordRewardRouteStep advances the top-level reward-route progress.
func (es *EpochState) RecordRewardRouteStep() error {
	if err := es.RewardRouteProgress.Increment(); err != nil {
		return err
	}
	es.log.Debug("reward route step recorded", "ncn", es.NCN, "epoch", es.Epoch, "tally", es.RewardRouteProgress.Tally, "total", es.RewardRouteProgress.Total)
	return nil
}

// SetOperatorRewardRouteTotal seeds how many distribution steps a given
// operator's inner router must complete.
func (es *EpochState) SetOperatorRewardRouteTotal(ncnOperatorIndex int, total uint64) error {
	if ncnOperatorIndex < 0 || ncnOperatorIndex >= len(es.OperatorRewardRouteProgress) {
		return coreerrors.ErrOperatorIsNotInSnapshot
	}
	es.OperatorRewardRouteProgress[ncnOperatorIndex].Total = total
	return nil
}

// RecordOperatorRewardRouteStep advances one operator's inner distribution
// progress.
func (es *EpochState) RecordOperatorRewardRouteStep(ncnOperatorIndex int) error {
	if ncnOperatorIndex < 0 || ncnOperatorIndex >= len(es.OperatorRewardRouteProgress) {
		return coreerrors.ErrOperatorIsNotInSnapshot
	}
	if err := es.OperatorRewardRouteProgress[ncnOperatorIndex].Increment(); err != nil {
		return err
	}
	es.log.Debug("operator reward route step recorded", "ncn", es.NCN, "epoch", es.Epoch, "operator_index", ncnOperatorIndex)
	return nil
}

func (es *EpochState) allOperatorRewardRoutesComplete() bool {
	for _, p := range es.OperatorRewardRouteProgress {
		if !p.Complete() {
			return false
		}
	}
	return true
}

// CurrentState computes the tagged state purely from the progress counters
// and the slot/epoch clock. Pure function of the ledger's current fields
// plus the caller-supplied clock parameters.
func (es *EpochState) CurrentState(
	schedule EpochSchedule,
	validSlotsAfterConsensus uint64,
	epochsAfterConsensusBeforeClose uint64,
	currentSlot uint64,
) State {
	if es.closing {
		return StateClose
	}
	if !es.SetWeightProgress.Complete() {
		return StateSetWeight
	}
	if !es.EpochSnapshotProgress.Complete() || !es.allOperatorSnapshotsComplete() {
		return StateSnapshot
	}
	if !es.VotingProgress.ConsensusReached {
		return StateVote
	}
	if es.VotingProgress.ConsensusReached && !es.postVoteCooldownElapsed(currentSlot, validSlotsAfterConsensus) {
		return StatePostVoteCooldown
	}
	// An unseeded reward-route total means distribution has not started yet,
	// so it keeps the epoch in Distribute rather than counting as complete.
	if es.RewardRouteProgress.Total == 0 || !es.RewardRouteProgress.Complete() || !es.allOperatorRewardRoutesComplete() {
		return StateDistribute
	}
	return StateClose
}

func (es *EpochState) postVoteCooldownElapsed(currentSlot, validSlotsAfterConsensus uint64) bool {
	if currentSlot < es.VotingProgress.ConsensusSlot {
		return false
	}
	return currentSlot-es.VotingProgress.ConsensusSlot > validSlotsAfterConsensus
}

// IsStallEligible reports whether this epoch may be tie-broken: the epoch
// has not reached consensus and currentEpoch has advanced at least
// epochsBeforeStall past the epoch being voted on.
func (es *EpochState) IsStallEligible(currentEpoch, epochsBeforeStall uint64) bool {
	if es.VotingProgress.ConsensusReached {
		return false
	}
	return currentEpoch >= es.Epoch+epochsBeforeStall
}

// CanCloseEpochAccounts reports whether the closure gate is satisfied:
// consensus reached (naturally or by tie-breaker) and the configured
// cool-off has elapsed, measured in epochs.
func (es *EpochState) CanCloseEpochAccounts(
	schedule EpochSchedule,
	epochsAfterConsensusBeforeClose uint64,
	currentSlot uint64,
) bool {
	if !es.VotingProgress.ConsensusReached {
		return false
	}
	currentEpoch := schedule.EpochOf(currentSlot)
	return currentEpoch >= es.VotingProgress.ConsensusEpoch+epochsAfterConsensusBeforeClose
}

// MarkClosing flips the closing bit, the final step before the epoch-state
// account itself may be closed.
func (es *EpochState) MarkClosing() {
	es.closing = true
	es.log.Debug("epoch state marked closing", "ncn", es.NCN, "epoch", es.Epoch)
}

// Closing reports whether MarkClosing has been called.
func (es *EpochState) Closing() bool {
	return es.closing
}
