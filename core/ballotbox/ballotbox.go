// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ballotbox implements the voting container: ballots, per-operator
// votes, tallies, 2/3 stake-weighted consensus detection, and the
// tie-breaker fallback.
package ballotbox

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
)

// DefaultMaxValidBallot is the highest legal ballot value for the reference
// weather-status instance (sunny=0, cloudy=1, rain=2, storm=3, fog=4). A
// generic deployment voting on a different bounded enum passes a different
// bound to InitializeWithBound.
const DefaultMaxValidBallot uint8 = 4

// DefaultConsensusReachedSlot is the sentinel slot stored when consensus
// was set by the tie-breaker admin rather than reached naturally.
// Downstream consumers must branch on IsConsensusReached, never on
// comparing this sentinel.
const DefaultConsensusReachedSlot = ^uint64(0)

// Ballot is the candidate-outcome value type.
type Ballot struct {
	WeatherStatus uint8
}

// OperatorVote is one operator's recorded vote.
type OperatorVote struct {
	Operator    ids.ID
	BallotIndex int
	StakeWeight stakeweight.StakeWeight
	SlotVoted   uint64
}

// BallotTally accumulates stake weight and operator count behind one
// ballot value.
type BallotTally struct {
	Ballot               Ballot
	AccumulatedWeight    stakeweight.StakeWeight
	AccumulatedOperators int
}

// BallotBox is the per-epoch, per-NCN voting container.
type BallotBox struct {
	NCN            ids.ID
	Epoch          uint64
	Bump           uint8
	Slot           uint64
	MaxValidBallot uint8

	votes   []OperatorVote
	tallies []BallotTally // indexed by ballot position of first appearance

	uniqueBallots int

	isConsensusReached   bool
	consensusNatural     bool
	winningBallotIndex   int
	slotConsensusReached uint64
	tieBreakerSet        bool
}

// Initialize returns an empty ballot box for (ncn, epoch), accepting votes
// up to DefaultMaxValidBallot.
func Initialize(ncn ids.ID, epoch uint64, bump uint8, slot uint64) *BallotBox {
	return &BallotBox{NCN: ncn, Epoch: epoch, Bump: bump, Slot: slot, MaxValidBallot: DefaultMaxValidBallot}
}

// InitializeWithBound is Initialize for a deployment voting on a bounded
// enum other than the reference weather-status domain.
func InitializeWithBound(ncn ids.ID, epoch uint64, bump uint8, slot uint64, maxValidBallot uint8) *BallotBox {
	return &BallotBox{NCN: ncn, Epoch: epoch, Bump: bump, Slot: slot, MaxValidBallot: maxValidBallot}
}

// OperatorsVoted returns how many distinct operators have voted.
func (b *BallotBox) OperatorsVoted() int {
	return len(b.votes)
}

// UniqueBallots returns how many distinct ballot values have been cast.
func (b *BallotBox) UniqueBallots() int {
	return b.uniqueBallots
}

// IsConsensusReached reports whether a winning ballot has been determined,
// either naturally (2/3 supermajority) or via tie-breaker.
func (b *BallotBox) IsConsensusReached() bool {
	return b.isConsensusReached
}

// ConsensusReachedNaturally distinguishes natural 2/3 consensus from a
// tie-breaker resolution.
func (b *BallotBox) ConsensusReachedNaturally() bool {
	return b.isConsensusReached && b.consensusNatural
}

// WinningBallotIndex returns the index into Tallies() of the winning ballot
// (the same index OperatorVote.BallotIndex uses), valid only once
// IsConsensusReached is true.
func (b *BallotBox) WinningBallotIndex() int {
	return b.winningBallotIndex
}

// SlotConsensusReached returns the slot consensus was reached at, or
// DefaultConsensusReachedSlot if set via tie-breaker.
func (b *BallotBox) SlotConsensusReached() uint64 {
	return b.slotConsensusReached
}

// Votes returns the recorded operator votes in cast order.
func (b *BallotBox) Votes() []OperatorVote {
	return b.votes
}

// Tallies returns the recorded ballot tallies.
func (b *BallotBox) Tallies() []BallotTally {
	return b.tallies
}

func (b *BallotBox) hasVoted(operator ids.ID) bool {
	for _, v := range b.votes {
		if v.Operator == operator {
			return true
		}
	}
	return false
}

func (b *BallotBox) findTallyIndex(ballot Ballot) int {
	for i, t := range b.tallies {
		if t.Ballot == ballot {
			return i
		}
	}
	return -1
}

// CastVote records operator's vote for ballot with the given stake weight,
// rejecting duplicate votes, out-of-range ballots, zero stake, and votes
// cast outside the voting window, and returns the index of the tally the
// vote landed in.
func (b *BallotBox) CastVote(
	operator ids.ID,
	ballot Ballot,
	operatorStakeWeight stakeweight.StakeWeight,
	slot uint64,
	validSlotsAfterConsensus uint64,
) (int, error) {
	if ballot.WeatherStatus > b.MaxValidBallot {
		return 0, coreerrors.ErrBadBallot
	}
	if b.hasVoted(operator) {
		return 0, coreerrors.ErrOperatorAlreadyVoted
	}
	if operatorStakeWeight.IsZero() {
		return 0, coreerrors.ErrCannotVoteWithZeroStake
	}
	if !b.IsVotingValid(slot, validSlotsAfterConsensus) {
		return 0, coreerrors.ErrVotingNotValid
	}

	b.votes = append(b.votes, OperatorVote{
		Operator:    operator,
		StakeWeight: operatorStakeWeight,
		SlotVoted:   slot,
	})
	voteIdx := len(b.votes) - 1

	tallyIdx := b.findTallyIndex(ballot)
	if tallyIdx == -1 {
		b.tallies = append(b.tallies, BallotTally{Ballot: ballot})
		tallyIdx = len(b.tallies) - 1
		b.uniqueBallots++
	}

	newWeight, err := b.tallies[tallyIdx].AccumulatedWeight.Increment(operatorStakeWeight)
	if err != nil {
		return 0, err
	}
	b.tallies[tallyIdx].AccumulatedWeight = newWeight
	b.tallies[tallyIdx].AccumulatedOperators++
	b.votes[voteIdx].BallotIndex = tallyIdx

	return tallyIdx, nil
}

// TallyVotes checks the 2/3 stake-weighted supermajority condition across
// all tallies and, if met, marks consensus reached. It is meant to be
// called immediately after every CastVote.
func (b *BallotBox) TallyVotes(totalStakeWeight stakeweight.StakeWeight, slot uint64) error {
	if b.isConsensusReached {
		return nil
	}
	for i, t := range b.tallies {
		reached, err := meetsSupermajority(t.AccumulatedWeight, totalStakeWeight)
		if err != nil {
			return err
		}
		if reached {
			b.isConsensusReached = true
			b.consensusNatural = true
			b.winningBallotIndex = i
			b.slotConsensusReached = slot
			return nil
		}
	}
	return nil
}

// meetsSupermajority reports whether weight*3 >= total*2, computed with
// big-int multiplication to avoid overflow.
func meetsSupermajority(weight, total stakeweight.StakeWeight) (bool, error) {
	lhs, err := weight.Mul(stakeweight.New(3))
	if err != nil {
		return false, err
	}
	rhs, err := total.Mul(stakeweight.New(2))
	if err != nil {
		return false, err
	}
	return lhs.Cmp(rhs) >= 0, nil
}

// SetTieBreakerBallot resolves a stalled vote by administrative fiat. It is
// legal only if consensus has not yet been reached, the epoch has stalled
// (currentEpoch >= ballotBoxEpoch + epochsBeforeStall), and weatherStatus
// matches one of the ballots already cast.
func (b *BallotBox) SetTieBreakerBallot(weatherStatus uint8, currentEpoch uint64, epochsBeforeStall uint64) error {
	if b.isConsensusReached {
		return coreerrors.ErrConsensusAlreadyReached
	}
	if currentEpoch < b.Epoch+epochsBeforeStall {
		return coreerrors.ErrTieBreakerNotEligible
	}

	ballot := Ballot{WeatherStatus: weatherStatus}
	idx := b.findTallyIndex(ballot)
	if idx == -1 {
		return coreerrors.ErrTieBreakerNotInPriorVotes
	}

	b.isConsensusReached = true
	b.consensusNatural = false
	b.tieBreakerSet = true
	b.winningBallotIndex = idx
	// The sentinel stays at its default value when resolved by tie-breaker
	// rather than by natural quorum.
	b.slotConsensusReached = DefaultConsensusReachedSlot
	return nil
}

// TieBreakerSet reports whether consensus was resolved by the admin
// tie-breaker rather than natural quorum.
func (b *BallotBox) TieBreakerSet() bool {
	return b.tieBreakerSet
}

// IsVotingValid reports whether votes may still be cast: either consensus
// has not yet been reached, or it has but the post-consensus observation
// window has not yet closed.
func (b *BallotBox) IsVotingValid(currentSlot, validSlotsAfterConsensus uint64) bool {
	if !b.isConsensusReached {
		return true
	}
	if !b.consensusNatural {
		// tie-breaker sealed the box; no further votes are accepted.
		return false
	}
	return currentSlot-b.slotConsensusReached <= validSlotsAfterConsensus
}

// WinningBallot returns the ballot that won consensus.
func (b *BallotBox) WinningBallot() (Ballot, error) {
	if !b.isConsensusReached {
		return Ballot{}, coreerrors.ErrConsensusNotReached
	}
	return b.tallies[b.winningBallotIndex].Ballot, nil
}

// WinningTallyWeight returns the accumulated stake weight behind the
// winning ballot, used by the NCN reward router to compute per-operator
// shares.
func (b *BallotBox) WinningTallyWeight() (stakeweight.StakeWeight, error) {
	if !b.isConsensusReached {
		return stakeweight.StakeWeight{}, coreerrors.ErrConsensusNotReached
	}
	return b.tallies[b.winningBallotIndex].AccumulatedWeight, nil
}

// VoteForOperator returns the vote cast by operator, if any.
func (b *BallotBox) VoteForOperator(operator ids.ID) (OperatorVote, bool) {
	for _, v := range b.votes {
		if v.Operator == operator {
			return v, true
		}
	}
	return OperatorVote{}, false
}
