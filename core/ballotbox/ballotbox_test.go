// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballotbox

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
	"github.com/stretchr/testify/require"
)

// TestSunnyConsensus covers seed scenario 1: a single operator voting alone
// crosses 2/3 by definition.
func TestSunnyConsensus(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	operator := ids.GenerateTestID()

	_, err := box.CastVote(operator, Ballot{WeatherStatus: 0}, stakeweight.New(100), 50, 1000)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(stakeweight.New(100), 50))

	require.True(t, box.IsConsensusReached())
	require.True(t, box.ConsensusReachedNaturally())
	winner, err := box.WinningBallot()
	require.NoError(t, err)
	require.Equal(t, uint8(0), winner.WeatherStatus)
	weight, err := box.WinningTallyWeight()
	require.NoError(t, err)
	require.Equal(t, uint64(100), weight.Uint64())
	require.Equal(t, uint64(50), box.SlotConsensusReached())
}

// TestDoubleVoteRejected covers seed scenario 2.
func TestDoubleVoteRejected(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	operator := ids.GenerateTestID()

	_, err := box.CastVote(operator, Ballot{WeatherStatus: 0}, stakeweight.New(10), 1, 1000)
	require.NoError(t, err)

	_, err = box.CastVote(operator, Ballot{WeatherStatus: 1}, stakeweight.New(10), 2, 1000)
	require.ErrorIs(t, err, coreerrors.ErrOperatorAlreadyVoted)

	require.Equal(t, 1, box.OperatorsVoted())
	require.Equal(t, 1, box.UniqueBallots())
	_, ok := box.VoteForOperator(operator)
	require.True(t, ok)
}

// TestBadBallot covers seed scenario 3.
func TestBadBallot(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 5}, stakeweight.New(10), 1, 1000)
	require.ErrorIs(t, err, coreerrors.ErrBadBallot)
}

// TestTieBreaker covers seed scenario 4.
func TestTieBreaker(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	opA := ids.GenerateTestID()
	opB := ids.GenerateTestID()

	_, err := box.CastVote(opA, Ballot{WeatherStatus: 0}, stakeweight.New(50), 1, 1000)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(stakeweight.New(100), 1))

	_, err = box.CastVote(opB, Ballot{WeatherStatus: 1}, stakeweight.New(50), 2, 1000)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(stakeweight.New(100), 2))

	require.False(t, box.IsConsensusReached())

	err = box.SetTieBreakerBallot(0, 1+10, 10)
	require.NoError(t, err)

	require.True(t, box.IsConsensusReached())
	require.False(t, box.ConsensusReachedNaturally())
	require.True(t, box.TieBreakerSet())
	winner, err := box.WinningBallot()
	require.NoError(t, err)
	require.Equal(t, uint8(0), winner.WeatherStatus)
	require.Equal(t, DefaultConsensusReachedSlot, box.SlotConsensusReached())
}

func TestTieBreakerRejectsUnknownBallot(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 0}, stakeweight.New(50), 1, 1000)
	require.NoError(t, err)

	err = box.SetTieBreakerBallot(9, 20, 10)
	require.ErrorIs(t, err, coreerrors.ErrTieBreakerNotInPriorVotes)
}

func TestTieBreakerRejectsBeforeStall(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 0}, stakeweight.New(50), 1, 1000)
	require.NoError(t, err)

	err = box.SetTieBreakerBallot(0, 5, 10)
	require.ErrorIs(t, err, coreerrors.ErrTieBreakerNotEligible)
}

// TestStakeWeightedResolution covers seed scenario 5: weights 10/20/70,
// votes 1,1,0. Tally(0)=70, Tally(1)=30; 3*70=210 >= 2*100=200: consensus,
// winner 0.
func TestStakeWeightedResolution(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	total := stakeweight.New(100)

	_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 1}, stakeweight.New(10), 1, 1000)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(total, 1))
	require.False(t, box.IsConsensusReached())

	_, err = box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 1}, stakeweight.New(20), 2, 1000)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(total, 2))
	require.False(t, box.IsConsensusReached())

	_, err = box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 0}, stakeweight.New(70), 3, 1000)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(total, 3))

	require.True(t, box.IsConsensusReached())
	winner, err := box.WinningBallot()
	require.NoError(t, err)
	require.Equal(t, uint8(0), winner.WeatherStatus)
}

func TestCastVoteZeroStakeRejected(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 0}, stakeweight.New(0), 1, 1000)
	require.ErrorIs(t, err, coreerrors.ErrCannotVoteWithZeroStake)
}

func TestIsVotingValidWindow(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: 0}, stakeweight.New(100), 10, 5)
	require.NoError(t, err)
	require.NoError(t, box.TallyVotes(stakeweight.New(100), 10))
	require.True(t, box.IsConsensusReached())

	require.True(t, box.IsVotingValid(15, 5))
	require.False(t, box.IsVotingValid(16, 5))
}

func TestBallotBoxTotalsInvariant(t *testing.T) {
	box := Initialize(ids.GenerateTestID(), 1, 0, 0)
	weights := []uint64{10, 20, 70}
	for i, w := range weights {
		_, err := box.CastVote(ids.GenerateTestID(), Ballot{WeatherStatus: uint8(i % 2)}, stakeweight.New(w), uint64(i+1), 1000)
		require.NoError(t, err)
	}

	var tallySum uint64
	var tallyOps int
	for _, tl := range box.Tallies() {
		tallySum += tl.AccumulatedWeight.Uint64()
		tallyOps += tl.AccumulatedOperators
	}
	var voteSum uint64
	for _, v := range box.Votes() {
		voteSum += v.StakeWeight.Uint64()
	}
	require.Equal(t, voteSum, tallySum)
	require.Equal(t, box.OperatorsVoted(), tallyOps)
}
