// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package epochstate

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *EpochState {
	t.Helper()
	es := New(ids.GenerateTestID(), 1, 0, 1, 1, 1, nil)
	require.NoError(t, es.SetOperatorSnapshotTotal(0, 1))
	return es
}

func TestStateMachineHappyPath(t *testing.T) {
	es := newTestState(t)
	schedule := FixedLengthSchedule{SlotsPerEpoch: 1000}

	require.Equal(t, StateSetWeight, es.CurrentState(schedule, 100, 10, 0))

	require.NoError(t, es.RecordWeightSet())
	require.Equal(t, StateSnapshot, es.CurrentState(schedule, 100, 10, 0))

	require.NoError(t, es.RecordOperatorRegistered())
	require.Equal(t, StateSnapshot, es.CurrentState(schedule, 100, 10, 0))

	require.NoError(t, es.RecordDelegationSnapshotted(0))
	require.Equal(t, StateVote, es.CurrentState(schedule, 100, 10, 0))

	es.RecordVoteCast()
	es.RecordConsensusReached(50, 0, false)
	require.Equal(t, StatePostVoteCooldown, es.CurrentState(schedule, 100, 10, 100))
	require.Equal(t, StateDistribute, es.CurrentState(schedule, 100, 10, 200))

	es.SetRewardRouteTotal(1)
	require.NoError(t, es.SetOperatorRewardRouteTotal(0, 1))
	require.Equal(t, StateDistribute, es.CurrentState(schedule, 100, 10, 200))

	require.NoError(t, es.RecordRewardRouteStep())
	require.Equal(t, StateDistribute, es.CurrentState(schedule, 100, 10, 200))

	require.NoError(t, es.RecordOperatorRewardRouteStep(0))
	require.Equal(t, StateClose, es.CurrentState(schedule, 100, 10, 200))
}

func TestProgressIncrementPastTotalFails(t *testing.T) {
	p := &Progress{Total: 1}
	require.NoError(t, p.Increment())
	require.Error(t, p.Increment())
}

func TestIsStallEligible(t *testing.T) {
	es := newTestState(t)
	require.False(t, es.IsStallEligible(5, 10))
	require.True(t, es.IsStallEligible(11, 10))
}

func TestCanCloseEpochAccounts(t *testing.T) {
	es := newTestState(t)
	schedule := FixedLengthSchedule{SlotsPerEpoch: 100}

	require.False(t, es.CanCloseEpochAccounts(schedule, 10, 10000))

	es.RecordConsensusReached(50, 2, false)
	require.False(t, es.CanCloseEpochAccounts(schedule, 10, 100)) // epoch 1, need >= 12
	require.True(t, es.CanCloseEpochAccounts(schedule, 10, 1250)) // epoch 12
}

func TestMarkClosingForcesCloseState(t *testing.T) {
	es := newTestState(t)
	schedule := FixedLengthSchedule{SlotsPerEpoch: 1000}
	require.NotEqual(t, StateClose, es.CurrentState(schedule, 100, 10, 0))
	es.MarkClosing()
	require.Equal(t, StateClose, es.CurrentState(schedule, 100, 10, 0))
}
