// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensusresult

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
	"github.com/stretchr/testify/require"
)

func TestRecordConsensusSealsOnFirstWrite(t *testing.T) {
	ncn := ids.GenerateTestID()
	recorder := ids.GenerateTestID()
	cr := New(ncn, 1)
	require.False(t, cr.Sealed())

	cr.RecordConsensus(0, stakeweight.New(100), stakeweight.New(100), 50, recorder)
	require.True(t, cr.Sealed())
	require.Equal(t, uint8(0), cr.WeatherStatus)
	require.Equal(t, uint64(50), cr.ConsensusSlot)
	require.Equal(t, recorder, cr.ConsensusRecorder)
}

func TestRecordConsensusOnlyRefreshesVoteWeight(t *testing.T) {
	ncn := ids.GenerateTestID()
	recorder := ids.GenerateTestID()
	other := ids.GenerateTestID()
	cr := New(ncn, 1)

	cr.RecordConsensus(2, stakeweight.New(70), stakeweight.New(100), 10, recorder)

	// a later call with different immutable fields must not change them
	cr.RecordConsensus(3, stakeweight.New(90), stakeweight.New(999), 20, other)

	require.Equal(t, uint8(2), cr.WeatherStatus)
	require.Equal(t, uint64(10), cr.ConsensusSlot)
	require.Equal(t, recorder, cr.ConsensusRecorder)
	require.Equal(t, uint64(100), cr.TotalVoteWeight.Uint64())
	require.Equal(t, uint64(90), cr.VoteWeight.Uint64())
}
