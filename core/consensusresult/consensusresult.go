// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensusresult implements the sealed, persistent outcome record
// for a resolved epoch. It outlives ballot-box cleanup: the closure rules in
// core/payer deliberately exclude this account type.
package consensusresult

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
)

// ConsensusResult is the one-way, append-only outcome record for an epoch.
type ConsensusResult struct {
	NCN              ids.ID
	Epoch            uint64
	WeatherStatus    uint8
	VoteWeight       stakeweight.StakeWeight
	TotalVoteWeight  stakeweight.StakeWeight
	ConsensusSlot    uint64
	ConsensusRecorder ids.ID

	sealed bool
}

// New returns an empty, unsealed consensus result for (ncn, epoch).
func New(ncn ids.ID, epoch uint64) *ConsensusResult {
	return &ConsensusResult{NCN: ncn, Epoch: epoch}
}

// Sealed reports whether RecordConsensus has been called at least once.
func (c *ConsensusResult) Sealed() bool {
	return c.sealed
}

// RecordConsensus writes the outcome on first call. On every subsequent
// call only VoteWeight is refreshed — late-arriving confirming votes can
// still grow the winning tally's weight after the threshold is crossed, but
// the recorded outcome itself never changes, preserving a monotonic
// consensus result.
func (c *ConsensusResult) RecordConsensus(
	weatherStatus uint8,
	voteWeight stakeweight.StakeWeight,
	totalVoteWeight stakeweight.StakeWeight,
	slot uint64,
	recorder ids.ID,
) {
	if !c.sealed {
		c.WeatherStatus = weatherStatus
		c.TotalVoteWeight = totalVoteWeight
		c.ConsensusSlot = slot
		c.ConsensusRecorder = recorder
		c.sealed = true
	}
	c.VoteWeight = voteWeight
}
