// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestDeriveEpochAddressIsDeterministic(t *testing.T) {
	ncn := ids.GenerateTestID()

	a := DeriveEpochAddress(SeedBallotBox, ncn, 7)
	b := DeriveEpochAddress(SeedBallotBox, ncn, 7)
	require.Equal(t, a, b)

	c := DeriveEpochAddress(SeedBallotBox, ncn, 8)
	require.NotEqual(t, a, c)
}

func TestDeriveEpochAddressSeedSeparation(t *testing.T) {
	ncn := ids.GenerateTestID()

	ballot := DeriveEpochAddress(SeedBallotBox, ncn, 1)
	snapshot := DeriveEpochAddress(SeedEpochSnapshot, ncn, 1)
	require.NotEqual(t, ballot, snapshot)
}

func TestDeriveOperatorEpochAddress(t *testing.T) {
	ncn := ids.GenerateTestID()
	opA := ids.GenerateTestID()
	opB := ids.GenerateTestID()

	a := DeriveOperatorEpochAddress(SeedOperatorSnapshot, ncn, opA, 3)
	b := DeriveOperatorEpochAddress(SeedOperatorSnapshot, ncn, opB, 3)
	require.NotEqual(t, a, b)
}

func TestDeriveNCNAddressOmitsEpoch(t *testing.T) {
	ncn := ids.GenerateTestID()
	a := DeriveNCNAddress(SeedVaultRegistry, ncn)
	b := DeriveNCNAddress(SeedVaultRegistry, ncn)
	require.Equal(t, a, b)
}
