// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ovrouter

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/snapshot"
	"github.com/luxfi/ncn-consensus/core/vaultregistry"
	"github.com/luxfi/ncn-consensus/core/weighttable"
	"github.com/stretchr/testify/require"
)

// operatorWithVaultsAndIDs builds a finalized operator snapshot with one
// vault per entry in vaultStakes, at 1:1 mint weight, and returns the
// snapshot alongside the generated vault IDs in delegation order.
func operatorWithVaultsAndIDs(t *testing.T, operatorFeeBps uint16, vaultStakes []uint64) (*snapshot.OperatorSnapshot, []ids.ID) {
	t.Helper()
	ncn := ids.GenerateTestID()
	mint := ids.GenerateTestID()

	reg := vaultregistry.New(ncn)
	require.NoError(t, reg.RegisterSTMint(mint, 1))

	table, err := weighttable.Initialize(ncn, 1, reg)
	require.NoError(t, err)
	require.NoError(t, table.SetWeight(mint, 1, 10))

	epoch := snapshot.InitializeEpochSnapshot(ncn, 1, 1, snapshot.FeeConfig{})
	operator := ids.GenerateTestID()
	op, err := snapshot.InitializeOperatorSnapshot(epoch, operator, 0, true, operatorFeeBps, len(vaultStakes))
	require.NoError(t, err)

	vaults := make([]ids.ID, len(vaultStakes))
	for i, amount := range vaultStakes {
		vaults[i] = ids.GenerateTestID()
		require.NoError(t, op.RecordDelegation(epoch, table, i, vaults[i], mint, amount))
	}
	require.True(t, op.Finalized())
	return op, vaults
}

// operatorWithVaults is operatorWithVaultsAndIDs for callers that only need
// the first vault's ID.
func operatorWithVaults(t *testing.T, operatorFeeBps uint16, vaultStakes []uint64) (*snapshot.OperatorSnapshot, ids.ID) {
	t.Helper()
	op, vaults := operatorWithVaultsAndIDs(t, operatorFeeBps, vaultStakes)
	return op, vaults[0]
}

// TestOperatorFeeAndVaultSplitSeedScenario6 covers the inner router: a
// 1,000,000 operator-vault share arrives, 1% goes to the operator, and the
// remainder splits 3:1 across two vaults staked 3,000 and 1,000.
func TestOperatorFeeAndVaultSplitSeedScenario6(t *testing.T) {
	ncn := ids.GenerateTestID()
	mint := ids.GenerateTestID()
	reg := vaultregistry.New(ncn)
	require.NoError(t, reg.RegisterSTMint(mint, 1))
	table, err := weighttable.Initialize(ncn, 1, reg)
	require.NoError(t, err)
	require.NoError(t, table.SetWeight(mint, 1, 10))

	epoch := snapshot.InitializeEpochSnapshot(ncn, 1, 1, snapshot.FeeConfig{})
	operator := ids.GenerateTestID()
	op, err := snapshot.InitializeOperatorSnapshot(epoch, operator, 0, true, 100, 2) // 1% operator fee
	require.NoError(t, err)

	vaultA, vaultB := ids.GenerateTestID(), ids.GenerateTestID()
	require.NoError(t, op.RecordDelegation(epoch, table, 0, vaultA, mint, 3_000))
	require.NoError(t, op.RecordDelegation(epoch, table, 1, vaultB, mint, 1_000))
	require.True(t, op.Finalized())

	r := New(operator, ncn, 1, nil, nil)
	require.NoError(t, r.RouteIncomingRewards(0, 750_000)) // operator A's share of the outer 1,000,000 pool
	require.NoError(t, r.RouteOperatorRewards(op))
	require.NoError(t, r.RouteRewardPool(op, 10))
	require.False(t, r.StillRouting())

	opAmount, err := r.DistributeOperatorRewards()
	require.NoError(t, err)
	require.Equal(t, uint64(7_500), opAmount)

	amountA, err := r.DistributeVaultRewardRoute(vaultA)
	require.NoError(t, err)
	require.Equal(t, uint64(742_500*3/4), amountA)

	amountB, err := r.DistributeVaultRewardRoute(vaultB)
	require.NoError(t, err)
	require.Equal(t, uint64(742_500*1/4), amountB)
}

func TestRouteRewardPoolResumable(t *testing.T) {
	op, vaults := operatorWithVaultsAndIDs(t, 0, []uint64{10, 20, 30, 40})

	r := New(ids.GenerateTestID(), ids.GenerateTestID(), 1, nil, nil)
	require.NoError(t, r.RouteIncomingRewards(0, 100_000))
	require.NoError(t, r.RouteOperatorRewards(op))
	require.NoError(t, r.RouteRewardPool(op, 2))
	require.True(t, r.StillRouting())

	_, err := r.DistributeOperatorRewards()
	require.Error(t, err)

	require.NoError(t, r.RouteRewardPool(op, 2))
	require.False(t, r.StillRouting())

	var distributed uint64
	for _, v := range vaults {
		amount, err := r.DistributeVaultRewardRoute(v)
		require.NoError(t, err)
		distributed += amount
	}
	require.Equal(t, uint64(100_000), distributed)
}

func TestOperatorVaultConservation(t *testing.T) {
	op, vault := operatorWithVaults(t, 250, []uint64{3_000, 1_000})

	r := New(ids.GenerateTestID(), ids.GenerateTestID(), 1, nil, nil)
	require.NoError(t, r.RouteIncomingRewards(0, 500_000))
	require.NoError(t, r.RouteOperatorRewards(op))
	require.NoError(t, r.RouteRewardPool(op, 10))

	_, err := r.DistributeOperatorRewards()
	require.NoError(t, err)
	_, err = r.DistributeVaultRewardRoute(vault)
	require.NoError(t, err)

	routed, stillPending, total := r.Conservation()
	require.Equal(t, total, routed+stillPending)
}

func TestDistributeVaultRefusesWhileStillRouting(t *testing.T) {
	op, vault := operatorWithVaults(t, 0, []uint64{10, 20})

	r := New(ids.GenerateTestID(), ids.GenerateTestID(), 1, nil, nil)
	require.NoError(t, r.RouteIncomingRewards(0, 10_000))
	require.NoError(t, r.RouteOperatorRewards(op))
	require.NoError(t, r.RouteRewardPool(op, 1))
	require.True(t, r.StillRouting())

	_, err := r.DistributeVaultRewardRoute(vault)
	require.Error(t, err)
}
