// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vaultregistry

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/stretchr/testify/require"
)

func TestRegisterSTMint(t *testing.T) {
	r := New(ids.GenerateTestID())
	mint := ids.GenerateTestID()

	require.NoError(t, r.RegisterSTMint(mint, 100))
	require.True(t, r.HasSTMint(mint))
	require.Equal(t, 1, r.STMintCount())

	err := r.RegisterSTMint(mint, 200)
	require.ErrorIs(t, err, coreerrors.ErrMintAlreadyRegistered)
}

func TestRegisterSTMintZeroWeight(t *testing.T) {
	r := New(ids.GenerateTestID())
	err := r.RegisterSTMint(ids.GenerateTestID(), 0)
	require.ErrorIs(t, err, coreerrors.ErrZeroWeight)
}

func TestRegisterSTMintFull(t *testing.T) {
	r := New(ids.GenerateTestID())
	for i := 0; i < MaxSTMints; i++ {
		require.NoError(t, r.RegisterSTMint(ids.GenerateTestID(), 1))
	}
	err := r.RegisterSTMint(ids.GenerateTestID(), 1)
	require.ErrorIs(t, err, coreerrors.ErrMintRegistryFull)
}

func TestSetSTMint(t *testing.T) {
	r := New(ids.GenerateTestID())
	mint := ids.GenerateTestID()
	require.NoError(t, r.RegisterSTMint(mint, 100))

	newWeight := uint64(250)
	require.NoError(t, r.SetSTMint(mint, &newWeight))

	entry, err := r.GetMintEntry(mint)
	require.NoError(t, err)
	require.Equal(t, uint64(250), entry.Weight)
}

func TestSetSTMintMissing(t *testing.T) {
	r := New(ids.GenerateTestID())
	newWeight := uint64(1)
	err := r.SetSTMint(ids.GenerateTestID(), &newWeight)
	require.ErrorIs(t, err, coreerrors.ErrMintNotFound)
}

func TestSetSTMintZeroWeightRejected(t *testing.T) {
	r := New(ids.GenerateTestID())
	mint := ids.GenerateTestID()
	require.NoError(t, r.RegisterSTMint(mint, 100))

	zero := uint64(0)
	err := r.SetSTMint(mint, &zero)
	require.ErrorIs(t, err, coreerrors.ErrZeroWeight)
}

func TestRegisterVaultIdempotent(t *testing.T) {
	r := New(ids.GenerateTestID())
	vault := ids.GenerateTestID()
	mint := ids.GenerateTestID()

	require.NoError(t, r.RegisterVault(vault, mint, 0, 100))
	entry, err := r.GetVaultEntry(vault)
	require.NoError(t, err)
	require.Equal(t, uint64(100), entry.SlotRegistered)

	// re-registering is a silent no-op and preserves SlotRegistered
	require.NoError(t, r.RegisterVault(vault, mint, 0, 999))
	entry, err = r.GetVaultEntry(vault)
	require.NoError(t, err)
	require.Equal(t, uint64(100), entry.SlotRegistered)
}

func TestRegisterVaultFull(t *testing.T) {
	r := New(ids.GenerateTestID())
	mint := ids.GenerateTestID()
	for i := 0; i < MaxVaults; i++ {
		require.NoError(t, r.RegisterVault(ids.GenerateTestID(), mint, uint64(i), uint64(i)))
	}
	err := r.RegisterVault(ids.GenerateTestID(), mint, MaxVaults, MaxVaults)
	require.ErrorIs(t, err, coreerrors.ErrVaultRegistryFull)
}

func TestVaultCountAndMintsViews(t *testing.T) {
	r := New(ids.GenerateTestID())
	mint1 := ids.GenerateTestID()
	mint2 := ids.GenerateTestID()
	require.NoError(t, r.RegisterSTMint(mint1, 10))
	require.NoError(t, r.RegisterSTMint(mint2, 20))
	require.Len(t, r.Mints(), 2)
	require.Equal(t, 0, r.VaultCount())
}
