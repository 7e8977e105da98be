// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vaultregistry implements the process-wide-per-NCN catalogue of
// supported stake mints and registered vaults. It is the only core
// component mutated outside of the epoch lifecycle: registration is an
// admin action and the registry is read-only during an epoch.
package vaultregistry

import (
	"math"

	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
)

const (
	// MaxSTMints bounds the mint catalogue.
	MaxSTMints = 64
	// MaxVaults bounds the vault catalogue.
	MaxVaults = 64

	// emptySlotRegistered marks a vault entry as unoccupied.
	emptySlotRegistered = math.MaxUint64
)

// MintEntry is one row of the mint catalogue. MintID is the zero ids.ID when
// the slot is empty.
type MintEntry struct {
	MintID ids.ID
	Weight uint64
}

func (e MintEntry) isEmpty() bool {
	return e.MintID == ids.Empty
}

// VaultEntry is one row of the vault catalogue. SlotRegistered is
// math.MaxUint64 when the slot is empty.
type VaultEntry struct {
	VaultID        ids.ID
	MintID         ids.ID
	VaultIndex     uint64
	SlotRegistered uint64
}

func (e VaultEntry) isEmpty() bool {
	return e.SlotRegistered == emptySlotRegistered
}

// Registry is the fixed-capacity mint and vault catalogue for one NCN.
type Registry struct {
	NCN    ids.ID
	mints  [MaxSTMints]MintEntry
	vaults [MaxVaults]VaultEntry
}

// New returns an empty registry for ncn, with every slot marked empty.
func New(ncn ids.ID) *Registry {
	r := &Registry{NCN: ncn}
	for i := range r.vaults {
		r.vaults[i].SlotRegistered = emptySlotRegistered
	}
	return r
}

// RegisterSTMint adds a new supported mint with its voting weight. It fails
// if the mint is already present, the catalogue is full, or weight is zero.
func (r *Registry) RegisterSTMint(mint ids.ID, weight uint64) error {
	if weight == 0 {
		return coreerrors.ErrZeroWeight
	}
	firstEmpty := -1
	for i, e := range r.mints {
		if e.isEmpty() {
			if firstEmpty == -1 {
				firstEmpty = i
			}
			continue
		}
		if e.MintID == mint {
			return coreerrors.ErrMintAlreadyRegistered
		}
	}
	if firstEmpty == -1 {
		return coreerrors.ErrMintRegistryFull
	}
	r.mints[firstEmpty] = MintEntry{MintID: mint, Weight: weight}
	return nil
}

// SetSTMint updates the weight of an existing mint. A nil newWeight leaves
// the weight untouched (used by callers that only want to validate
// presence); a non-nil newWeight must be non-zero.
func (r *Registry) SetSTMint(mint ids.ID, newWeight *uint64) error {
	for i, e := range r.mints {
		if e.isEmpty() || e.MintID != mint {
			continue
		}
		if newWeight != nil {
			if *newWeight == 0 {
				return coreerrors.ErrZeroWeight
			}
			r.mints[i].Weight = *newWeight
		}
		return nil
	}
	return coreerrors.ErrMintNotFound
}

// RegisterVault registers a vault under the given mint. Re-registering an
// already-registered vault ID is a silent, idempotent no-op that preserves
// the original SlotRegistered.
func (r *Registry) RegisterVault(vault, mint ids.ID, vaultIndex, slot uint64) error {
	firstEmpty := -1
	for i, e := range r.vaults {
		if e.isEmpty() {
			if firstEmpty == -1 {
				firstEmpty = i
			}
			continue
		}
		if e.VaultID == vault {
			return nil
		}
	}
	if firstEmpty == -1 {
		return coreerrors.ErrVaultRegistryFull
	}
	r.vaults[firstEmpty] = VaultEntry{
		VaultID:        vault,
		MintID:         mint,
		VaultIndex:     vaultIndex,
		SlotRegistered: slot,
	}
	return nil
}

// HasSTMint reports whether mint is registered.
func (r *Registry) HasSTMint(mint ids.ID) bool {
	_, err := r.GetMintEntry(mint)
	return err == nil
}

// GetMintEntry returns the registered entry for mint.
func (r *Registry) GetMintEntry(mint ids.ID) (MintEntry, error) {
	for _, e := range r.mints {
		if !e.isEmpty() && e.MintID == mint {
			return e, nil
		}
	}
	return MintEntry{}, coreerrors.ErrMintNotFound
}

// GetVaultEntry returns the registered entry for vault.
func (r *Registry) GetVaultEntry(vault ids.ID) (VaultEntry, error) {
	for _, e := range r.vaults {
		if !e.isEmpty() && e.VaultID == vault {
			return e, nil
		}
	}
	return VaultEntry{}, coreerrors.ErrVaultNotFound
}

// STMintCount returns the number of occupied mint slots.
func (r *Registry) STMintCount() int {
	count := 0
	for _, e := range r.mints {
		if !e.isEmpty() {
			count++
		}
	}
	return count
}

// VaultCount returns the number of occupied vault slots.
func (r *Registry) VaultCount() int {
	count := 0
	for _, e := range r.vaults {
		if !e.isEmpty() {
			count++
		}
	}
	return count
}

// Mints returns the occupied mint entries in slot order.
func (r *Registry) Mints() []MintEntry {
	out := make([]MintEntry, 0, MaxSTMints)
	for _, e := range r.mints {
		if !e.isEmpty() {
			out = append(out, e)
		}
	}
	return out
}

// Vaults returns the occupied vault entries in slot order.
func (r *Registry) Vaults() []VaultEntry {
	out := make([]VaultEntry, 0, MaxVaults)
	for _, e := range r.vaults {
		if !e.isEmpty() {
			out = append(out, e)
		}
	}
	return out
}

// Size returns the byte-exact account size of a registry at full capacity
// (MaxSTMints mints and MaxVaults vaults, whatever the current occupancy),
// used for allocation and realloc bookkeeping.
func Size() int {
	// 32 (NCN) + fixed-capacity arrays regardless of occupancy; the account
	// is allocated once at its maximum size since MaxSTMints/MaxVaults are
	// small fixed bounds.
	const mintEntrySize = 32 + 8
	const vaultEntrySize = 32 + 32 + 8 + 8
	return 1 + 7 + 32 + MaxSTMints*mintEntrySize + MaxVaults*vaultEntrySize
}
