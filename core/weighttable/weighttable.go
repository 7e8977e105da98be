// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package weighttable implements the per-epoch, per-NCN immutable copy of
// mint weights. It moves through three states:
// uninitialized -> initialized -> finalized, the last reached implicitly
// once every mint known to the registry at initialization time has a
// recorded weight.
package weighttable

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/vaultregistry"
)

type weightEntry struct {
	mintID   ids.ID
	weight   uint64
	slotSet  uint64
	occupied bool
}

// Table is the per-epoch weight table for one NCN.
type Table struct {
	NCN   ids.ID
	Epoch uint64

	initialized bool
	finalized   bool
	stMintCount int
	entries     []weightEntry
}

// Initialize prepares the table to receive one weight per mint currently
// registered in reg. Every call builds a fresh table and succeeds; a second
// initialization for the same (ncn, epoch) is not detected here.
func Initialize(ncn ids.ID, epoch uint64, reg *vaultregistry.Registry) (*Table, error) {
	t := &Table{NCN: ncn, Epoch: epoch}
	mints := reg.Mints()
	t.entries = make([]weightEntry, len(mints))
	for i, m := range mints {
		t.entries[i] = weightEntry{mintID: m.MintID}
	}
	t.stMintCount = len(mints)
	t.initialized = true
	t.maybeFinalize() // a registry with zero mints is trivially finalized
	return t, nil
}

// SetWeight records the weight for mint, valid only while the table is
// initialized and not yet finalized. Finalization happens implicitly once
// every mint has a recorded weight.
func (t *Table) SetWeight(mint ids.ID, weight uint64, slot uint64) error {
	if !t.initialized {
		return coreerrors.ErrWeightTableNotInitialized
	}
	if t.finalized {
		return coreerrors.ErrWeightTableFinalized
	}
	for i := range t.entries {
		if t.entries[i].mintID != mint {
			continue
		}
		if weight == 0 {
			return coreerrors.ErrZeroWeight
		}
		t.entries[i].weight = weight
		t.entries[i].slotSet = slot
		t.entries[i].occupied = true
		t.maybeFinalize()
		return nil
	}
	return coreerrors.ErrMintNotFound
}

func (t *Table) maybeFinalize() {
	count := 0
	for _, e := range t.entries {
		if e.occupied {
			count++
		}
	}
	if count == t.stMintCount {
		t.finalized = true
	}
}

// Finalized reports whether every mint has a recorded weight.
func (t *Table) Finalized() bool {
	return t.finalized
}

// Initialized reports whether the table has been initialized.
func (t *Table) Initialized() bool {
	return t.initialized
}

// WeightOf returns the recorded weight for mint. It fails if the table is
// not initialized or the mint has no recorded weight yet.
func (t *Table) WeightOf(mint ids.ID) (uint64, error) {
	if !t.initialized {
		return 0, coreerrors.ErrWeightTableNotInitialized
	}
	for _, e := range t.entries {
		if e.mintID == mint {
			if !e.occupied {
				return 0, coreerrors.ErrWeightNotFound
			}
			return e.weight, nil
		}
	}
	return 0, coreerrors.ErrMintNotFound
}

// WeightCount returns the number of mints that have a recorded weight.
func (t *Table) WeightCount() int {
	count := 0
	for _, e := range t.entries {
		if e.occupied {
			count++
		}
	}
	return count
}

// STMintCount returns the number of mints the table was initialized for.
func (t *Table) STMintCount() int {
	return t.stMintCount
}
