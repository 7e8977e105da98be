// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package limits collects the fixed-capacity arena bounds used throughout
// the core: small, fixed bounds that keep every scan trivially cheap and
// every account inside host account-size limits.
package limits

const (
	// MaxOperators is the arena bound for the NCN reward router's
	// per-operator route table and the epoch state's per-operator progress
	// slices. Neither ncnrouter nor epochstate checks sizes against it.
	MaxOperators = 256
	// MaxVaultsPerOperator is the arena bound for an operator snapshot's
	// delegation slots. InitializeOperatorSnapshot does not check vaultCount
	// against it.
	MaxVaultsPerOperator = 64
	// MaxReallocBytes bounds how much an account may grow in a single
	// pay_and_realloc call.
	MaxReallocBytes = 10_240
)
