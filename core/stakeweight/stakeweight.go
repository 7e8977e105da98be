// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stakeweight implements the 128-bit, overflow-checked stake-weight
// accumulator used by every snapshot, ballot, and reward component.
package stakeweight

import (
	"math/big"

	"github.com/luxfi/ncn-consensus/core/coreerrors"
)

// maxU128 is the inclusive upper bound of a 128-bit unsigned integer,
// computed once at init rather than written as a literal.
var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// StakeWeight is a non-negative 128-bit accumulator. The zero value is zero
// weight and is ready to use.
type StakeWeight struct {
	value big.Int
}

// New returns a StakeWeight initialized to x.
func New(x uint64) StakeWeight {
	var w StakeWeight
	w.value.SetUint64(x)
	return w
}

// NewFromBig returns a StakeWeight initialized to x, which must already be
// non-negative and fit in 128 bits.
func NewFromBig(x *big.Int) (StakeWeight, error) {
	var w StakeWeight
	if x.Sign() < 0 || x.Cmp(maxU128) > 0 {
		return StakeWeight{}, coreerrors.ErrArithmeticOverflow
	}
	w.value.Set(x)
	return w, nil
}

// Snapshot is an alias for New, matching the vocabulary callers use when
// capturing a point-in-time weight rather than constructing one.
func Snapshot(x uint64) StakeWeight {
	return New(x)
}

// Uint64 returns the weight truncated to 64 bits. Callers that need the
// full-precision value should use Big instead.
func (w StakeWeight) Uint64() uint64 {
	return w.value.Uint64()
}

// Big returns the underlying big.Int value. The returned pointer must not be
// mutated by the caller.
func (w StakeWeight) Big() *big.Int {
	return &w.value
}

// IsZero reports whether the weight is exactly zero.
func (w StakeWeight) IsZero() bool {
	return w.value.Sign() == 0
}

// Cmp compares w against other, returning -1, 0, or 1.
func (w StakeWeight) Cmp(other StakeWeight) int {
	return w.value.Cmp(&other.value)
}

// Increment returns w + other, failing with ErrArithmeticOverflow if the
// result would not fit in 128 bits. On failure w is returned unchanged.
func (w StakeWeight) Increment(other StakeWeight) (StakeWeight, error) {
	sum := new(big.Int).Add(&w.value, &other.value)
	if sum.Cmp(maxU128) > 0 {
		return w, coreerrors.ErrArithmeticOverflow
	}
	var out StakeWeight
	out.value.Set(sum)
	return out, nil
}

// Decrement returns w - other, failing with ErrArithmeticUnderflow if other
// exceeds w. On failure w is returned unchanged.
func (w StakeWeight) Decrement(other StakeWeight) (StakeWeight, error) {
	if w.value.Cmp(&other.value) < 0 {
		return w, coreerrors.ErrArithmeticUnderflow
	}
	var out StakeWeight
	out.value.Sub(&w.value, &other.value)
	return out, nil
}

// Mul returns w * other, failing with ErrArithmeticOverflow if the result
// would not fit in 128 bits.
func (w StakeWeight) Mul(other StakeWeight) (StakeWeight, error) {
	product := new(big.Int).Mul(&w.value, &other.value)
	return NewFromBig(product)
}

// MulDiv returns floor(w * num / den), the operation reward routing uses to
// split a pool proportionally to stake weight. den must be non-zero.
func (w StakeWeight) MulDiv(num, den StakeWeight) (StakeWeight, error) {
	if den.IsZero() {
		return StakeWeight{}, coreerrors.ErrArithmeticOverflow
	}
	product := new(big.Int).Mul(&w.value, &num.value)
	product.Quo(product, &den.value)
	return NewFromBig(product)
}
