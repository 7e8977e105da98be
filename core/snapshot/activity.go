// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

// HandshakeState mirrors the restaking side's view of an operator or NCN
// relationship, as read (read-only) from the host chain's delegation
// accounting.
type HandshakeState int

const (
	HandshakeInactive HandshakeState = iota
	HandshakeCooldown
	HandshakeActive
)

// DeriveOperatorActivity decides whether an operator should be snapshotted
// as active. Both the NCN side and the operator side of the handshake
// must be active, or the operator side may be in cooldown, for at least one
// full epoch's worth of slots as of currentSlot.
func DeriveOperatorActivity(
	ncnSide, operatorSide HandshakeState,
	handshakeSlot, epochLengthSlots, currentSlot uint64,
) bool {
	if ncnSide != HandshakeActive {
		return false
	}
	if operatorSide != HandshakeActive && operatorSide != HandshakeCooldown {
		return false
	}
	if currentSlot < handshakeSlot {
		return false
	}
	return currentSlot-handshakeSlot >= epochLengthSlots
}
