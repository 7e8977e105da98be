// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package coreerrors defines the dense domain-error enum shared by every
// core component. Codes start at 0x2100 so they can be mapped onto a host
// chain's "custom program error" channel without colliding with native
// errors.
package coreerrors

import "fmt"

// Code is a domain error code.
type Code uint32

const (
	CodeArithmeticOverflow Code = 0x2100 + iota
	CodeArithmeticUnderflow
	CodeMintAlreadyRegistered
	CodeVaultRegistryFull
	CodeMintRegistryFull
	CodeZeroWeight
	CodeMintNotFound
	CodeVaultNotFound
	CodeWeightTableNotInitialized
	CodeWeightTableAlreadyInitialized
	CodeWeightTableFinalized
	CodeWeightNotFound
	CodeOperatorIsNotInSnapshot
	CodeDelegationAlreadyRecorded
	CodeOperatorSnapshotAlreadyFinalized
	CodeEpochSnapshotAlreadyFinalized
	CodeBadBallot
	CodeOperatorAlreadyVoted
	CodeCannotVoteWithZeroStake
	CodeVotingNotValid
	CodeConsensusAlreadyReached
	CodeConsensusNotReached
	CodeTieBreakerNotInPriorVotes
	CodeTieBreakerNotEligible
	CodeInvalidEpochsBeforeStall
	CodeInvalidEpochsBeforeClose
	CodeInvalidSlotsAfterConsensus
	CodeFeeCapExceeded
	CodeInvalidAdmin
	CodeStillRouting
	CodeRouteNotReady
	CodeInsufficientFunds
	CodeAccountAlreadyClosed
	CodeAccountNotCloseable
	CodeEpochAlreadyExists
	CodeDiscriminatorMismatch
	CodeReallocTooSmall
)

var messages = map[Code]string{
	CodeArithmeticOverflow:               "arithmetic overflow",
	CodeArithmeticUnderflow:              "arithmetic underflow",
	CodeMintAlreadyRegistered:            "mint already registered",
	CodeVaultRegistryFull:                "vault registry full",
	CodeMintRegistryFull:                 "mint registry full",
	CodeZeroWeight:                       "weight must be non-zero",
	CodeMintNotFound:                     "mint not found",
	CodeVaultNotFound:                    "vault not found",
	CodeWeightTableNotInitialized:        "weight table not initialized",
	CodeWeightTableAlreadyInitialized:    "weight table already initialized",
	CodeWeightTableFinalized:             "weight table already finalized",
	CodeWeightNotFound:                   "weight not found for mint",
	CodeOperatorIsNotInSnapshot:          "operator index is not in snapshot",
	CodeDelegationAlreadyRecorded:        "vault-operator delegation already recorded this epoch",
	CodeOperatorSnapshotAlreadyFinalized: "operator snapshot already finalized",
	CodeEpochSnapshotAlreadyFinalized:    "epoch snapshot already finalized",
	CodeBadBallot:                        "ballot value out of range",
	CodeOperatorAlreadyVoted:             "operator already voted this epoch",
	CodeCannotVoteWithZeroStake:          "cannot vote with zero stake weight",
	CodeVotingNotValid:                   "voting window is not valid",
	CodeConsensusAlreadyReached:          "consensus already reached",
	CodeConsensusNotReached:              "consensus not yet reached",
	CodeTieBreakerNotInPriorVotes:        "tie breaker ballot was not among prior votes",
	CodeTieBreakerNotEligible:            "epoch is not yet stall-eligible for a tie breaker",
	CodeInvalidEpochsBeforeStall:         "epochs_before_stall out of bounds",
	CodeInvalidEpochsBeforeClose:         "epochs_after_consensus_before_close out of bounds",
	CodeInvalidSlotsAfterConsensus:       "valid_slots_after_consensus out of bounds",
	CodeFeeCapExceeded:                   "fee basis points exceed cap",
	CodeInvalidAdmin:                     "caller is not the configured admin",
	CodeStillRouting:                     "reward routing is not finished",
	CodeRouteNotReady:                    "upstream routing step has not completed",
	CodeInsufficientFunds:                "insufficient lamports for operation",
	CodeAccountAlreadyClosed:             "account already closed",
	CodeAccountNotCloseable:              "account does not satisfy closure gate",
	CodeEpochAlreadyExists:               "epoch already exists for this ncn",
	CodeDiscriminatorMismatch:            "account discriminator mismatch",
	CodeReallocTooSmall:                  "target size is smaller than current size",
}

// Error is a coreerrors.Code wrapped as an error, carrying optional context.
type Error struct {
	Code Code
	msg  string
}

func (e *Error) Error() string {
	if e.msg == "" {
		return messages[e.Code]
	}
	return fmt.Sprintf("%s: %s", messages[e.Code], e.msg)
}

// Is allows errors.Is(err, New(CodeX)) to match regardless of context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New returns a bare domain error for the given code.
func New(code Code) error {
	return &Error{Code: code}
}

// Wrap attaches additional context to a domain error code.
func Wrap(code Code, format string, args ...interface{}) error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

var (
	ErrArithmeticOverflow               = New(CodeArithmeticOverflow)
	ErrArithmeticUnderflow              = New(CodeArithmeticUnderflow)
	ErrMintAlreadyRegistered            = New(CodeMintAlreadyRegistered)
	ErrVaultRegistryFull                = New(CodeVaultRegistryFull)
	ErrMintRegistryFull                 = New(CodeMintRegistryFull)
	ErrZeroWeight                       = New(CodeZeroWeight)
	ErrMintNotFound                     = New(CodeMintNotFound)
	ErrVaultNotFound                    = New(CodeVaultNotFound)
	ErrWeightTableNotInitialized        = New(CodeWeightTableNotInitialized)
	ErrWeightTableAlreadyInitialized    = New(CodeWeightTableAlreadyInitialized)
	ErrWeightTableFinalized             = New(CodeWeightTableFinalized)
	ErrWeightNotFound                   = New(CodeWeightNotFound)
	ErrOperatorIsNotInSnapshot          = New(CodeOperatorIsNotInSnapshot)
	ErrDelegationAlreadyRecorded        = New(CodeDelegationAlreadyRecorded)
	ErrOperatorSnapshotAlreadyFinalized = New(CodeOperatorSnapshotAlreadyFinalized)
	ErrEpochSnapshotAlreadyFinalized    = New(CodeEpochSnapshotAlreadyFinalized)
	ErrBadBallot                        = New(CodeBadBallot)
	ErrOperatorAlreadyVoted             = New(CodeOperatorAlreadyVoted)
	ErrCannotVoteWithZeroStake          = New(CodeCannotVoteWithZeroStake)
	ErrVotingNotValid                   = New(CodeVotingNotValid)
	ErrConsensusAlreadyReached          = New(CodeConsensusAlreadyReached)
	ErrConsensusNotReached              = New(CodeConsensusNotReached)
	ErrTieBreakerNotInPriorVotes        = New(CodeTieBreakerNotInPriorVotes)
	ErrTieBreakerNotEligible            = New(CodeTieBreakerNotEligible)
	ErrInvalidEpochsBeforeStall         = New(CodeInvalidEpochsBeforeStall)
	ErrInvalidEpochsBeforeClose         = New(CodeInvalidEpochsBeforeClose)
	ErrInvalidSlotsAfterConsensus       = New(CodeInvalidSlotsAfterConsensus)
	ErrFeeCapExceeded                   = New(CodeFeeCapExceeded)
	ErrInvalidAdmin                     = New(CodeInvalidAdmin)
	ErrStillRouting                     = New(CodeStillRouting)
	ErrRouteNotReady                    = New(CodeRouteNotReady)
	ErrInsufficientFunds                = New(CodeInsufficientFunds)
	ErrAccountAlreadyClosed             = New(CodeAccountAlreadyClosed)
	ErrAccountNotCloseable              = New(CodeAccountNotCloseable)
	ErrEpochAlreadyExists               = New(CodeEpochAlreadyExists)
	ErrDiscriminatorMismatch            = New(CodeDiscriminatorMismatch)
	ErrReallocTooSmall                  = New(CodeReallocTooSmall)
)
