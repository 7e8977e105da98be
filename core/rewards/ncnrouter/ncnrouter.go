// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ncnrouter implements the top-level reward router: it splits
// incoming lamports into protocol / NCN / operator-vault pools, then routes
// the operator-vault pool to individual operators proportionally to their
// stake weight in the winning tally. Routing is resumable via an explicit
// cursor rather than a coroutine; the cursor is plain account state.
package ncnrouter

import (
	"github.com/luxfi/ids"
	luxlog "github.com/luxfi/log"

	"github.com/luxfi/ncn-consensus/core/ballotbox"
	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
	nolog "github.com/luxfi/ncn-consensus/log"
	"github.com/luxfi/ncn-consensus/metrics"
)

// OperatorRoute is the per-operator accumulator inside the router, bounded
// by limits.MaxOperators in a real deployment.
type OperatorRoute struct {
	Operator    ids.ID
	RewardsOwed stakeweight.StakeWeight // lamports, reusing the 128-bit type for overflow safety
}

// Router is the per-(ncn,epoch) top-level reward router.
type Router struct {
	NCN   ids.ID
	Epoch uint64

	unroutedPool      stakeweight.StakeWeight
	protocolPool      stakeweight.StakeWeight
	ncnPool           stakeweight.StakeWeight
	operatorVaultPool stakeweight.StakeWeight
	totalRouted       stakeweight.StakeWeight

	protocolRewardsRouted      stakeweight.StakeWeight
	ncnRewardsRouted           stakeweight.StakeWeight
	operatorVaultRewardsRouted stakeweight.StakeWeight

	routes []OperatorRoute

	stillRouting     bool
	lastProcessedIdx int
	allocatedInPass  stakeweight.StakeWeight

	log     luxlog.Logger
	metrics *metrics.RewardMetrics
}

// New returns an empty router. A nil logger defaults to a no-op logger and
// a nil metrics recorder disables metric emission.
func New(ncn ids.ID, epoch uint64, log luxlog.Logger, m *metrics.RewardMetrics) *Router {
	if log == nil {
		log = nolog.NewNoOpLogger()
	}
	return &Router{NCN: ncn, Epoch: epoch, log: log, metrics: m}
}

// RouteIncomingRewards adds newly-arrived lamports to the unrouted pool.
// delta = receiverBalance - rentCost - already-routed, deriving the newly
// arrived amount from the reward receiver's own balance rather than a
// separate deposit instruction.
func (r *Router) RouteIncomingRewards(rentCost, receiverBalance uint64) error {
	if receiverBalance < rentCost {
		return coreerrors.ErrInsufficientFunds
	}
	available := receiverBalance - rentCost
	alreadyRouted := r.totalRouted.Uint64()
	if available < alreadyRouted {
		return coreerrors.Wrap(coreerrors.CodeInsufficientFunds, "receiver balance regressed below already-routed total")
	}
	delta := available - alreadyRouted

	newUnrouted, err := r.unroutedPool.Increment(stakeweight.New(delta))
	if err != nil {
		return err
	}
	newTotalRouted, err := r.totalRouted.Increment(stakeweight.New(delta))
	if err != nil {
		return err
	}
	r.unroutedPool = newUnrouted
	r.totalRouted = newTotalRouted
	r.log.Debug("routed incoming ncn rewards", "delta", delta, "unrouted_pool", r.unroutedPool.Uint64())
	return nil
}

// RouteRewardPool splits the unrouted pool three ways using the fee
// percentages frozen into the epoch snapshot.
// protocolFeeBps and ncnFeeBps apply to the unrouted pool directly; the
// remainder becomes the operator-vault pool.
func (r *Router) RouteRewardPool(protocolFeeBps, ncnFeeBps uint16) error {
	pool := r.unroutedPool
	if pool.IsZero() {
		return nil
	}

	protocolShare, err := pool.MulDiv(stakeweight.New(uint64(protocolFeeBps)), stakeweight.New(10_000))
	if err != nil {
		return err
	}
	ncnShare, err := pool.MulDiv(stakeweight.New(uint64(ncnFeeBps)), stakeweight.New(10_000))
	if err != nil {
		return err
	}
	remainder, err := pool.Decrement(protocolShare)
	if err != nil {
		return err
	}
	remainder, err = remainder.Decrement(ncnShare)
	if err != nil {
		return err
	}

	newProtocolPool, err := r.protocolPool.Increment(protocolShare)
	if err != nil {
		return err
	}
	newNCNPool, err := r.ncnPool.Increment(ncnShare)
	if err != nil {
		return err
	}
	newOVPool, err := r.operatorVaultPool.Increment(remainder)
	if err != nil {
		return err
	}

	r.protocolPool = newProtocolPool
	r.ncnPool = newNCNPool
	r.operatorVaultPool = newOVPool
	r.unroutedPool = stakeweight.New(0)
	return nil
}

func (r *Router) operatorRouteIndex(operator ids.ID) int {
	for i, rt := range r.routes {
		if rt.Operator == operator {
			return i
		}
	}
	return -1
}

// RouteOperatorVaultRewards iterates operators in the winning tally,
// allocating operatorVaultPool * operatorStakeWeight / winningTallyWeight
// to each. It resumes from lastProcessedIdx and processes at most
// maxIterations operators per call, setting StillRouting when exhausted
// before reaching the end of the operator list.
func (r *Router) RouteOperatorVaultRewards(box *ballotbox.BallotBox, operators []OperatorCandidate, maxIterations int) error {
	if !box.IsConsensusReached() {
		return coreerrors.ErrConsensusNotReached
	}
	winningWeight, err := box.WinningTallyWeight()
	if err != nil {
		return err
	}
	if winningWeight.IsZero() {
		r.stillRouting = false
		r.operatorVaultPool = stakeweight.New(0)
		return nil
	}

	processed := 0
	for r.lastProcessedIdx < len(operators) {
		if processed >= maxIterations {
			r.stillRouting = true
			return nil
		}
		cand := operators[r.lastProcessedIdx]
		r.lastProcessedIdx++
		processed++

		vote, voted := box.VoteForOperator(cand.Operator)
		if !voted || vote.BallotIndex != box.WinningBallotIndex() {
			continue
		}

		share, err := r.operatorVaultPool.MulDiv(cand.StakeWeight, winningWeight)
		if err != nil {
			return err
		}
		if share.IsZero() {
			continue
		}

		if idx := r.operatorRouteIndex(cand.Operator); idx != -1 {
			newOwed, err := r.routes[idx].RewardsOwed.Increment(share)
			if err != nil {
				return err
			}
			r.routes[idx].RewardsOwed = newOwed
		} else {
			r.routes = append(r.routes, OperatorRoute{Operator: cand.Operator, RewardsOwed: share})
		}
		newAllocated, err := r.allocatedInPass.Increment(share)
		if err != nil {
			return err
		}
		r.allocatedInPass = newAllocated
	}

	r.stillRouting = false
	r.lastProcessedIdx = 0
	// What this pass moved into per-operator routes leaves the pool, so
	// Conservation does not count it twice; any floor-division remainder
	// stays in the pool as still-pending balance.
	remaining, err := r.operatorVaultPool.Decrement(r.allocatedInPass)
	if err != nil {
		return err
	}
	r.operatorVaultPool = remaining
	r.allocatedInPass = stakeweight.New(0)
	r.metrics.ObserveOperatorVaultRouted(len(r.routes))
	return nil
}

// OperatorCandidate is the minimal view RouteOperatorVaultRewards needs of
// an operator snapshot: its identity and its frozen stake weight.
type OperatorCandidate struct {
	Operator    ids.ID
	StakeWeight stakeweight.StakeWeight
}

// StillRouting reports whether RouteOperatorVaultRewards exhausted its
// iteration budget before reaching the end of the operator list.
func (r *Router) StillRouting() bool {
	return r.stillRouting
}

// DistributeProtocolRewards reads and zeros the protocol pool, returning
// the amount to transfer to the protocol wallet. Refuses while still
// routing.
func (r *Router) DistributeProtocolRewards() (uint64, error) {
	if r.stillRouting {
		return 0, coreerrors.ErrStillRouting
	}
	amount := r.protocolPool.Uint64()
	r.protocolPool = stakeweight.New(0)
	newRouted, err := r.protocolRewardsRouted.Increment(stakeweight.New(amount))
	if err != nil {
		return 0, err
	}
	r.protocolRewardsRouted = newRouted
	r.metrics.ObserveDistributed("protocol", amount)
	return amount, nil
}

// DistributeNCNRewards reads and zeros the NCN pool. Refuses while still
// routing.
func (r *Router) DistributeNCNRewards() (uint64, error) {
	if r.stillRouting {
		return 0, coreerrors.ErrStillRouting
	}
	amount := r.ncnPool.Uint64()
	r.ncnPool = stakeweight.New(0)
	newRouted, err := r.ncnRewardsRouted.Increment(stakeweight.New(amount))
	if err != nil {
		return 0, err
	}
	r.ncnRewardsRouted = newRouted
	r.metrics.ObserveDistributed("ncn", amount)
	return amount, nil
}

// DistributeOperatorVaultRewardRoute reads and zeros the named operator's
// accumulated route, returning the amount to forward to that operator's
// operator-vault reward router. Refuses while still routing.
func (r *Router) DistributeOperatorVaultRewardRoute(operator ids.ID) (uint64, error) {
	if r.stillRouting {
		return 0, coreerrors.ErrStillRouting
	}
	idx := r.operatorRouteIndex(operator)
	if idx == -1 {
		return 0, nil
	}
	amount := r.routes[idx].RewardsOwed.Uint64()
	r.routes[idx].RewardsOwed = stakeweight.New(0)
	newRouted, err := r.operatorVaultRewardsRouted.Increment(stakeweight.New(amount))
	if err != nil {
		return 0, err
	}
	r.operatorVaultRewardsRouted = newRouted
	r.metrics.ObserveDistributed("operator_vault", amount)
	return amount, nil
}

// Conservation reports the values the conservation invariant checks:
// protocol_rewards_routed + ncn_rewards_routed +
// operator_vault_rewards_routed + still_pending == total_incoming. Pending
// per-operator routes that have been allocated but not yet claimed via
// DistributeOperatorVaultRewardRoute count as still_pending, same as the
// pool balances they were drawn from.
func (r *Router) Conservation() (routed, stillPending, totalIncoming uint64) {
	routed = r.protocolRewardsRouted.Uint64() + r.ncnRewardsRouted.Uint64() + r.operatorVaultRewardsRouted.Uint64()
	stillPending = r.unroutedPool.Uint64() + r.protocolPool.Uint64() + r.ncnPool.Uint64() + r.operatorVaultPool.Uint64()
	for _, rt := range r.routes {
		stillPending += rt.RewardsOwed.Uint64()
	}
	totalIncoming = r.totalRouted.Uint64()
	return
}
