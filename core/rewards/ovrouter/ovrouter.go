// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ovrouter implements the per-(operator,epoch) reward router. It
// mirrors ncnrouter at the inner level: an operator's share of the
// operator-vault pool arrives here, the operator keeps its fee, and
// the remainder is routed to the operator's delegating vaults proportionally
// to their snapshotted stake weight. Routing is resumable via an explicit
// cursor, same as the outer router.
package ovrouter

import (
	"github.com/luxfi/ids"
	luxlog "github.com/luxfi/log"

	"github.com/luxfi/ncn-consensus/core/coreerrors"
	"github.com/luxfi/ncn-consensus/core/snapshot"
	"github.com/luxfi/ncn-consensus/core/stakeweight"
	nolog "github.com/luxfi/ncn-consensus/log"
	"github.com/luxfi/ncn-consensus/metrics"
)

// VaultRoute is the per-vault accumulator inside the router, bounded by
// limits.MaxVaultsPerOperator in a real deployment.
type VaultRoute struct {
	Vault       ids.ID
	RewardsOwed stakeweight.StakeWeight
}

// Router is the per-(operator,epoch) operator-vault reward router.
type Router struct {
	Operator ids.ID
	NCN      ids.ID
	Epoch    uint64

	unroutedPool    stakeweight.StakeWeight
	operatorPool    stakeweight.StakeWeight
	vaultRewardPool stakeweight.StakeWeight
	totalRouted     stakeweight.StakeWeight

	operatorRewardsRouted stakeweight.StakeWeight
	vaultRewardsRouted    stakeweight.StakeWeight

	routes []VaultRoute

	stillRouting     bool
	lastProcessedIdx int
	allocatedInPass  stakeweight.StakeWeight

	log     luxlog.Logger
	metrics *metrics.RewardMetrics
}

// New returns an empty router. A nil logger defaults to a no-op logger and a
// nil metrics recorder disables metric emission, matching ncnrouter's
// optional-dependency construction.
func New(operator, ncn ids.ID, epoch uint64, log luxlog.Logger, m *metrics.RewardMetrics) *Router {
	if log == nil {
		log = nolog.NewNoOpLogger()
	}
	return &Router{Operator: operator, NCN: ncn, Epoch: epoch, log: log, metrics: m}
}

// RouteIncomingRewards adds newly-arrived lamports to the unrouted pool,
// mirroring ncnrouter.RouteIncomingRewards at the inner level.
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
	r.log.Debug("routed incoming operator-vault rewards", "operator", r.Operator, "delta", delta)
	return nil
}

// RouteOperatorRewards deducts operator_fee_bps/10_000 of the unrouted pool
// to the operator's own share; the remainder becomes the vault-reward pool.
func (r *Router) RouteOperatorRewards(snap *snapshot.OperatorSnapshot) error {
	pool := r.unroutedPool
	if pool.IsZero() {
		return nil
	}

	operatorShare, err := pool.MulDiv(stakeweight.New(uint64(snap.OperatorFeeBps)), stakeweight.New(10_000))
	if err != nil {
		return err
	}
	remainder, err := pool.Decrement(operatorShare)
	if err != nil {
		return err
	}

	newOperatorPool, err := r.operatorPool.Increment(operatorShare)
	if err != nil {
		return err
	}
	newVaultPool, err := r.vaultRewardPool.Increment(remainder)
	if err != nil {
		return err
	}

	r.operatorPool = newOperatorPool
	r.vaultRewardPool = newVaultPool
	r.unroutedPool = stakeweight.New(0)
	return nil
}

func (r *Router) vaultRouteIndex(vault ids.ID) int {
	for i, rt := range r.routes {
		if rt.Vault == vault {
			return i
		}
	}
	return -1
}

// RouteRewardPool iterates the operator's recorded delegations, allocating
// vault_reward_pool * per_vault_stake_weight / operator_stake_weight to each.
// Resumes from lastProcessedIdx and processes at most maxIterations
// delegations per call.
func (r *Router) RouteRewardPool(snap *snapshot.OperatorSnapshot, maxIterations int) error {
	if snap.StakeWeight.IsZero() {
		r.stillRouting = false
		r.vaultRewardPool = stakeweight.New(0)
		return nil
	}

	delegations := snap.Delegations()
	processed := 0
	for r.lastProcessedIdx < len(delegations) {
		if processed >= maxIterations {
			r.stillRouting = true
			return nil
		}
		d := delegations[r.lastProcessedIdx]
		r.lastProcessedIdx++
		processed++

		if d.StakeWeight.IsZero() {
			continue
		}

		share, err := r.vaultRewardPool.MulDiv(d.StakeWeight, snap.StakeWeight)
		if err != nil {
			return err
		}
		if share.IsZero() {
			continue
		}

		if idx := r.vaultRouteIndex(d.VaultID); idx != -1 {
			newOwed, err := r.routes[idx].RewardsOwed.Increment(share)
			if err != nil {
				return err
			}
			r.routes[idx].RewardsOwed = newOwed
		} else {
			r.routes = append(r.routes, VaultRoute{Vault: d.VaultID, RewardsOwed: share})
		}
		newAllocated, err := r.allocatedInPass.Increment(share)
		if err != nil {
			return err
		}
		r.allocatedInPass = newAllocated
	}

	r.stillRouting = false
	r.lastProcessedIdx = 0
	// Matches ncnrouter: what this pass moved into per-vault routes leaves
	// the pool; any floor-division remainder stays as still-pending balance.
	remaining, err := r.vaultRewardPool.Decrement(r.allocatedInPass)
	if err != nil {
		return err
	}
	r.vaultRewardPool = remaining
	r.allocatedInPass = stakeweight.New(0)
	r.metrics.ObserveOperatorVaultRouted(len(r.routes))
	return nil
}

// StillRouting reports whether RouteRewardPool exhausted its iteration
// budget before reaching the end of the delegation list.
func (r *Router) StillRouting() bool {
	return r.stillRouting
}

// DistributeOperatorRewards reads and zeros the operator's own share.
// Refuses while still routing.
func (r *Router) DistributeOperatorRewards() (uint64, error) {
	if r.stillRouting {
		return 0, coreerrors.ErrStillRouting
	}
	amount := r.operatorPool.Uint64()
	r.operatorPool = stakeweight.New(0)
	newRouted, err := r.operatorRewardsRouted.Increment(stakeweight.New(amount))
	if err != nil {
		return 0, err
	}
	r.operatorRewardsRouted = newRouted
	r.metrics.ObserveDistributed("operator", amount)
	return amount, nil
}

// DistributeVaultRewardRoute reads and zeros the named vault's accumulated
// route. Refuses while still routing.
func (r *Router) DistributeVaultRewardRoute(vault ids.ID) (uint64, error) {
	if r.stillRouting {
		return 0, coreerrors.ErrStillRouting
	}
	idx := r.vaultRouteIndex(vault)
	if idx == -1 {
		return 0, nil
	}
	amount := r.routes[idx].RewardsOwed.Uint64()
	r.routes[idx].RewardsOwed = stakeweight.New(0)
	newRouted, err := r.vaultRewardsRouted.Increment(stakeweight.New(amount))
	if err != nil {
		return 0, err
	}
	r.vaultRewardsRouted = newRouted
	r.metrics.ObserveDistributed("vault", amount)
	return amount, nil
}

// Conservation mirrors ncnrouter.Conservation at the inner level:
// operator_rewards_routed + vault_rewards_routed + still_pending ==
// total_incoming.
func (r *Router) Conservation() (routed, stillPending, totalIncoming uint64) {
	routed = r.operatorRewardsRouted.Uint64() + r.vaultRewardsRouted.Uint64()
	stillPending = r.unroutedPool.Uint64() + r.operatorPool.Uint64() + r.vaultRewardPool.Uint64()
	for _, rt := range r.routes {
		stillPending += rt.RewardsOwed.Uint64()
	}
	totalIncoming = r.totalRouted.Uint64()
	return
}
