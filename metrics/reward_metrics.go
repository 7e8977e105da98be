// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// RewardMetrics instruments the two reward routers. It is the one place in
// the core that emits metrics
// metric emission elsewhere: the routers are long-running, resumable, and
// worth observing; the rest of the core is a pure, synchronous state
// machine that keepers already observe via return values.
type RewardMetrics struct {
	distributed        *prometheus.CounterVec
	operatorVaultRoutes prometheus.Gauge
}

// NewRewardMetrics registers the reward-router metrics against reg.
func NewRewardMetrics(reg prometheus.Registerer) (*RewardMetrics, error) {
	distributed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ncn_reward_lamports_distributed_total",
		Help: "Total lamports distributed by reward pool.",
	}, []string{"pool"})
	operatorVaultRoutes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ncn_reward_operator_vault_routes",
		Help: "Number of route entries a reward router held after its last completed routing pass.",
	})

	if err := reg.Register(distributed); err != nil {
		return nil, err
	}
	if err := reg.Register(operatorVaultRoutes); err != nil {
		return nil, err
	}

	return &RewardMetrics{distributed: distributed, operatorVaultRoutes: operatorVaultRoutes}, nil
}

// ObserveDistributed records a completed distribution from the named pool.
func (m *RewardMetrics) ObserveDistributed(pool string, amount uint64) {
	if m == nil {
		return
	}
	m.distributed.WithLabelValues(pool).Add(float64(amount))
}

// ObserveOperatorVaultRouted sets the route gauge to count, the number of
// route entries the calling router holds after a completed routing pass
// (operator routes for ncnrouter, vault routes for ovrouter). Entries whose
// balance was already distributed are still counted.
func (m *RewardMetrics) ObserveOperatorVaultRouted(count int) {
	if m == nil {
		return
	}
	m.operatorVaultRoutes.Set(float64(count))
}
