// Package metrics defines and registers the custom Prometheus metrics for the
// user administration API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default Prometheus registry at init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "useradmin"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GateDecisionsTotal counts access gate outcomes.
// Labels:
//   - tier:   the required tier ("admin", "read_write", "read")
//   - result: "allowed", "denied" (403) or "rejected" (401)
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of access gate decisions, by tier and result.",
	},
	[]string{"tier", "result"},
)

// GateRejectionsTotal counts 401 outcomes by the stage that rejected them.
// Label:
//   - stage: "header" (no bearer token), "token" (verification failed) or
//     "identity" (no operator)
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of unauthenticated requests, by rejecting stage.",
	},
	[]string{"stage"},
)

// OperatorsProvisionedTotal counts operators created outside explicit registration.
// Label:
//   - source: "token" (auto-provisioned by the gate) or "bootstrap" (seeded at startup)
var OperatorsProvisionedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operators_provisioned_total",
		Help:      "Total number of operators created implicitly, by source.",
	},
	[]string{"source"},
)

// IdentityCacheTotal counts identity cache lookups.
// Label:
//   - result: "hit" or "miss"
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
