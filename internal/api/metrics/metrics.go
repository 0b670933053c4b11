// Package metrics defines and registers all custom Prometheus metrics for
// the adventure API. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "adventure"

// AuthzDecisionsTotal counts ownership-authority verdicts.
// Labels:
//   - action: the guarded operation (e.g. "delete_adventure")
//   - verdict: "allow", "deny", or "not_found"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization verdicts, by action and verdict.",
	},
	[]string{"action", "verdict"},
)

// AuthAttemptsTotal counts credential resolutions.
// Labels:
//   - kind: "jwt" or "api_key"
//   - result: "ok", "unauthenticated", or "unavailable"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential resolution attempts.",
	},
	[]string{"kind", "result"},
)

// AdventuresCreatedTotal counts newly created adventures.
// Label:
//   - principal_kind: "user" or "api_key"
var AdventuresCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "adventures_created_total",
		Help:      "Total number of adventures created, by principal kind.",
	},
	[]string{"principal_kind"},
)

// UpstreamErrorsTotal counts failures from external providers.
// Label:
//   - provider: "story" or "image"
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of story/image provider failures.",
	},
	[]string{"provider"},
)

// StoryGenerationDuration measures end-to-end latency of one generation
// call against the language model.
// Label:
//   - kind: "new" (opening chapter) or "node" (continuation)
var StoryGenerationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "story_generation_duration_seconds",
		Help:      "Duration of story generation calls.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
	},
	[]string{"kind"},
)

// AuditQueueDepth tracks the number of entries waiting in each audit
// worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries dropped because a worker channel
// was full. Non-zero values mean the mutation log has gaps.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped due to backpressure.",
	},
)
