package policy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	effectAllow           = "allow"
	effectDeny            = "deny"
	effectUnauthenticated = "unauthenticated"
)

// decisions counts authorization decisions by action and effect.
var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gamereviews_policy_decisions_total",
	Help: "Total number of authorization decisions",
}, []string{"action", "effect"})

func recordDecision(action, effect string) {
	decisions.WithLabelValues(action, effect).Inc()
}
