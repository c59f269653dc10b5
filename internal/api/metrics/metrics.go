// Package metrics defines and registers all custom Prometheus metrics for the
// account service. It is the single source of truth for metric names, labels,
// and help strings. Metrics self-register with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created", "conflict", or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer-token validations on /me.
// Label:
//   - result: "ok" or "invalid"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// RequestDuration measures auth endpoint latency end-to-end, including the
// bcrypt work on signup and login.
// Label:
//   - route: "signup", "login", or "me"
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of auth endpoint handling.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"route"},
)
