// Package metrics defines the custom Prometheus metrics of the employee
// directory API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Call Register once at startup with the registry that backs /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "directory"

// ── Employee metrics ──────────────────────────────────────────────────────────

// EmployeeOperationsTotal counts successful employee mutations.
// Label:
//   - operation: "create", "update", or "delete"
var EmployeeOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_operations_total",
		Help:      "Total number of successful employee mutations, by operation.",
	},
	[]string{"operation"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login attempts.
// Labels:
//   - operation: "signup" or "login"
//   - result: "success", "conflict", "invalid_credentials", "not_found",
//     "throttled", "invalid", or "error"
var AuthAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// Register adds every custom collector to reg. Collectors that are already
// registered with reg are accepted so repeated router construction is safe.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{EmployeeOperationsTotal, AuthAttemptsTotal} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
