package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestRegisteredMetricsAreGathered(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	EmployeeOperationsTotal.WithLabelValues("create").Inc()
	AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["directory_employee_operations_total"])
	assert.True(t, names["directory_auth_attempts_total"])
}
