package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(c *Checker)
		status string
	}{
		{
			name:   "no probes",
			setup:  func(c *Checker) {},
			status: StatusHealthy,
		},
		{
			name: "all healthy",
			setup: func(c *Checker) {
				c.Register("database", true, ok)
				c.Register("redis", false, ok)
			},
			status: StatusHealthy,
		},
		{
			name: "optional failure degrades",
			setup: func(c *Checker) {
				c.Register("database", true, ok)
				c.Register("redis", false, fail)
			},
			status: StatusDegraded,
		},
		{
			name: "critical failure is unhealthy",
			setup: func(c *Checker) {
				c.Register("database", true, fail)
				c.Register("redis", false, ok)
			},
			status: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("erp-service", "test")
			tt.setup(c)

			report := c.Check(context.Background())
			assert.Equal(t, tt.status, report.Status)
			assert.Equal(t, "erp-service", report.Service)
		})
	}
}

func TestChecker_Handler(t *testing.T) {
	c := NewChecker("erp-service", "test")
	c.Register("redis", false, ok)
	c.Register("database", true, fail)

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Components, 2)
	assert.Equal(t, "database", report.Components[0].Name)
	assert.Equal(t, "connection refused", report.Components[0].Error)
	assert.Equal(t, StatusHealthy, report.Components[1].Status)
}
