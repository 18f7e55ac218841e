package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tair/mini-erp/pkg/logger"
	"github.com/tair/mini-erp/pkg/response"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency
type CheckFunc func(ctx context.Context) error

// ComponentHealth is the result of one probe
type ComponentHealth struct {
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Critical bool    `json:"critical"`
	Latency  float64 `json:"latency_ms"`
	Error    string  `json:"error,omitempty"`
}

// Report is the aggregated health of the service
type Report struct {
	Service    string            `json:"service"`
	Version    string            `json:"version"`
	Status     string            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Uptime     float64           `json:"uptime_seconds"`
	Timestamp  time.Time         `json:"timestamp"`
}

type check struct {
	name     string
	critical bool
	fn       CheckFunc
}

// Checker runs registered probes concurrently
type Checker struct {
	service   string
	version   string
	timeout   time.Duration
	checks    []check
	startTime time.Time
}

// NewChecker creates a new health checker
func NewChecker(service, version string) *Checker {
	return &Checker{
		service:   service,
		version:   version,
		timeout:   3 * time.Second,
		startTime: time.Now(),
	}
}

// Register adds a probe. A failing critical probe makes the service
// unhealthy; a failing optional one only degrades it.
func (c *Checker) Register(name string, critical bool, fn CheckFunc) {
	c.checks = append(c.checks, check{name: name, critical: critical, fn: fn})
}

// Check runs every probe and aggregates the result
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	components := make([]ComponentHealth, 0, len(c.checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, chk := range c.checks {
		wg.Add(1)
		go func(chk check) {
			defer wg.Done()

			start := time.Now()
			result := ComponentHealth{Name: chk.name, Critical: chk.critical, Status: StatusHealthy}
			if err := chk.fn(ctx); err != nil {
				result.Status = StatusUnhealthy
				result.Error = err.Error()
				logger.Warn(ctx).
					Str("component", chk.name).
					Err(err).
					Msg("Health check failed")
			}
			result.Latency = float64(time.Since(start).Microseconds()) / 1000

			mu.Lock()
			components = append(components, result)
			mu.Unlock()
		}(chk)
	}
	wg.Wait()

	sort.Slice(components, func(i, j int) bool { return components[i].Name < components[j].Name })

	return Report{
		Service:    c.service,
		Version:    c.version,
		Status:     overallStatus(components),
		Components: components,
		Uptime:     time.Since(c.startTime).Seconds(),
		Timestamp:  time.Now().UTC(),
	}
}

func overallStatus(components []ComponentHealth) string {
	status := StatusHealthy
	for _, comp := range components {
		if comp.Status == StatusHealthy {
			continue
		}
		if comp.Critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// Handler serves the report; unhealthy maps to 503
func (c *Checker) Handler(w http.ResponseWriter, r *http.Request) {
	report := c.Check(r.Context())
	status := http.StatusOK
	if report.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, report)
}
