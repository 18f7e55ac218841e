package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_Instrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "erp")

	handler := m.Instrument("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/products/1", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if mf.GetName() != "erp_http_requests_total" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		labels := map[string]string{}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "/api/products/{id}", labels["endpoint"])
		assert.Equal(t, "404", labels["status"])
	}
	assert.True(t, found)
}

func TestLogging_PassesThroughStatus(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestResponseCache_DisabledWithoutRedis(t *testing.T) {
	c := NewResponseCache(nil, time.Minute)
	calls := 0
	handler := c.Cached(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers", nil))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 3, calls)

	written := false
	c.Invalidating(func(w http.ResponseWriter, r *http.Request) {
		written = true
		w.WriteHeader(http.StatusCreated)
	})(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/suppliers", nil))
	assert.True(t, written)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(httptest.NewRequest(http.MethodGet, "/api/products?name=bolt", nil))
	b := CacheKey(httptest.NewRequest(http.MethodGet, "/api/products?name=nut", nil))
	c := CacheKey(httptest.NewRequest(http.MethodGet, "/api/products?name=bolt", nil))

	require.True(t, strings.HasPrefix(a, cacheKeyPrefix))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, "login", 1, time.Minute, nil)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    []netip.Prefix
		want       string
	}{
		{name: "remote address", remoteAddr: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "address without port", remoteAddr: "10.0.0.9", want: "10.0.0.9"},
		{name: "forwarded header ignored without trusted proxies", remoteAddr: "203.0.113.9:4000", forwarded: "1.1.1.1", want: "203.0.113.9"},
		{name: "forwarded header ignored from untrusted peer", remoteAddr: "203.0.113.9:4000", forwarded: "1.1.1.1", trusted: proxies, want: "203.0.113.9"},
		{name: "trusted proxy forwards client", remoteAddr: "10.0.0.1:5555", forwarded: "203.0.113.7", trusted: proxies, want: "203.0.113.7"},
		{name: "spoofed leading hop is skipped", remoteAddr: "10.0.0.1:5555", forwarded: "1.1.1.1, 203.0.113.7, 10.0.0.2", trusted: proxies, want: "203.0.113.7"},
		{name: "garbage hop stops the walk", remoteAddr: "10.0.0.1:5555", forwarded: "203.0.113.7, nonsense", trusted: proxies, want: "10.0.0.1"},
		{name: "trusted peer without header", remoteAddr: "10.0.0.1:5555", trusted: proxies, want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trusted))
		})
	}
}

func TestClientIP_RotatingForwardedHeaderKeepsIdentity(t *testing.T) {
	seen := map[string]bool{}
	for _, fwd := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "203.0.113.9:4000"
		r.Header.Set("X-Forwarded-For", fwd)
		seen[ClientIP(r, nil)] = true
	}
	assert.Equal(t, map[string]bool{"203.0.113.9": true}, seen)
}
