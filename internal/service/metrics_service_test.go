package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/persons", http.StatusOK, 10*time.Millisecond)
	m.RecordEnrollment(enrollOutcomeCreated)
	m.RecordRateLimited()
	m.ObserveDBQuery("statement_enrollments", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, name := range []string{"http_requests_total", "enrollment_attempts_total", "http_requests_rate_limited_total", "db_query_duration_seconds", "goroutines_total"} {
		assert.True(t, strings.Contains(body, name), name)
	}
}

func TestNilMetricsServiceIsNoop(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordEnrollment("created")
	m.RecordRateLimited()
	m.ObserveDBQuery("q", time.Millisecond)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
