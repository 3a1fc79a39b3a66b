package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShipIM/database-refactoring/internal/platform/metrics"
)

func TestRecorder_ObserveQuery(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.ObserveQuery("list_items", 10*time.Millisecond)
	r.ObserveQuery("list_items", 20*time.Millisecond)
	r.ObserveQuery("get_item", time.Millisecond)

	expected := `
# HELP db_queries_total Number of catalog queries executed, by operation.
# TYPE db_queries_total counter
db_queries_total{operation="get_item"} 1
db_queries_total{operation="list_items"} 2
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "db_queries_total"))
	count, err := testutil.GatherAndCount(r.Registry(), "db_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_ObserveRequest(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.ObserveRequest(http.MethodGet, "/items", http.StatusOK, time.Millisecond)
	r.ObserveRequest(http.MethodGet, "/items/{id}", http.StatusNotFound, time.Millisecond)
	r.ObserveRequest(http.MethodGet, "/items/{id}", http.StatusNotFound, time.Millisecond)

	expected := `
# HELP http_requests_errors_total Number of HTTP requests answered with a 4xx or 5xx status.
# TYPE http_requests_errors_total counter
http_requests_errors_total{method="GET",route="/items/{id}",status="404"} 2
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "http_requests_errors_total"))
	count, err := testutil.GatherAndCount(r.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = testutil.GatherAndCount(r.Registry(), "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_LoginAttempt(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.LoginAttempt(true)
	r.LoginAttempt(false)
	r.LoginAttempt(false)

	expected := `
# HELP user_login_attempts_total Number of login attempts, by result.
# TYPE user_login_attempts_total counter
user_login_attempts_total{result="failure"} 2
user_login_attempts_total{result="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "user_login_attempts_total"))
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.LoginAttempt(true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `user_login_attempts_total{result="success"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNopRecorder(t *testing.T) {
	t.Parallel()

	var r metrics.NopRecorder
	assert.NotPanics(t, func() {
		r.ObserveQuery("list_items", time.Second)
		r.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Second)
		r.LoginAttempt(true)
	})
}
