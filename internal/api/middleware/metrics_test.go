package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShipIM/database-refactoring/internal/api/middleware"
)

type observedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []observedRequest
}

func (f *fakeRecorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, observedRequest{method, route, status})
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	r := chi.NewRouter()
	r.Use(middleware.NewMetricsMiddleware(rec))
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	for _, path := range []string{"/items/7", "/health", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, rec.requests, 3)
	assert.Equal(t, observedRequest{http.MethodGet, "/items/{id}", http.StatusNotFound}, rec.requests[0])
	assert.Equal(t, observedRequest{http.MethodGet, "/health", http.StatusOK}, rec.requests[1])
	assert.Equal(t, observedRequest{http.MethodGet, "unmatched", http.StatusNotFound}, rec.requests[2])
}
