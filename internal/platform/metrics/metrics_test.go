package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/pets/{petID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/pets/{petID}", "418"))
	assert.Equal(t, float64(3), got)
}

func TestCounters(t *testing.T) {
	m := New()
	m.LoginAttempt("vet", "success")
	m.LoginAttempt("", "not_found")
	m.EventPublished("timeline.item_recorded", nil)
	m.EventPublished("timeline.item_recorded", errors.New("broker down"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues("vet", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues("unknown", "not_found")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("timeline.item_recorded", "error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.LoginAttempt("user", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dogpass_auth_login_attempts_total")
}
