package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-manager/internal/http/handlers/web"
	"github.com/aanand-mishra/student-manager/internal/manager"
	"github.com/aanand-mishra/student-manager/internal/metrics"
	"github.com/aanand-mishra/student-manager/internal/storage/instrumented"
	"github.com/aanand-mishra/student-manager/internal/storage/postgrest"
	"github.com/aanand-mishra/student-manager/internal/storage/postgrest/postgresttest"
	"github.com/aanand-mishra/student-manager/internal/types"
)

func newTestRouter(t *testing.T) (http.Handler, *postgresttest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := postgresttest.NewServer(t)
	client, err := postgrest.New(srv.URL, postgresttest.APIKey, time.Second)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	store := instrumented.New(client, metrics.New(reg), logger)

	toasts := manager.NewToasts()
	mgr, err := manager.New(store, toasts, manager.WithLogger(logger))
	require.NoError(t, err)
	page, err := web.NewHandler(mgr, toasts, logger)
	require.NoError(t, err)

	return New(Deps{
		Store:          store,
		Page:           page,
		Gatherer:       reg,
		AllowedOrigins: []string{"https://app.example.com"},
		Logger:         logger,
	}), srv
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, srv := newTestRouter(t)
	srv.Seed(types.Student{Name: "Ada", Email: "ada@x.com"})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","students":1}`, rec.Body.String())

	srv.Fail(postgresttest.Failure{Method: http.MethodHead, Status: http.StatusServiceUnavailable})
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoutesAreMounted(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/api/students", nil)).Code)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `students_store_requests_total{op="ListStudents",outcome="ok"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := serve(h, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec = serve(h, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
