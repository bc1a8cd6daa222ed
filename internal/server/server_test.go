package server_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satchart/internal/cache"
	"satchart/internal/observability"
	"satchart/internal/server"
	"satchart/internal/service"
)

func newTestServer(t *testing.T, c cache.Cache, limit func(http.Handler) http.Handler) *httptest.Server {
	t.Helper()
	srv := server.New(30 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{
		Charts: service.NewChartService(t.TempDir()),
		Cache:  c,
		TTL:    time.Minute,
	}, limit)
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, hdr map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthAndVariants(t *testing.T) {
	ts := newTestServer(t, cache.Noop{}, server.RateLimit(100, 100))

	resp, body := get(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = get(t, ts.URL+"/v1/variants", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vs []struct {
		Name    string `json:"name"`
		Palette string `json:"palette"`
		OutFile string `json:"out_file"`
	}
	require.NoError(t, json.Unmarshal(body, &vs))
	require.Len(t, vs, 7)
	assert.Equal(t, "crest", vs[0].Name)
	assert.Equal(t, "chart.png", vs[0].OutFile)
}

func TestChartIsCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { rc.Close() })
	ts := newTestServer(t, rc, server.RateLimit(100, 100))

	resp, first := get(t, ts.URL+"/v1/charts/crest", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	cfg, err := png.DecodeConfig(bytes.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
	assert.True(t, mr.Exists("satchart:v1:crest:2025:en:png"))

	resp, second := get(t, ts.URL+"/v1/charts/crest", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	assert.Equal(t, first, second)

	resp, _ = get(t, ts.URL+"/v1/charts/crest", map[string]string{"If-None-Match": resp.Header.Get("ETag")})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

func TestChartFormatsAndLanguages(t *testing.T) {
	ts := newTestServer(t, cache.Noop{}, server.RateLimit(100, 100))

	resp, body := get(t, ts.URL+"/v1/charts/pastel?format=pdf&lang=ru", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	resp, _ = get(t, ts.URL+"/v1/charts/viridis?seed=11", map[string]string{"Accept-Language": "ru-RU,ru;q=0.9"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChartErrors(t *testing.T) {
	ts := newTestServer(t, cache.Noop{}, server.RateLimit(100, 100))

	cases := map[string]int{
		"/v1/charts/rainbow":          http.StatusNotFound,
		"/v1/charts/crest?format=gif": http.StatusBadRequest,
		"/v1/charts/crest?seed=abc":   http.StatusBadRequest,
		"/v1/charts/crest?seed=0":     http.StatusBadRequest,
		"/v1/charts/crest?lang=de":    http.StatusBadRequest,
	}
	for path, want := range cases {
		resp, body := get(t, ts.URL+path, nil)
		assert.Equal(t, want, resp.StatusCode, path)
		assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"), path)

		var p struct {
			Status int `json:"status"`
		}
		require.NoError(t, json.Unmarshal(body, &p), path)
		assert.Equal(t, want, p.Status, path)
	}
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, cache.Noop{}, server.RateLimit(0.001, 1))

	resp, _ := get(t, ts.URL+"/v1/charts/rainbow", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/v1/charts/crest", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// лимит не касается служебных маршрутов
	resp, _ = get(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, cache.Noop{}, server.RateLimit(100, 100))
	get(t, ts.URL+"/healthz", nil)

	resp, body := get(t, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "satchart_http_requests_total")
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(server.Logger(zerolog.New(&buf)))
	r.Get("/v1/ping/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/v1/ping/7", nil)
	req.Header.Set("User-Agent", "satchart-test/1.0")
	req.Header.Set("X-Forwarded-For", "10.1.2.3, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http_request", entry["message"])
	assert.Equal(t, "/v1/ping/{id}", entry["route"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "satchart-test/1.0", entry["ua"])
	assert.Equal(t, "10.1.2.3", entry["remote"])
	assert.NotEmpty(t, entry["request_id"])
}
