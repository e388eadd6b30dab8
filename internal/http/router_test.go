package httpapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spamzero-backend/internal/config"
	"github.com/tbourn/spamzero-backend/internal/http/handlers"
	"github.com/tbourn/spamzero-backend/internal/repo"
)

// --- tiny fake classifier to satisfy handlers.PredictService ---
type fakePredict struct{}

func (fakePredict) Ready() error { return nil }

func (fakePredict) Classify(_ context.Context, text string, _ json.RawMessage) (any, error) {
	return map[string]any{"label": "spam", "text": text}, nil
}

// --- test store helper (pure-Go sqlite, no CGO) ---
func newTestStore(t *testing.T) *repo.SQLStore {
	t.Helper()
	st, err := repo.NewSQLStore(filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:  "/api",
		MaxBodyBytes: 1 << 20,
		CORS:         config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:     config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:         config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newRouter(t *testing.T, cfg config.Config, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.Store == nil {
		deps.Store = newTestStore(t)
	}
	r := gin.New()
	RegisterRoutes(r, deps, cfg)
	return r
}

func serve(r http.Handler, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var e handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error envelope: %v (body=%s)", err, w.Body.String())
	}
	return e
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newRouter(t, testConfig(), Deps{Predict: fakePredict{}})

	w := serve(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("GET /health = %d %s", w.Code, w.Body.String())
	}
	// CORS (AllowAllOrigins) → header "*" even without Origin.
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("security headers missing, nosniff=%q", got)
	}

	w = serve(r, http.MethodGet, "/ready", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ready = %d %s", w.Code, w.Body.String())
	}

	// NoRoute → 404 envelope
	w = serve(r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Code != handlers.ErrCodeNotFound || e.RequestID == "" {
		t.Fatalf("unexpected 404 envelope: %+v", e)
	}

	// NoMethod → 405 envelope (PUT /api/history)
	w = serve(r, http.MethodPut, "/api/history", `{}`, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT /api/history expected 405, got %d", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Code != handlers.ErrCodeMethodNotAllowed {
		t.Fatalf("unexpected 405 envelope: %+v", e)
	}

	// /metrics is wired and reports the routed request above.
	w = serve(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "spamzero_http_requests_total") || !strings.Contains(body, `path="/health"`) {
		t.Fatalf("metrics missing http series:\n%.500s", body)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	// httptest requests target host example.com; the listed origin must be a
	// different host or cors treats the request as same-origin.
	cfg.CORS.AllowedOrigins = []string{"http://app.example"}
	r := newRouter(t, cfg, Deps{Predict: fakePredict{}})

	w := serve(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://app.example"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://app.example" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	// Preflight from the listed origin is answered by cors.
	w = serve(r, http.MethodOptions, "/api/history", "", map[string]string{
		"Origin":                        "http://app.example",
		"Access-Control-Request-Method": http.MethodDelete,
	})
	if w.Code >= 300 || w.Header().Get("Access-Control-Allow-Origin") != "http://app.example" {
		t.Fatalf("preflight: code=%d ACAO=%q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	w = serve(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.test"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must not be allowed, got %q", got)
	}
}

func TestRegisterRoutes_HistoryAndPredictUnderAPIPrefix(t *testing.T) {
	r := newRouter(t, testConfig(), Deps{Predict: fakePredict{}})

	w := serve(r, http.MethodPost, "/api/history", `{"text":"win","prediction":"spam"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/history = %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("API responses must be no-store, got %q", got)
	}
	var saved handlers.SaveHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil || saved.ID == "" {
		t.Fatalf("bad save response: %v %s", err, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/history/stats", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"spam":1`) {
		t.Fatalf("GET /api/history/stats = %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodDelete, "/api/history/"+saved.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE /api/history/:id = %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodPost, "/api/predict", `{"message":"hello"}`, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"label":"spam"`) {
		t.Fatalf("POST /api/predict = %d %s", w.Code, w.Body.String())
	}

	// Routes are not mounted at the root.
	if w = serve(r, http.MethodGet, "/history", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /history outside prefix expected 404, got %d", w.Code)
	}
	// Health is outside the no-store group.
	if w = serve(r, http.MethodGet, "/health", "", nil); w.Header().Get("Cache-Control") == "no-store" {
		t.Fatalf("/health should not carry no-store")
	}
}

func TestRegisterRoutes_DefaultPredictFromConfig(t *testing.T) {
	// No Predict dep and no URL configured: the real service reports not configured.
	r := newRouter(t, testConfig(), Deps{})

	w := serve(r, http.MethodPost, "/api/predict", `{"message":"hello"}`, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d %s", w.Code, w.Body.String())
	}
	if e := decodeEnvelope(t, w); e.Code != handlers.ErrCodeNotConfigured {
		t.Fatalf("unexpected envelope: %+v", e)
	}

	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"label":"ham","score":0.99}]`)
	}))
	defer up.Close()

	cfg := testConfig()
	cfg.Predict.URL = up.URL
	r = newRouter(t, cfg, Deps{})
	w = serve(r, http.MethodPost, "/api/predict", `{"message":"hello"}`, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ham"`) {
		t.Fatalf("POST /api/predict via upstream = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_ReadyFailsWhenStoreClosed(t *testing.T) {
	st := newTestStore(t)
	r := newRouter(t, testConfig(), Deps{Store: st, Predict: fakePredict{}})

	if err := st.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	w := serve(r, http.MethodGet, "/ready", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d %s", w.Code, w.Body.String())
	}
	if e := decodeEnvelope(t, w); e.Code != handlers.ErrCodeStoreUnavailable {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestRegisterRoutes_BodyLimit413(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 32
	r := newRouter(t, cfg, Deps{Predict: fakePredict{}})

	big := `{"text":"` + strings.Repeat("a", 64) + `"}`
	w := serve(r, http.MethodPost, "/api/history", big, nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d %s", w.Code, w.Body.String())
	}
	if e := decodeEnvelope(t, w); e.Code != handlers.ErrCodePayloadTooLarge {
		t.Fatalf("unexpected envelope: %+v", e)
	}

	if w = serve(r, http.MethodPost, "/api/history", `{"a":1}`, nil); w.Code != http.StatusCreated {
		t.Fatalf("small body expected 201, got %d", w.Code)
	}
}

func TestRegisterRoutes_GzipNegotiated(t *testing.T) {
	r := newRouter(t, testConfig(), Deps{Predict: fakePredict{}})

	w := serve(r, http.MethodGet, "/api/history", "", map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/history = %d", w.Code)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", got)
	}
	zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gunzip: %v", err)
	}
	if strings.TrimSpace(string(plain)) != "[]" {
		t.Fatalf("expected empty list, got %q", plain)
	}
}

func TestRegisterRoutes_SwaggerToggle(t *testing.T) {
	r := newRouter(t, testConfig(), Deps{Predict: fakePredict{}})
	if w := serve(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger disabled expected 404, got %d", w.Code)
	}

	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r = newRouter(t, cfg, Deps{Predict: fakePredict{}})
	if w := serve(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusOK {
		t.Fatalf("swagger enabled expected 200, got %d", w.Code)
	}
}

func TestPipeline_HSTSOnlyOverHTTPS(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	r := newRouter(t, cfg, Deps{Predict: fakePredict{}})

	if w := serve(r, http.MethodGet, "/health", "", nil); w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain http")
	}
	w := serve(r, http.MethodGet, "/health", "", map[string]string{"X-Forwarded-Proto": "https"})
	if got := w.Header().Get("Strict-Transport-Security"); !strings.HasPrefix(got, "max-age=3600") {
		t.Fatalf("unexpected HSTS header %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	// missing leading slash and trailing slash are normalized
	groupWithPrefix(r, "api/").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := serve(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}
