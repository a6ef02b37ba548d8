package router

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nafijninja/genx/internal/adapters/http/handler"
	"github.com/nafijninja/genx/internal/adapters/http/middleware"
	"github.com/nafijninja/genx/internal/domain"
	"github.com/nafijninja/genx/internal/infrastructure/magicstudio"
	"github.com/nafijninja/genx/internal/usecase"
	"github.com/nafijninja/genx/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() domain.LoggingRepository {
	return logger.New(io.Discard, slog.LevelInfo)
}

func staticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>genx</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('genx')"), 0o600))
	return dir
}

type upstream struct {
	srv    *httptest.Server
	calls  atomic.Int32
	status int
	body   []byte
}

func newUpstream(t *testing.T, status int, body []byte) *upstream {
	t.Helper()
	u := &upstream{status: status, body: body}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		w.WriteHeader(u.status)
		_, _ = w.Write(u.body)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func directRouter(t *testing.T, up *upstream) *gin.Engine {
	t.Helper()
	log := testLogger()
	client := magicstudio.NewClient(up.srv.URL, 5*time.Second, log)
	svc := usecase.NewDirectGenerationService(client, log)
	return SetupRoutes(RouterConfig{
		Service:        "directapi",
		DirectHandler:  handler.NewDirectHandler(svc, log),
		Logger:         log,
		StaticDir:      staticDir(t),
		MaxAllowedSize: 1 << 10,
	})
}

func do(g http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestDirectGenerate_Success(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	up := newUpstream(t, http.StatusOK, payload)
	g := directRouter(t, up)

	w := do(g, http.MethodPost, "/generate", "application/json", `{"prompt": "a red fox"}`)

	require.Equal(t, http.StatusOK, w.Code)
	want := `{"prompt":"a red fox","image":"data:image/jpeg;base64,` + base64.StdEncoding.EncodeToString(payload) + `"}`
	assert.JSONEq(t, want, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestDirectGenerate_InvalidPrompt(t *testing.T) {
	cases := map[string]struct {
		contentType string
		body        string
	}{
		"empty":         {"application/json", `{"prompt": ""}`},
		"whitespace":    {"application/json", `{"prompt": "   \t"}`},
		"missing":       {"application/json", `{}`},
		"number":        {"application/json", `{"prompt": 42}`},
		"array":         {"application/json", `{"prompt": ["a"]}`},
		"null":          {"application/json", `{"prompt": null}`},
		"malformed":     {"application/json", `{"prompt": `},
		"no body":       {"application/json", ``},
		"not json":      {"text/plain", `a red fox`},
		"no type":       {"", `{"prompt": "a red fox"}`},
		"charset json":  {"application/json; charset=utf-8", `{"prompt": " "}`},
		"trailing data": {"application/json", `{"prompt":"a red fox"} not-json`},
		"two values":    {"application/json", `{"prompt":"a red fox"}{"prompt":"a cat"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			up := newUpstream(t, http.StatusOK, []byte("img"))
			g := directRouter(t, up)

			w := do(g, http.MethodPost, "/generate", tc.contentType, tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Missing or invalid prompt"}`, w.Body.String())
			assert.Zero(t, up.calls.Load())
		})
	}
}

func TestDirectGenerate_TrailingWhitespaceAccepted(t *testing.T) {
	up := newUpstream(t, http.StatusOK, []byte("img"))
	g := directRouter(t, up)

	w := do(g, http.MethodPost, "/generate", "application/json", "{\"prompt\":\"a red fox\"}\n  \n")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, up.calls.Load())
}

func TestDirectGenerate_BodyTooLarge(t *testing.T) {
	up := newUpstream(t, http.StatusOK, []byte("img"))
	g := directRouter(t, up)

	body := `{"prompt": "` + strings.Repeat("a", 2048) + `"}`
	w := do(g, http.MethodPost, "/generate", "application/json", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, up.calls.Load())
}

func TestDirectGenerate_UpstreamFailure(t *testing.T) {
	up := newUpstream(t, http.StatusInternalServerError, []byte("oops"))
	g := directRouter(t, up)

	w := do(g, http.MethodPost, "/generate", "application/json", `{"prompt": "a red fox"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Image generation failed", body["error"])
	assert.Equal(t, "MagicStudio API error: 500", body["details"])
	assert.NotContains(t, body, "image")
}

func TestDirectRoutes_NoBrowserEndpoints(t *testing.T) {
	g := directRouter(t, newUpstream(t, http.StatusOK, nil))

	w := do(g, http.MethodGet, "/refresh", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubBrowser struct {
	generate func(req domain.GenerationRequest) (*domain.GenerationResult, error)
	refresh  func() (*domain.GenerationResult, error)
}

func (s *stubBrowser) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	return s.generate(req)
}

func (s *stubBrowser) Refresh(ctx context.Context) (*domain.GenerationResult, error) {
	return s.refresh()
}

func browserRouter(t *testing.T, svc domain.BrowserGenerator, active bool) *gin.Engine {
	t.Helper()
	log := testLogger()
	return SetupRoutes(RouterConfig{
		Service:        "browser",
		BrowserHandler: handler.NewBrowserHandler(svc, log),
		SessionActive:  func() bool { return active },
		Logger:         log,
		StaticDir:      staticDir(t),
		MaxAllowedSize: 1 << 10,
	})
}

func TestBrowserGenerate_Success(t *testing.T) {
	svc := &stubBrowser{generate: func(req domain.GenerationRequest) (*domain.GenerationResult, error) {
		return &domain.GenerationResult{Prompt: req.Trimmed(), Images: []string{"https://cdn.example.com/1.jpg", "data:image/png;base64,AA"}}, nil
	}}
	g := browserRouter(t, svc, true)

	w := do(g, http.MethodPost, "/generate", "application/json", `{"prompt":"a red fox"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prompt":"a red fox","images":["https://cdn.example.com/1.jpg","data:image/png;base64,AA"]}`, w.Body.String())
}

func TestBrowserGenerate_InvalidPrompt(t *testing.T) {
	svc := &stubBrowser{generate: func(req domain.GenerationRequest) (*domain.GenerationResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	g := browserRouter(t, svc, false)

	w := do(g, http.MethodPost, "/generate", "application/json", `{"prompt":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing or invalid prompt"}`, w.Body.String())
}

func TestBrowserGenerate_Failures(t *testing.T) {
	cases := map[string]struct {
		err     error
		status  int
		message string
	}{
		"session init": {domain.NewDomainError(domain.ErrCodeSessionInit, "failed to open target page", nil), http.StatusInternalServerError, "Failed to generate images"},
		"no element":   {domain.NewDomainError(domain.ErrCodeElementNotFound, "prompt input not found", nil), http.StatusInternalServerError, "Failed to generate images"},
		"no images":    {domain.NewDomainError(domain.ErrCodeNoImagesProduced, "no images found on the page", nil), http.StatusInternalServerError, "Failed to generate images"},
		"canceled":     {context.Canceled, http.StatusInternalServerError, "Failed to generate images"},
		"busy":         {domain.ErrBrowserBusy, http.StatusServiceUnavailable, domain.ErrBrowserBusy.Message},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubBrowser{generate: func(req domain.GenerationRequest) (*domain.GenerationResult, error) { return nil, tc.err }}
			g := browserRouter(t, svc, true)

			w := do(g, http.MethodPost, "/generate", "application/json", `{"prompt":"a red fox"}`)

			require.Equal(t, tc.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body["error"])
			assert.NotContains(t, body, "images")
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, tc.err.Error(), body["details"])
			}
		})
	}
}

func TestBrowserRefresh(t *testing.T) {
	svc := &stubBrowser{refresh: func() (*domain.GenerationResult, error) {
		return &domain.GenerationResult{Prompt: "", Images: []string{"https://cdn.example.com/2.jpg"}}, nil
	}}
	g := browserRouter(t, svc, true)

	w := do(g, http.MethodGet, "/refresh", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prompt":"","images":["https://cdn.example.com/2.jpg"]}`, w.Body.String())
}

func TestBrowserRefresh_Failure(t *testing.T) {
	svc := &stubBrowser{refresh: func() (*domain.GenerationResult, error) {
		return nil, domain.NewDomainError(domain.ErrCodeElementNotFound, "refresh button not found", nil)
	}}
	g := browserRouter(t, svc, true)

	w := do(g, http.MethodGet, "/refresh", "", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to refresh images","details":"refresh button not found"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	g := browserRouter(t, &stubBrowser{}, true)

	w := do(g, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "browser", body["service"])
	assert.Equal(t, "active", body["browser_session"])
}

func TestSwaggerDocument(t *testing.T) {
	g := browserRouter(t, &stubBrowser{}, false)

	w := do(g, http.MethodGet, "/swagger/doc.json", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "genx image generation API", doc.Info["title"])
	assert.Contains(t, doc.Paths["/generate"], "post")
	assert.Contains(t, doc.Paths["/refresh"], "get")
	assert.Contains(t, doc.Paths["/health"], "get")
}

func TestStaticFrontend(t *testing.T) {
	g := browserRouter(t, &stubBrowser{}, false)

	w := do(g, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>genx</h1>")

	w = do(g, http.MethodGet, "/app.js", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = do(g, http.MethodGet, "/missing.css", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(g, http.MethodDelete, "/anything", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	g := browserRouter(t, &stubBrowser{}, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
}

func TestRateLimiter(t *testing.T) {
	log := testLogger()
	svc := &stubBrowser{refresh: func() (*domain.GenerationResult, error) {
		return &domain.GenerationResult{Images: []string{"https://cdn.example.com/2.jpg"}}, nil
	}}
	g := SetupRoutes(RouterConfig{
		Service:           "browser",
		BrowserHandler:    handler.NewBrowserHandler(svc, log),
		Logger:            log,
		StaticDir:         staticDir(t),
		MaxAllowedSize:    1 << 10,
		IpRateLimiter:     middleware.NewIpLimiter(),
		RateLimitCapacity: 1,
		RateLimitFillRate: 0,
	})

	assert.Equal(t, http.StatusOK, do(g, http.MethodGet, "/refresh", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(g, http.MethodGet, "/refresh", "", "").Code)
	assert.Equal(t, http.StatusOK, do(g, http.MethodGet, "/health", "", "").Code)
}

func TestPanicRecovery(t *testing.T) {
	svc := &stubBrowser{refresh: func() (*domain.GenerationResult, error) { panic("page vanished") }}
	g := browserRouter(t, svc, true)

	w := do(g, http.MethodGet, "/refresh", "", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","details":"page vanished"}`, w.Body.String())
}
