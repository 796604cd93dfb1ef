package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/hello-service/internal/config"
	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/deppfellow/hello-service/internal/handler"
	"github.com/deppfellow/hello-service/internal/router"
	"github.com/deppfellow/hello-service/internal/server"
	"github.com/deppfellow/hello-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestRouter(t *testing.T, lookupURL string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server:  config.ServerConfig{Port: "0", ReadTimeout: 1, WriteTimeout: 1, IdleTimeout: 1},
		Lookup: config.LookupConfig{
			Enabled: lookupURL != "",
			URL:     lookupURL,
			Timeout: 2 * time.Second,
		},
		Rules:         config.RulesConfig{MaxAge: 41},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	srv, err := server.New(cfg, &logger, nil)
	if err != nil {
		t.Fatal(err)
	}

	services, err := service.NewService(srv)
	if err != nil {
		t.Fatal(err)
	}

	return router.NewRouter(srv, handler.NewHandlers(srv, services))
}

func get(e *echo.Echo, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHello_Success(t *testing.T) {
	e := newTestRouter(t, "")

	rec := get(e, "/hello?name=Alice&age=30", http.Header{"X-Request-Id": {"abc123"}})

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "Hello Alice!" {
		t.Errorf("body: got %q", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "abc123" {
		t.Errorf("X-Request-Id: got %q", got)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type: got %q", ct)
	}
}

func TestHello_TooOld(t *testing.T) {
	e := newTestRouter(t, "")

	rec := get(e, "/hello?name=Bob&age=50", nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "too old!" {
		t.Errorf("body: got %q", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a generated X-Request-Id")
	}
}

func TestHello_BoundaryAge(t *testing.T) {
	e := newTestRouter(t, "")

	if rec := get(e, "/hello?name=Ann&age=41", nil); rec.Code != http.StatusOK {
		t.Errorf("age 41: got %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(e, "/hello?name=Ann&age=42", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("age 42: got %d", rec.Code)
	}
}

func TestHello_InvalidQuery(t *testing.T) {
	e := newTestRouter(t, "")

	tests := []struct {
		name   string
		target string
		line   string
	}{
		{name: "missing name", target: "/hello?age=30", line: "name: is required"},
		{name: "bad age", target: "/hello?name=Alice&age=abc", line: "age: must be an integer"},
		{name: "unknown key", target: "/hello?name=Alice&age=30&x=1", line: "x: is not an allowed parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(e, tt.target, http.Header{"X-Request-Id": {"q-1"}})

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.HasPrefix(body, "Invalid query parameters:") {
				t.Errorf("body: got %q", body)
			}
			if !strings.Contains(body, tt.line) {
				t.Errorf("body %q should contain %q", body, tt.line)
			}
			if got := rec.Header().Get("X-Request-Id"); got != "q-1" {
				t.Errorf("X-Request-Id: got %q", got)
			}
		})
	}
}

func TestHello_EmptyRequestIDHeader(t *testing.T) {
	e := newTestRouter(t, "")

	rec := get(e, "/hello?name=Alice&age=30", http.Header{"X-Request-Id": {""}})
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("empty header should get a generated id")
	}
}

func TestHello_UniqueGeneratedIDs(t *testing.T) {
	e := newTestRouter(t, "")

	first := get(e, "/hello?name=Alice&age=30", nil).Header().Get("X-Request-Id")
	second := get(e, "/hello?name=Alice&age=30", nil).Header().Get("X-Request-Id")

	if first == "" || second == "" || first == second {
		t.Errorf("expected two distinct ids, got %q and %q", first, second)
	}
}

func TestHello_WithLookup(t *testing.T) {
	var forwarded string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":1,"id":1,"title":"delectus aut autem","completed":false}`))
	}))
	defer downstream.Close()

	e := newTestRouter(t, downstream.URL)
	rec := get(e, "/hello?name=Alice&age=30", http.Header{"X-Request-Id": {"abc123"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body %q", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "Hello Alice, title: delectus aut autem!" {
		t.Errorf("body: got %q", got)
	}
	if forwarded != "abc123" {
		t.Errorf("downstream X-Request-Id: got %q", forwarded)
	}
}

func TestHello_LookupSkippedWhenTooOld(t *testing.T) {
	called := false
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"title":"t"}`))
	}))
	defer downstream.Close()

	e := newTestRouter(t, downstream.URL)
	rec := get(e, "/hello?name=Bob&age=50", nil)

	if rec.Body.String() != "too old!" {
		t.Errorf("body: got %q", rec.Body.String())
	}
	if called {
		t.Error("downstream must not be called after a rule failure")
	}
}

func TestHello_LookupUnreachable(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := downstream.URL
	downstream.Close()

	e := newTestRouter(t, url)
	rec := get(e, "/hello?name=Alice&age=30", http.Header{"X-Request-Id": {"abc123"}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected the transport error text as body")
	}
	if got := rec.Header().Get("X-Request-Id"); got != "abc123" {
		t.Errorf("X-Request-Id: got %q", got)
	}
}

func TestHello_LookupBadBody(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	}))
	defer downstream.Close()

	e := newTestRouter(t, downstream.URL)
	rec := get(e, "/hello?name=Alice&age=30", nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "Could not parse response body:\ntitle: is required" {
		t.Errorf("body: got %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t, "")

	rec := get(e, "/nope", http.Header{"X-Request-Id": {"r-404"}})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "r-404" {
		t.Errorf("X-Request-Id: got %q", got)
	}

	var body errs.HTTPError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "NOT_FOUND" || body.Message != "Route not found" {
		t.Errorf("body: got %+v", body)
	}
}

func TestWrongMethod(t *testing.T) {
	e := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/hello?name=Alice&age=30", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id on 405")
	}
}

func TestPanicRecovered(t *testing.T) {
	e := newTestRouter(t, "")
	e.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})

	rec := get(e, "/panic", http.Header{"X-Request-Id": {"r-500"}})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "r-500" {
		t.Errorf("X-Request-Id: got %q", got)
	}

	var body errs.HTTPError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "INTERNAL_SERVER_ERROR" || strings.Contains(body.Message, "boom") {
		t.Errorf("body: got %+v", body)
	}
}
