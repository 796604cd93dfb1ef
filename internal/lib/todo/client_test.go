package todo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/hello-service/internal/config"
	"github.com/deppfellow/hello-service/internal/errs"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	logger := zerolog.Nop()
	return NewClient(config.LookupConfig{Enabled: true, URL: url, Timeout: 2 * time.Second}, &logger)
}

func TestFetch(t *testing.T) {
	var gotID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":1,"id":1,"title":"delectus aut autem","completed":false}`))
	}))
	defer ts.Close()

	todo, err := newTestClient(t, ts.URL).Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if todo.Title != "delectus aut autem" {
		t.Errorf("title: got %q", todo.Title)
	}
	if gotID != "abc123" {
		t.Errorf("forwarded X-Request-Id: got %q", gotID)
	}
}

func TestFetch_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Fetch(context.Background(), "r")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if errs.KindOf(err) != errs.KindTransport {
		t.Errorf("kind: got %q", errs.KindOf(err))
	}
	if err.Error() != "Request failed with status code 404" {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestFetch_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newTestClient(t, url).Fetch(context.Background(), "r")
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if errs.KindOf(err) != errs.KindTransport {
		t.Errorf("kind: got %q", errs.KindOf(err))
	}
	if err.Error() == "" {
		t.Error("transport message must not be empty")
	}
}

func TestFetch_Cancelled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, ts.URL).Fetch(ctx, "r")
	if errs.KindOf(err) != errs.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestFetch_BadBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Fetch(context.Background(), "r")
	if errs.KindOf(err) != errs.KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDecodeTodo(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `<html>`, want: "body: is not valid JSON"},
		{name: "array", body: `[1,2]`, want: "body: must be a JSON object"},
		{name: "null", body: `null`, want: "body: must be a JSON object"},
		{name: "missing title", body: `{"id":1}`, want: "title: is required"},
		{name: "null title", body: `{"title":null}`, want: "title: is required"},
		{name: "numeric title", body: `{"title":42}`, want: "title: must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTodo([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if errs.KindOf(err) != errs.KindDecode {
				t.Errorf("kind: got %q", errs.KindOf(err))
			}
			if !strings.HasPrefix(err.Error(), "Could not parse response body:\n") {
				t.Errorf("prefix: got %q", err.Error())
			}
			if !strings.HasSuffix(err.Error(), tt.want) {
				t.Errorf("got %q, want line %q", err.Error(), tt.want)
			}
		})
	}
}

func TestDecodeTodo_EmptyTitle(t *testing.T) {
	todo, err := DecodeTodo([]byte(`{"title":""}`))
	if err != nil {
		t.Fatal(err)
	}
	if todo.Title != "" {
		t.Errorf("title: got %q", todo.Title)
	}
}
