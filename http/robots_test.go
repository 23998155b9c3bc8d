package http_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	lawdochttp "github.com/fwojciec/lawdoc/http"
	"github.com/stretchr/testify/assert"
)

func robotsServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newPolicy(srv *httptest.Server) *lawdochttp.RobotsPolicy {
	return lawdochttp.NewRobotsPolicy(srv.Client(), "lawdoc", slog.New(slog.DiscardHandler))
}

func TestRobotsPolicy_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("applies disallow rules", func(t *testing.T) {
		t.Parallel()

		srv, _ := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private/\n")
		policy := newPolicy(srv)

		assert.False(t, policy.Allowed(context.Background(), srv.URL+"/private/records"))
		assert.True(t, policy.Allowed(context.Background(), srv.URL+"/laws/food"))
	})

	t.Run("applies rules for the crawler's own agent", func(t *testing.T) {
		t.Parallel()

		srv, _ := robotsServer(t, http.StatusOK, "User-agent: lawdoc\nDisallow: /\n\nUser-agent: *\nAllow: /\n")
		policy := newPolicy(srv)

		assert.False(t, policy.Allowed(context.Background(), srv.URL+"/laws"))
	})

	t.Run("allows everything when robots.txt is missing", func(t *testing.T) {
		t.Parallel()

		srv, _ := robotsServer(t, http.StatusNotFound, "")
		policy := newPolicy(srv)

		assert.True(t, policy.Allowed(context.Background(), srv.URL+"/private/records"))
	})

	t.Run("fails open when robots.txt errors", func(t *testing.T) {
		t.Parallel()

		srv, _ := robotsServer(t, http.StatusInternalServerError, "")
		policy := newPolicy(srv)

		assert.True(t, policy.Allowed(context.Background(), srv.URL+"/private/records"))
	})

	t.Run("fails open when the host is unreachable", func(t *testing.T) {
		t.Parallel()

		srv, _ := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /\n")
		url := srv.URL
		srv.Close()

		policy := lawdochttp.NewRobotsPolicy(nil, "lawdoc", slog.New(slog.DiscardHandler))
		assert.True(t, policy.Allowed(context.Background(), url+"/laws"))
	})

	t.Run("fetches robots.txt once per origin", func(t *testing.T) {
		t.Parallel()

		srv, hits := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private/\n")
		policy := newPolicy(srv)

		for range 3 {
			policy.Allowed(context.Background(), srv.URL+"/laws")
		}
		assert.Equal(t, int32(1), hits.Load())
	})
	t.Run("does not stall other origins behind a hung robots.txt", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(hung.Close)
		t.Cleanup(func() { close(release) })
		healthy, _ := robotsServer(t, http.StatusNotFound, "")

		client := &http.Client{Timeout: 500 * time.Millisecond}
		policy := lawdochttp.NewRobotsPolicy(client, "lawdoc", slog.New(slog.DiscardHandler))

		hungDone := make(chan bool, 1)
		go func() { hungDone <- policy.Allowed(context.Background(), hung.URL+"/laws") }()
		time.Sleep(50 * time.Millisecond)

		healthyDone := make(chan bool, 1)
		go func() { healthyDone <- policy.Allowed(context.Background(), healthy.URL+"/laws") }()

		select {
		case allowed := <-healthyDone:
			assert.True(t, allowed)
		case <-time.After(300 * time.Millisecond):
			t.Fatal("healthy origin waited on another origin's robots.txt")
		}

		select {
		case allowed := <-hungDone:
			assert.True(t, allowed, "a timed out robots.txt fails open")
		case <-time.After(3 * time.Second):
			t.Fatal("robots.txt fetch ignored the client timeout")
		}
	})
}
