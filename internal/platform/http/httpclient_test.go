package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	if got := NewHTTPClient(3 * time.Second).Timeout; got != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", got)
	}
	if got := NewHTTPClient(0).Timeout; got != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", got)
	}
}

func TestNewHTTPClient_AbortsSlowServer(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	resp, err := NewHTTPClient(50 * time.Millisecond).Get(srv.URL)
	if err == nil {
		_ = resp.Body.Close()
		t.Fatal("expected timeout error")
	}
}
