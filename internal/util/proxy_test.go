package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/rest/v1/bccwj", nil)

	proxy, err := NewProxyFunc("http://proxy.local:3128")
	if err != nil {
		t.Fatalf("NewProxyFunc: %v", err)
	}
	got, err := proxy(req)
	if err != nil || got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("proxy(req) = %v, %v", got, err)
	}

	if _, err := NewProxyFunc("proxy.local"); err == nil {
		t.Error("expected error for proxy without scheme")
	}

	if fn, err := NewProxyFunc(""); err != nil || fn == nil {
		t.Error("expected environment fallback for empty proxy")
	}
}

func TestNewHTTPClient(t *testing.T) {
	client, err := NewHTTPClient(5*time.Second, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", client.Timeout)
	}

	redirects := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		redirects++
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	defer srv.Close()

	resp, err := client.Get(srv.URL)
	if err == nil {
		_ = resp.Body.Close()
		t.Fatal("expected redirect loop to be stopped")
	}
	if redirects > 4 {
		t.Errorf("followed %d redirects", redirects)
	}
}
