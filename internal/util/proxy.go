package util

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NewProxyFunc returns the proxy selector for outbound clients. An empty
// proxyURL falls back to the HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment.
func NewProxyFunc(proxyURL string) (func(*http.Request) (*url.URL, error), error) {
	if proxyURL == "" {
		return http.ProxyFromEnvironment, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse proxy url: %q needs a scheme and host", proxyURL)
	}

	return http.ProxyURL(parsed), nil
}

// NewHTTPClient builds the client used for lookup and LLM requests
func NewHTTPClient(timeout time.Duration, proxyURL string) (*http.Client, error) {
	proxy, err := NewProxyFunc(proxyURL)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}, nil
}
