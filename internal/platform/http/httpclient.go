// Package http holds shared outbound HTTP plumbing.
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole outbound request when the caller passes zero.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns a client for third-party APIs such as Mailgun.
// http.DefaultClient has no timeout, so outbound calls always go through here.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
