package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const (
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	// PlainUserAgent is sent by the re-verification pass.
	PlainUserAgent = "Mozilla/5.0"
	maxRedirects   = 10
)

// HTTPChecker issues one GET per target with certificate verification off
// and keep-alives disabled.
type HTTPChecker struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client:    newClient(newTransport(timeout), timeout),
		Timeout:   timeout,
		UserAgent: BrowserUserAgent,
	}
}

// NewProxiedHTTPChecker routes probes through an upstream proxy. Supported
// schemes: http, https, socks5, socks5h.
func NewProxiedHTTPChecker(timeout time.Duration, rawProxy string) (*HTTPChecker, error) {
	if rawProxy == "" {
		return NewHTTPChecker(timeout), nil
	}
	u, err := url.Parse(rawProxy)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}

	tr := newTransport(timeout)
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		tr.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("socks5 dialer: %w", err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("socks5 dialer does not support contexts")
		}
		tr.DialContext = cd.DialContext
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}

	return &HTTPChecker{
		Client:    newClient(tr, timeout),
		Timeout:   timeout,
		UserAgent: BrowserUserAgent,
	}, nil
}

func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // reachability only
		TLSHandshakeTimeout: timeout,
		DisableKeepAlives:   true,
		ForceAttemptHTTP2:   true,
	}
}

func newClient(tr http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target domain.Target) domain.Outcome {
	u, err := Validate(target)
	if err != nil {
		return domain.Malformed(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Malformed(err.Error())
	}
	req.Header.Set("User-Agent", h.UserAgent)
	req.Header.Set("Connection", "close")
	req.Close = true

	resp, err := h.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return FromError(err, h.Timeout).WithLatency(latency)
	}
	defer resp.Body.Close()

	return FromStatus(resp.StatusCode, resp.Status).WithLatency(latency)
}
