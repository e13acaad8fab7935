package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// ErrorKind is the transport-level failure category. Classify is the only
// place where Go errors are mapped onto it.
type ErrorKind int

const (
	ErrOther ErrorKind = iota
	ErrDNS
	ErrTimeout
	ErrTLS
	ErrNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case ErrDNS:
		return "dns"
	case ErrTimeout:
		return "timeout"
	case ErrTLS:
		return "tls"
	case ErrNetwork:
		return "network"
	}
	return "other"
}

// Classify inspects the typed error chain. Order matters: a DNS lookup that
// timed out is still a DNS failure.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrOther
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrDNS
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}

	if isTLS(err) {
		return ErrTLS
	}

	var opErr *net.OpError
	var addrErr *net.AddrError
	var errno syscall.Errno
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &addrErr),
		errors.As(err, &errno),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed):
		return ErrNetwork
	}
	return ErrOther
}

// isTLS also treats http.ErrSchemeMismatch as a handshake failure: the client
// swaps the RecordHeaderError for that sentinel when a plaintext server
// answers an https request.
func isTLS(err error) bool {
	if errors.Is(err, http.ErrSchemeMismatch) {
		return true
	}
	var (
		recErr      tls.RecordHeaderError
		alertErr    tls.AlertError
		verifyErr   *tls.CertificateVerificationError
		authErr     x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		systemRoots x509.SystemRootsError
	)
	return errors.As(err, &recErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &systemRoots)
}

// FromError turns a failed request into an Outcome. timeout is only used to
// phrase the timeout detail.
func FromError(err error, timeout time.Duration) domain.Outcome {
	switch Classify(err) {
	case ErrDNS:
		return domain.Unreachable(domain.ReasonDNS, 0, errDetail(err))
	case ErrTimeout:
		return domain.Unreachable(domain.ReasonTimeout, 0, fmt.Sprintf("no response within %s", timeout))
	case ErrTLS:
		return domain.Unreachable(domain.ReasonTLS, 0, errDetail(err))
	case ErrNetwork:
		return domain.Unreachable(domain.ReasonNetwork, 0, errDetail(err))
	}
	return domain.Malformed(errDetail(err))
}

// FromStatus classifies a received response.
func FromStatus(code int, status string) domain.Outcome {
	if code >= 200 && code < 400 {
		return domain.Reachable(code)
	}
	if status == "" {
		status = fmt.Sprintf("%d", code)
	}
	return domain.Unreachable(domain.ReasonHTTP, code, status)
}

// errDetail drops the "Get \"url\":" prefix added by *url.Error; the target is
// already printed next to every reason.
func errDetail(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		err = ue.Err
	}
	return strings.TrimSpace(err.Error())
}

// Validate is the pre-network well-formedness check.
func Validate(target domain.Target) (*url.URL, error) {
	raw := string(target)
	if !strings.Contains(raw, "://") {
		return nil, errors.New("missing scheme")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}
