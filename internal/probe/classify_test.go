package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func wrap(err error) error {
	return &url.Error{Op: "Get", URL: "https://x.example", Err: err}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"dns not found", wrap(&net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", IsNotFound: true}}), ErrDNS},
		{"dns timeout stays dns", wrap(&net.DNSError{Err: "i/o timeout", IsTimeout: true}), ErrDNS},
		{"deadline", wrap(context.DeadlineExceeded), ErrTimeout},
		{"tls record", wrap(tls.RecordHeaderError{Msg: "first record does not look like a TLS handshake"}), ErrTLS},
		{"tls alert", wrap(tls.AlertError(40)), ErrTLS},
		{"plaintext answer to https", wrap(http.ErrSchemeMismatch), ErrTLS},
		{"unknown authority", wrap(&tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}), ErrTLS},
		{"refused", wrap(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}), ErrNetwork},
		{"reset", wrap(syscall.ECONNRESET), ErrNetwork},
		{"eof", wrap(io.EOF), ErrNetwork},
		{"other", wrap(errors.New("boom")), ErrOther},
		{"nil", nil, ErrOther},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Fatalf("%s: Classify=%v want %v", c.name, got, c.want)
		}
	}
}

func TestFromError_MapsKindsOnce(t *testing.T) {
	cases := []struct {
		err  error
		kind domain.Kind
		why  domain.Reason
	}{
		{wrap(&net.DNSError{Err: "no such host", IsNotFound: true}), domain.KindUnreachable, domain.ReasonDNS},
		{wrap(context.DeadlineExceeded), domain.KindUnreachable, domain.ReasonTimeout},
		{wrap(tls.RecordHeaderError{Msg: "bad"}), domain.KindUnreachable, domain.ReasonTLS},
		{wrap(http.ErrSchemeMismatch), domain.KindUnreachable, domain.ReasonTLS},
		{wrap(syscall.ECONNREFUSED), domain.KindUnreachable, domain.ReasonNetwork},
		{wrap(errors.New("boom")), domain.KindMalformed, ""},
	}
	for _, c := range cases {
		a := FromError(c.err, time.Second)
		b := FromError(c.err, time.Second)
		if a != b {
			t.Fatalf("FromError not deterministic: %+v vs %+v", a, b)
		}
		if a.Kind != c.kind || a.Reason != c.why {
			t.Fatalf("FromError(%v)=%+v want %s/%s", c.err, a, c.kind, c.why)
		}
	}
}

func TestFromError_TimeoutDetail(t *testing.T) {
	o := FromError(wrap(context.DeadlineExceeded), 1500*time.Millisecond)
	if o.Detail != "no response within 1.5s" {
		t.Fatalf("unexpected detail %q", o.Detail)
	}
}

func TestFromError_StripsURLPrefix(t *testing.T) {
	o := FromError(wrap(syscall.ECONNREFUSED), time.Second)
	if o.Detail != syscall.ECONNREFUSED.Error() {
		t.Fatalf("want bare errno text, got %q", o.Detail)
	}
}

func TestFromStatus(t *testing.T) {
	cases := []struct {
		code int
		kind domain.Kind
	}{
		{200, domain.KindReachable},
		{204, domain.KindReachable},
		{301, domain.KindReachable},
		{399, domain.KindReachable},
		{199, domain.KindUnreachable},
		{400, domain.KindUnreachable},
		{404, domain.KindUnreachable},
		{503, domain.KindUnreachable},
	}
	for _, c := range cases {
		o := FromStatus(c.code, "")
		if o.Kind != c.kind || o.StatusCode != c.code {
			t.Fatalf("FromStatus(%d)=%+v want %s", c.code, o, c.kind)
		}
		if o.Kind == domain.KindUnreachable && o.Reason != domain.ReasonHTTP {
			t.Fatalf("FromStatus(%d) reason=%q want http", c.code, o.Reason)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"https://example.com", true},
		{"HTTP://EXAMPLE.com/x", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"", false},
	}
	for _, c := range cases {
		_, err := Validate(domain.Target(c.in))
		if (err == nil) != c.ok {
			t.Fatalf("Validate(%q) err=%v want ok=%v", c.in, err, c.ok)
		}
	}
}
