package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNSClass is the resolver diagnosis attached to DNS failures in the
// re-verification pass.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSServFail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

type DNSStatus struct {
	Domain        string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	Class         DNSClass
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// CheckDNS looks up A/AAAA, CNAME and NS records for host. A nil resolver
// uses the OS resolver.
func CheckDNS(ctx context.Context, r *net.Resolver, host string) DNSStatus {
	s := DNSStatus{Domain: strings.TrimSpace(host)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if r == nil {
		r = net.DefaultResolver
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := r.LookupIP(ctx, "ip", s.Domain)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = DNSResolves
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServFail
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, s.Domain); err == nil && !strings.EqualFold(cname, s.Domain+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := r.LookupNS(ctx, s.Domain); err == nil {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		// the zone exists, only the address records are missing
		if len(s.Nameservers) > 0 && s.Class == DNSNXDomain {
			s.Class = DNSNoARecord
		}
	}

	if s.Class == "" {
		switch {
		case len(s.IPs) > 0:
			s.Class = DNSResolves
		case len(s.Nameservers) > 0:
			s.Class = DNSNoARecord
		case s.ResolverError != "":
			s.Class = DNSServFail
		default:
			s.Class = DNSNXDomain
		}
	}
	return s
}
