package domain

import (
	"fmt"
	"time"
)

// Target is a normalized URL: always scheme-prefixed and unique within a run.
type Target string

func (t Target) String() string { return string(t) }

type Kind string

const (
	KindReachable   Kind = "reachable"
	KindUnreachable Kind = "unreachable"
	KindMalformed   Kind = "malformed"
)

// Reason narrows an Unreachable outcome.
type Reason string

const (
	ReasonHTTP    Reason = "http"
	ReasonDNS     Reason = "dns"
	ReasonTimeout Reason = "timeout"
	ReasonTLS     Reason = "tls"
	ReasonNetwork Reason = "network"
)

// Outcome is the classified result of probing one Target.
//
// Fields:
//   - StatusCode: HTTP status when a response arrived; 0 for transport errors.
//   - Reason: set only for KindUnreachable.
//   - Detail: human-readable error text, empty for reachable targets.
type Outcome struct {
	Kind       Kind          `json:"kind"`
	StatusCode int           `json:"status_code,omitempty"`
	Reason     Reason        `json:"reason,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	Latency    time.Duration `json:"latency_ns,omitempty"`
}

func Reachable(status int) Outcome {
	return Outcome{Kind: KindReachable, StatusCode: status}
}

func Unreachable(reason Reason, status int, detail string) Outcome {
	return Outcome{Kind: KindUnreachable, Reason: reason, StatusCode: status, Detail: detail}
}

func Malformed(detail string) Outcome {
	return Outcome{Kind: KindMalformed, Detail: detail}
}

// WithLatency returns a copy of o carrying the measured latency.
func (o Outcome) WithLatency(d time.Duration) Outcome {
	o.Latency = d
	return o
}

// String is the per-target reason string every report format prints verbatim.
func (o Outcome) String() string {
	switch o.Kind {
	case KindReachable:
		return fmt.Sprintf("HTTP %d", o.StatusCode)
	case KindUnreachable:
		if o.Reason == ReasonHTTP {
			return fmt.Sprintf("HTTP %d", o.StatusCode)
		}
		if o.Detail == "" {
			return string(o.Reason)
		}
		return fmt.Sprintf("%s: %s", o.Reason, o.Detail)
	case KindMalformed:
		if o.Detail == "" {
			return "malformed"
		}
		return o.Detail
	}
	return "unknown"
}

// Result pairs a Target with its Outcome. Index is the target's first-seen
// position in the deduplicated input.
type Result struct {
	Target    Target    `json:"url"`
	Index     int       `json:"index"`
	Outcome   Outcome   `json:"outcome"`
	CheckedAt time.Time `json:"checked_at"`
}
