// Package sink is the delivery side of the recorder: it stamps records,
// groups them into batches and hands the batches to a Transport. What
// happens to a batch the transport refuses is decided by a Policy.
package sink

import (
	"context"
	"fmt"
	"time"

	"canvastream/internal/state"
)

// Transport delivers a batch of stamped samples downstream.
type Transport interface {
	Send(ctx context.Context, batch []state.Sample) error
	Close() error
}

// Policy decides the fate of a batch that could not be delivered.
type Policy string

const (
	// PolicyDrop logs and discards the batch.
	PolicyDrop Policy = "drop"
	// PolicySpool keeps the batch in the spool and retries it, in order,
	// before any newer batch.
	PolicySpool Policy = "spool"
)

// ParsePolicy accepts "drop" and "spool"; empty means drop.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyDrop:
		return PolicyDrop, nil
	case PolicySpool:
		return PolicySpool, nil
	}
	return "", &state.ConfigError{Field: "sink.policy", Reason: fmt.Sprintf("unknown policy %q", s)}
}

// Options tune batching. The defaults follow the ingestion stream's
// buffering hints: a minute or a megabyte, whichever comes first.
type Options struct {
	MaxRecords  int
	MaxBytes    int
	Interval    time.Duration
	SendTimeout time.Duration
	Policy      Policy
	// Spool is required with PolicySpool.
	Spool *Spool
	// Backup, when set, also receives every batch the transport refused.
	Backup Transport
	// Stamper defaults to a fresh session.
	Stamper *state.Stamper
}

const (
	DefaultMaxRecords  = 500
	DefaultMaxBytes    = 1 << 20
	DefaultInterval    = 60 * time.Second
	DefaultSendTimeout = 10 * time.Second
)

func (o *Options) applyDefaults() {
	if o.MaxRecords <= 0 {
		o.MaxRecords = DefaultMaxRecords
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = DefaultSendTimeout
	}
	if o.Policy == "" {
		o.Policy = PolicyDrop
	}
	if o.Stamper == nil {
		o.Stamper = state.NewStamper()
	}
}

// Stats counts samples by outcome.
type Stats struct {
	Emitted   uint64
	Delivered uint64
	Dropped   uint64
	Spooled   uint64
	BackedUp  uint64
}
