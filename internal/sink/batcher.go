package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// Batcher is a canvas sink that groups records into batches. A batch is
// sealed when it reaches MaxRecords or MaxBytes and handed to a background
// goroutine, so Emit never waits on the network. Pending records are also
// sent when the interval ticker fires, on Flush and on Close. Batches are
// delivered one at a time in emission order.
type Batcher struct {
	transport Transport
	opts      Options

	// sendMu serializes take+deliver so batches leave in order.
	sendMu sync.Mutex

	mu           sync.Mutex
	sealed       [][]state.Sample
	pending      []state.Sample
	pendingBytes int
	stats        Stats
	closed       bool

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
	log  *logrus.Entry
}

// NewBatcher starts the delivery goroutine. The interval ticker runs only
// when opts.Interval is positive.
func NewBatcher(t Transport, opts Options) (*Batcher, error) {
	if t == nil {
		return nil, &state.ConfigError{Field: "sink.transport", Reason: "missing transport"}
	}
	opts.applyDefaults()
	if opts.Policy == PolicySpool && opts.Spool == nil {
		return nil, &state.ConfigError{Field: "sink.spool_dir", Reason: "spool policy needs a spool"}
	}

	b := &Batcher{
		transport: t,
		opts:      opts,
		kick:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		log:       logging.NewLogger("sink"),
	}
	go b.run(opts.Interval)
	b.log.WithFields(logrus.Fields{
		"session":     opts.Stamper.Session(),
		"max_records": opts.MaxRecords,
		"max_bytes":   opts.MaxBytes,
		"interval":    opts.Interval,
		"policy":      opts.Policy,
	}).Info("sink ready")
	return b, nil
}

// Session is the id stamped on every sample of this batcher.
func (b *Batcher) Session() string { return b.opts.Stamper.Session() }

// Emit stamps rec and queues it without blocking on delivery. It fails only
// after Close; delivery failures are logged and counted in Stats.
func (b *Batcher) Emit(rec state.SampleRecord) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("%w: batcher closed", state.ErrSinkUnavailable)
	}
	s := b.opts.Stamper.Stamp(rec)
	b.pending = append(b.pending, s)
	b.pendingBytes += encodedSize(s)
	b.stats.Emitted++
	full := len(b.pending) >= b.opts.MaxRecords || b.pendingBytes >= b.opts.MaxBytes
	if full {
		b.seal()
	}
	b.mu.Unlock()

	if full {
		select {
		case b.kick <- struct{}{}:
		default:
		}
	}
	return nil
}

// seal must be called with mu held.
func (b *Batcher) seal() {
	if len(b.pending) == 0 {
		return
	}
	b.sealed = append(b.sealed, b.pending)
	b.pending = nil
	b.pendingBytes = 0
}

// Flush sends the sealed batches and whatever is pending, after any
// spooled backlog.
func (b *Batcher) Flush(ctx context.Context) error {
	return b.flushSealed(ctx, true)
}

// flushSealed delivers the sealed batches, plus the pending one when all is set.
func (b *Batcher) flushSealed(ctx context.Context, all bool) error {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	b.mu.Lock()
	if all {
		b.seal()
	}
	batches := b.sealed
	b.sealed = nil
	b.mu.Unlock()

	if len(batches) == 0 {
		return b.deliver(ctx, nil)
	}
	var errs []error
	for _, batch := range batches {
		errs = append(errs, b.deliver(ctx, batch))
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the counters.
func (b *Batcher) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// Close stops the ticker, flushes and closes the transports. Emit fails
// afterwards. The spool is owned by the caller and stays open.
func (b *Batcher) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.stop)
	<-b.done

	ctx, cancel := context.WithTimeout(context.Background(), b.opts.SendTimeout)
	defer cancel()
	errs := []error{b.Flush(ctx), b.transport.Close()}
	if b.opts.Backup != nil {
		errs = append(errs, b.opts.Backup.Close())
	}

	st := b.Stats()
	b.log.WithFields(logrus.Fields{
		"emitted":   st.Emitted,
		"delivered": st.Delivered,
		"dropped":   st.Dropped,
		"spooled":   st.Spooled,
	}).Info("sink closed")
	return errors.Join(errs...)
}

func (b *Batcher) run(interval time.Duration) {
	defer close(b.done)
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-b.kick:
			// deliver already logged each lost batch.
			_ = b.flushSealed(context.Background(), false)
		case <-tick:
			if err := b.Flush(context.Background()); err != nil {
				b.log.WithError(err).Warn("interval flush failed")
			}
		case <-b.stop:
			return
		}
	}
}

// deliver must be called with sendMu held.
func (b *Batcher) deliver(ctx context.Context, batch []state.Sample) error {
	if b.opts.Policy == PolicySpool {
		if err := b.drainSpool(ctx); err != nil {
			// Older batches are still waiting; queue behind them.
			return b.spoolBatch(batch, err)
		}
	}
	if len(batch) == 0 {
		return nil
	}

	err := b.send(ctx, b.transport, batch)
	if err == nil {
		b.count(func(s *Stats) { s.Delivered += uint64(len(batch)) })
		b.log.WithField("samples", len(batch)).Debug("batch delivered")
		return nil
	}
	b.backup(ctx, batch)

	if b.opts.Policy == PolicySpool {
		return b.spoolBatch(batch, err)
	}
	b.count(func(s *Stats) { s.Dropped += uint64(len(batch)) })
	b.log.WithError(err).WithField("samples", len(batch)).Warn("batch dropped")
	return fmt.Errorf("%w: %d samples dropped: %w", state.ErrSinkUnavailable, len(batch), err)
}

func (b *Batcher) send(ctx context.Context, t Transport, batch []state.Sample) error {
	ctx, cancel := context.WithTimeout(ctx, b.opts.SendTimeout)
	defer cancel()
	return t.Send(ctx, batch)
}

func (b *Batcher) drainSpool(ctx context.Context) error {
	n, err := b.opts.Spool.Drain(func(batch []state.Sample) error {
		if err := b.send(ctx, b.transport, batch); err != nil {
			return err
		}
		b.count(func(s *Stats) { s.Delivered += uint64(len(batch)) })
		return nil
	})
	if n > 0 {
		b.log.WithField("batches", n).Info("spooled batches delivered")
	}
	return err
}

func (b *Batcher) spoolBatch(batch []state.Sample, cause error) error {
	if len(batch) == 0 {
		return nil
	}
	if err := b.opts.Spool.Put(batch); err != nil {
		b.count(func(s *Stats) { s.Dropped += uint64(len(batch)) })
		return fmt.Errorf("%w: spool %d samples: %w", state.ErrSinkUnavailable, len(batch), err)
	}
	b.count(func(s *Stats) { s.Spooled += uint64(len(batch)) })
	b.log.WithError(cause).WithField("samples", len(batch)).Warn("batch spooled")
	return nil
}

func (b *Batcher) backup(ctx context.Context, batch []state.Sample) {
	if b.opts.Backup == nil {
		return
	}
	if err := b.send(ctx, b.opts.Backup, batch); err != nil {
		b.log.WithError(err).Error("backup delivery failed")
		return
	}
	b.count(func(s *Stats) { s.BackedUp += uint64(len(batch)) })
}

func (b *Batcher) count(fn func(*Stats)) {
	b.mu.Lock()
	fn(&b.stats)
	b.mu.Unlock()
}

func encodedSize(s state.Sample) int {
	data, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	return len(data) + 1
}
