package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canvastream/internal/config"
	"canvastream/internal/logging"
	cnet "canvastream/internal/net"
	"canvastream/internal/sink"
)

const discoverTimeout = 3 * time.Second

// pipeline is the sink side of a running board.
type pipeline struct {
	batcher   *sink.Batcher
	transport sink.Transport
	spool     *sink.Spool
}

func openPipeline(ctx context.Context, cfg config.SinkConfig) (*pipeline, error) {
	t, err := openTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p := &pipeline{transport: t}

	policy, err := sink.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	opts := sink.Options{
		MaxRecords: cfg.Batch.MaxRecords,
		MaxBytes:   cfg.Batch.MaxBytes,
		Interval:   cfg.Batch.Interval,
		Policy:     policy,
	}
	if policy == sink.PolicySpool {
		if p.spool, err = sink.OpenSpool(cfg.SpoolDir); err != nil {
			t.Close()
			return nil, err
		}
		opts.Spool = p.spool
	}
	if cfg.BackupDir != "" {
		backup, err := sink.NewFileTransport(cfg.BackupDir)
		if err != nil {
			p.Close()
			return nil, err
		}
		opts.Backup = backup
	}

	if p.batcher, err = sink.NewBatcher(t, opts); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func openTransport(ctx context.Context, cfg config.SinkConfig) (sink.Transport, error) {
	origin := cnet.Origin()
	switch cfg.Transport {
	case config.TransportConsole:
		return sink.NewConsoleTransport(), nil
	case config.TransportFile:
		return sink.NewFileTransport(cfg.Address)
	case config.TransportWS:
		return cnet.NewWSTransport(cfg.Address, origin), nil
	case config.TransportTCP:
		addr := cfg.Address
		if addr == "" {
			found, err := cnet.Resolve(ctx, discoverTimeout)
			if err != nil {
				return nil, fmt.Errorf("discover collector: %w", err)
			}
			logging.NewLogger("main").WithField("addr", found).Info("using discovered collector")
			addr = found
		}
		return cnet.NewTCPTransport(addr, origin), nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}

// Close flushes the batcher, which closes the transports, then the spool.
func (p *pipeline) Close() error {
	var errs []error
	if p.batcher != nil {
		errs = append(errs, p.batcher.Close())
	} else {
		errs = append(errs, p.transport.Close())
	}
	if p.spool != nil {
		errs = append(errs, p.spool.Close())
	}
	return errors.Join(errs...)
}
