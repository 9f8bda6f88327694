package net

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service collectors advertise.
const ServiceType = "_canvastream._tcp"

// Collector is an ingestion endpoint found on the local network.
type Collector struct {
	Name string
	Addr string
	Info []string
}

// ErrNoCollector is returned by Resolve when the lookup finds nothing.
var ErrNoCollector = errors.New("no collector found")

// Browse lists collectors answering within timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]Collector, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var found []Collector
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if c, ok := collectorFrom(e); ok {
				found = append(found, c)
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns lookup: %w", err)
	}
	return found, nil
}

// Resolve returns the address of the first collector found.
func Resolve(ctx context.Context, timeout time.Duration) (string, error) {
	found, err := Browse(ctx, timeout)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", ErrNoCollector
	}
	return found[0].Addr, nil
}

func collectorFrom(e *mdns.ServiceEntry) (Collector, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Collector{}, false
	}
	return Collector{
		Name: e.Name,
		Addr: fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port),
		Info: e.InfoFields,
	}, true
}
