// Package netx decides whether the remote service is worth talking to.
// The answer combines a cheap local check (is any non-loopback interface up)
// with a bounded health probe against the server.
package netx

import (
	"context"
	"net"
	"sync"
	"time"
)

// Pinger probes the remote service. A nil error means reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// netInterfaces is a seam for tests.
var netInterfaces = net.Interfaces

// Oracle answers "are we online?". It never fails a caller: any doubt is
// reported as offline and the caller falls back to the local store.
type Oracle struct {
	pinger  Pinger
	timeout time.Duration

	mu     sync.RWMutex
	online bool
}

// NewOracle builds an oracle over pinger. timeout bounds each probe.
func NewOracle(pinger Pinger, timeout time.Duration) *Oracle {
	return &Oracle{pinger: pinger, timeout: timeout}
}

// LinkUp reports whether any non-loopback interface is up. A down link means
// the health probe cannot succeed, so Check skips it entirely.
func LinkUp() bool {
	ifaces, err := netInterfaces()
	if err != nil {
		// Cannot enumerate interfaces; let the probe decide.
		return true
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp != 0 {
			return true
		}
	}
	return false
}

// Check performs one fresh online determination and records the result.
func (o *Oracle) Check(ctx context.Context) bool {
	online := o.probe(ctx)
	o.mu.Lock()
	o.online = online
	o.mu.Unlock()
	return online
}

func (o *Oracle) probe(ctx context.Context) bool {
	if !LinkUp() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.pinger.Ping(ctx) == nil
}

// Online returns the last recorded determination without probing.
func (o *Oracle) Online() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.online
}

// Watch probes every interval and invokes onChange on each transition with
// the new state. The first probe fires immediately. Watch blocks until ctx
// is done, so run it in its own goroutine.
func (o *Oracle) Watch(ctx context.Context, interval time.Duration, onChange func(online bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := o.Check(ctx)
	if onChange != nil {
		onChange(prev)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := o.Check(ctx)
			if cur != prev {
				prev = cur
				if onChange != nil {
					onChange(cur)
				}
			}
		}
	}
}
