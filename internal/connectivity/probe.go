package connectivity

import (
	"context"
	"net/http"
	"time"
)

// Prober feeds a Monitor by periodically checking whether the API base URL
// answers at all. It stands in for a platform connectivity primitive; the
// monitor itself stays purely event-driven.
type Prober struct {
	monitor  *Monitor
	endpoint string
	interval time.Duration
	client   *http.Client
}

func NewProber(monitor *Monitor, endpoint string, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Prober{
		monitor:  monitor,
		endpoint: endpoint,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Check probes once and pushes the result into the monitor.
func (p *Prober) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, nil)
	if err != nil {
		p.monitor.Set(false)
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.monitor.Set(false)
		return false
	}
	resp.Body.Close()
	p.monitor.Set(true)
	return true
}

// Run probes until the context is cancelled.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
