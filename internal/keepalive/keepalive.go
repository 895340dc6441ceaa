// Package keepalive periodically pings the service's own public URL so that
// free-tier hosts do not idle the process out.
package keepalive

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultInterval = 14 * time.Minute

// Pinger issues a GET against a fixed URL on a fixed interval until its
// context is cancelled.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *logrus.Logger
}

func NewPinger(url string, logger *logrus.Logger) *Pinger {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pinger{
		url:      url,
		interval: defaultInterval,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Start runs the ping loop in a goroutine. It is a no-op when no URL is
// configured.
func (p *Pinger) Start(ctx context.Context) {
	if p.url == "" {
		return
	}

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.ping(ctx)
			}
		}
	}()
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warnf("keepalive request: %v", err)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warnf("keepalive ping %s: %v", p.url, err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warnf("keepalive ping %s: status %d", p.url, resp.StatusCode)
		return
	}
	p.logger.Debugf("keepalive ping %s ok", p.url)
}
