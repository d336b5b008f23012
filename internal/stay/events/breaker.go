package events

import (
	"context"
	"fmt"
	"log/slog"

	"sojourn/pkg/platform/circuit"
	"sojourn/pkg/platform/sentinel"
)

// publisher matches the service's publishing port.
type publisher interface {
	PublishEvaluation(ctx context.Context, e Evaluation) error
}

// BreakerPublisher stops calling a failing broker until its cooldown passes,
// so ledger writes are not slowed by produce timeouts during an outage.
type BreakerPublisher struct {
	next    publisher
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreakerPublisher(next publisher, breaker *circuit.Breaker, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakerPublisher{next: next, breaker: breaker, logger: logger}
}

// PublishEvaluation returns an error wrapping sentinel.ErrUnavailable while
// the breaker is open.
func (p *BreakerPublisher) PublishEvaluation(ctx context.Context, e Evaluation) error {
	if !p.breaker.Allow() {
		return fmt.Errorf("publish skipped, %s circuit open: %w", p.breaker.Name(), sentinel.ErrUnavailable)
	}
	if err := p.next.PublishEvaluation(ctx, e); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.WarnContext(ctx, "circuit opened", "circuit", p.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "circuit closed", "circuit", p.breaker.Name())
	}
	return nil
}
