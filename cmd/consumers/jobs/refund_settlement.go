package jobs

import (
	"context"
	"log/slog"
	"time"

	"bullpen/internal/workflow"
)

// RefundSettlementJob polls the payment gateway for refunds stuck in
// processing and settles the completed ones. It backs up the gateway
// webhook, which can be missed.
type RefundSettlementJob struct {
	refunds  *workflow.RefundWorkflow
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewRefundSettlementJob(refunds *workflow.RefundWorkflow, interval time.Duration) *RefundSettlementJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &RefundSettlementJob{
		refunds:  refunds,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start begins the background polling loop
func (j *RefundSettlementJob) Start(ctx context.Context) {
	slog.Info("Starting refund settlement job", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	// Run initial check immediately
	go j.settle(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.settle(ctx)
			case <-j.done:
				slog.Info("Refund settlement job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *RefundSettlementJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *RefundSettlementJob) settle(ctx context.Context) {
	settled, err := j.refunds.SettleDue(ctx)
	if err != nil {
		slog.Error("Refund settlement sweep failed", "error", err)
		return
	}
	if settled > 0 {
		slog.Info("Settled refunds", "count", settled)
	}
}
