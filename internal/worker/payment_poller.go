package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/adapter/payment"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
)

// Billing exposes the subset of application functionality required by the poller.
type Billing interface {
	OrdersAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error)
	CheckPayment(ctx context.Context, number string) (*model.PaymentResult, error)
	RecordPayment(ctx context.Context, orderID int64, status model.PaymentStatus) error
}

// PaymentPoller polls the payment system and records outcomes concurrently.
type PaymentPoller struct {
	facade       Billing
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentPoller constructs the payment worker pool.
func NewPaymentPoller(facade Billing, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *PaymentPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentPoller) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.OrdersAwaitingPayment(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch orders awaiting payment failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *PaymentPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *PaymentPoller) handleOrder(ctx context.Context, order model.Order) {
	result, err := p.facade.CheckPayment(ctx, order.Number)
	if err != nil {
		switch e := err.(type) {
		case payment.TooManyRequestsError:
			p.logger.Warn("payment system rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if errors.Is(err, payment.ErrOrderNotRegistered) {
				return
			}
			p.logger.Error("payment fetch failed", slog.String("order", order.Number), slog.String("error", err.Error()))
		}
		return
	}

	// PENDING means the provider has not settled the payment yet; the order
	// will be picked up again on the next poll.
	if result.Status == model.PaymentStatusPending {
		return
	}
	if !result.Status.Valid() {
		p.logger.Error("payment system returned unknown status",
			slog.String("order", order.Number), slog.String("status", string(result.Status)))
		return
	}

	if err := p.facade.RecordPayment(ctx, order.ID, result.Status); err != nil {
		p.logger.Error("record payment failed", slog.String("order", order.Number), slog.String("error", err.Error()))
	}
}
