package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type OrderService interface {
	// ReconcileTotals repairs orders whose stored total drifted from the
	// item sum
	ReconcileTotals(ctx context.Context) ([]uint64, error)
}

// TotalReconciler is worker that periodically repairs order totals that
// drifted from the sum of their items. Normally item writes keep totals in
// step transactionally, so a repair here points at a bug or manual edit.
type TotalReconciler struct {
	svc      OrderService
	logger   *zap.Logger
	interval time.Duration
}

// NewTotalReconciler creates new total reconciler
func NewTotalReconciler(svc OrderService, logger *zap.Logger, interval time.Duration) *TotalReconciler {
	return &TotalReconciler{
		svc:      svc,
		logger:   logger,
		interval: interval,
	}
}

// Run reconciles order totals until the context is canceled
func (tr *TotalReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(tr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tr.logger.Debug("total reconciler is done")
			return
		case <-ticker.C:
			repaired, err := tr.svc.ReconcileTotals(ctx)
			if err != nil {
				tr.logger.Error("error reconciling order totals", zap.Error(err))
			}
			for _, id := range repaired {
				tr.logger.Warn("repaired drifted order total", zap.Uint64("order_id", id))
			}
		}
	}
}
