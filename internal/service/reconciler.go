package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/talkboard-dev/talkboard/internal/logger"
)

var (
	reconcileRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "talkboard",
			Name:      "aggregate_reconcile_runs_total",
			Help:      "Total number of aggregate reconciliation passes",
		},
	)
	reconcileFixed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "talkboard",
			Name:      "aggregate_reconcile_rows_fixed_total",
			Help:      "Total number of rows whose counters were corrected",
		},
	)
)

type ReconcileStorage interface {
	ReconcileAggregates() (int64, error)
}

// AggregateReconciler periodically recounts denormalized counters and newest
// stamps from true child counts. It is the backstop for the window where a
// caller aborts between a child write and its ancestor update.
type AggregateReconciler struct {
	storage  ReconcileStorage
	interval time.Duration
}

func NewAggregateReconciler(storage ReconcileStorage, interval time.Duration) *AggregateReconciler {
	return &AggregateReconciler{storage, interval}
}

// StartBackground launches the periodic pass. Stops when ctx is cancelled.
func (r *AggregateReconciler) StartBackground(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	logger.Log.Info("started aggregate reconciler", "interval", r.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if fixed, err := r.RunOnce(); err != nil {
					logger.Log.Error("aggregate reconcile failed", "err", err)
				} else if fixed > 0 {
					logger.Log.Warn("aggregate drift healed", "rows", fixed)
				}
			case <-ctx.Done():
				logger.Log.Info("aggregate reconciler shutting down")
				return
			}
		}
	}()
}

// RunOnce executes a single reconciliation pass. Exposed for tests and
// manual maintenance.
func (r *AggregateReconciler) RunOnce() (int64, error) {
	reconcileRuns.Inc()
	fixed, err := r.storage.ReconcileAggregates()
	if err != nil {
		return 0, err
	}
	reconcileFixed.Add(float64(fixed))
	return fixed, nil
}
