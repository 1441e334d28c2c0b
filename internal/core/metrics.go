package core

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/newsroom/internal/database"
	"github.com/JonMunkholm/newsroom/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsroom",
		Subsystem: "crud",
		Name:      "operations_total",
		Help:      "Data-access operations by table, operation and outcome.",
	}, []string{"table", "op", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "newsroom",
		Subsystem: "crud",
		Name:      "operation_duration_seconds",
		Help:      "Data-access operation latency, session release included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "op"})
)

// Outcome labels an operation result for metrics.
func Outcome(err error) string {
	switch KindOf(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "ok"
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrUnprocessable:
		return "unprocessable"
	default:
		return "internal"
	}
}

// track is deferred by every public operation. It releases the session on
// all exit paths and records the outcome:
//
//	defer m.track(ctx, "get", s)(&err)
func (m *Model[E]) track(ctx context.Context, op string, s *database.Session) func(*error) {
	start := time.Now()
	sessionID := ""
	if s != nil {
		sessionID = s.ID()
	}
	log := logging.ForOperation(ctx, m.def.Table, op, sessionID)

	return func(errp *error) {
		if s != nil {
			if cerr := s.Close(); cerr != nil {
				log.Warn("session release failed", "error", cerr)
			}
		}

		err := *errp
		elapsed := time.Since(start)
		outcome := Outcome(err)
		operationsTotal.WithLabelValues(m.def.Table, op, outcome).Inc()
		operationDuration.WithLabelValues(m.def.Table, op).Observe(elapsed.Seconds())

		switch {
		case err == nil:
			log.Debug("operation completed", "duration", elapsed)
		case errors.Is(err, ErrInternal) || outcome == "error":
			log.Error("operation failed", "error", err, "duration", elapsed)
		default:
			log.Debug("operation rejected", "outcome", outcome, "error", err)
		}
	}
}

// requireSession guards against a nil session before any work is done.
func (m *Model[E]) requireSession(op string, s *database.Session) error {
	if s == nil {
		return &OpError{Op: op, Table: m.def.Table, Kind: ErrInternal, Msg: "no session"}
	}
	return nil
}
