package database

import (
	"context"
	"sync"
	"time"

	"github.com/alexivanou/cityshare-api/internal/metrics"
	"github.com/alexivanou/cityshare-api/internal/retry"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// HealthStatus is the outcome of the most recent health check
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
}

// HealthChecker pings the pool and, on failure, keeps pinging with doubling backoff so
// database/sql can replace broken connections.
type HealthChecker struct {
	db      *sqlx.DB
	timeout time.Duration
	policy  retry.Policy
	clock   clockwork.Clock
	logger  *zap.Logger

	mu     sync.RWMutex
	status HealthStatus
}

// DefaultReconnectPolicy retries a failed ping five times starting at one second.
var DefaultReconnectPolicy = retry.Policy{
	MaxAttempts:    5,
	InitialBackoff: time.Second,
	MaxBackoff:     30 * time.Second,
}

// NewHealthChecker creates a checker; timeout bounds each ping.
func NewHealthChecker(db *sqlx.DB, timeout time.Duration, policy retry.Policy, clock clockwork.Clock, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		db:      db,
		timeout: timeout,
		policy:  policy,
		clock:   clock,
		logger:  logger,
	}
}

// Check pings the database and records the result.
func (h *HealthChecker) Check(ctx context.Context) error {
	attempts := 0
	policy := h.policy
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		metrics.DBReconnectAttempts.Inc()
		h.logger.Warn("Database ping failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
	}

	err := retry.DoVoid(ctx, policy, retry.Always, func(ctx context.Context) error {
		attempts++
		pingCtx, cancel := WithQueryTimeout(ctx, h.timeout)
		defer cancel()
		return h.db.PingContext(pingCtx)
	})

	status := HealthStatus{
		Healthy:   err == nil,
		CheckedAt: h.clock.Now(),
		Attempts:  attempts,
	}
	if err != nil {
		status.Error = err.Error()
		metrics.DBHealthChecks.WithLabelValues("failure").Inc()
		metrics.DBUp.Set(0)
		h.logger.Error("Database health check failed", zap.Int("attempts", attempts), zap.Error(err))
	} else {
		metrics.DBHealthChecks.WithLabelValues("success").Inc()
		metrics.DBUp.Set(1)
	}

	h.mu.Lock()
	h.status = status
	h.mu.Unlock()

	return err
}

// Status returns the last recorded result; the zero value means no check has run yet.
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}
