package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexivanou/cityshare-api/internal/stats"
	"go.uber.org/zap"
)

// StatsCollector gathers the runtime and database statistics
type StatsCollector interface {
	Collect(ctx context.Context) (*stats.Stats, error)
}

// StatsHandler handles statistics requests
type StatsHandler struct {
	collector StatsCollector
	logger    *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(collector StatsCollector, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{collector: collector, logger: logger}
}

// GetStats handles GET /api/admin/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.collector.Collect(r.Context())
	if err != nil {
		h.logger.Error("failed to collect statistics", zap.Error(err))
		http.Error(w, `{"error":"failed to collect statistics"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Error("failed to encode statistics", zap.Error(err))
	}
}
