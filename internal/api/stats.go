package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/draftloop/draftloop/internal/dbpool"
	"github.com/draftloop/draftloop/internal/metrics"
)

// StatsHandler serves the aggregate statistics endpoint.
type StatsHandler struct {
	pool  *dbpool.Pool
	log   *logrus.Logger
	group singleflight.Group
}

// NewStatsHandler creates a StatsHandler with the given dependencies.
func NewStatsHandler(pool *dbpool.Pool, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{pool: pool, log: log}
}

// statsResponse is the JSON payload returned by the stats endpoint.
type statsResponse struct {
	Derivatives      int `json:"derivatives"`
	Published        int `json:"published"`
	Platforms        int `json:"platforms"`
	Versions         int `json:"versions"`
	RollbackVersions int `json:"rollback_versions"`
	AIVersions       int `json:"ai_versions"`
	AuditEntries     int `json:"audit_entries"`
}

// GetStats handles GET /api/v1/stats — returns aggregate counts. Concurrent
// requests are deduplicated through singleflight so the aggregate query runs
// once per burst.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	v, err, _ := h.group.Do("stats", func() (any, error) {
		return h.collect(ctx)
	})
	if err != nil {
		h.log.WithError(err).Error("stats: aggregate query")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	resp := v.(*statsResponse)

	// Update Prometheus gauges with fresh counts.
	metrics.DerivativeCount.Set(float64(resp.Derivatives))
	metrics.VersionCount.Set(float64(resp.Versions))

	c.JSON(http.StatusOK, resp)
}

func (h *StatsHandler) collect(ctx context.Context) (*statsResponse, error) {
	tx, err := h.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	var resp statsResponse

	// Single consolidated query for all aggregate stats.
	if err := tx.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(DISTINCT platform),
			(SELECT COUNT(*) FROM derivative_versions),
			(SELECT COUNT(*) FROM derivative_versions WHERE change_type = 'rollback'),
			(SELECT COUNT(*) FROM derivative_versions WHERE change_type = 'ai_regenerated'),
			(SELECT COUNT(*) FROM audit_log)
		 FROM derivatives`,
	).Scan(
		&resp.Derivatives, &resp.Published, &resp.Platforms,
		&resp.Versions, &resp.RollbackVersions, &resp.AIVersions,
		&resp.AuditEntries,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}
