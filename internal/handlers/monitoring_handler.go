package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"
	apperrors "github.com/spolyanaa/MyBarKeeperBot/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the part of the ledger database the monitoring API reads.
type Store interface {
	Ping(ctx context.Context) error
	TableCounts(ctx context.Context) (map[string]int, error)
}

type Verifier interface {
	Verify(ctx context.Context) (ledger.VerifyReport, error)
}

type ShortfallPlanner interface {
	Shortfall(ctx context.Context, mode ledger.Mode) ([]ledger.Need, error)
}

type MonitoringHandler struct {
	store    Store
	verifier Verifier
	planner  ShortfallPlanner
	logger   *zap.Logger
}

func NewMonitoringHandler(store Store, verifier Verifier, planner ShortfallPlanner, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		store:    store,
		verifier: verifier,
		planner:  planner,
		logger:   logger,
	}
}

// GetStats returns row counts per ledger table.
func (h *MonitoringHandler) GetStats(c *gin.Context) {
	counts, err := h.store.TableCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get table counts", zap.Error(err))
		c.Error(apperrors.NewDatabaseError("table counts", err))
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Status: "ok",
		Stats:  counts,
	})
}

func (h *MonitoringHandler) GetDatabaseStatus(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	response := DatabaseStatusResponse{
		Status: "ok",
	}
	response.Database.Connected = true
	response.Database.Type = "sqlite"

	c.JSON(http.StatusOK, response)
}

// VerifyLedger replays the movement log and compares it with the stored
// balances. Drift is reported as 409 with the full report in details.
func (h *MonitoringHandler) VerifyLedger(c *gin.Context) {
	report, err := h.verifier.Verify(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to verify ledger", zap.Error(err))
		c.Error(apperrors.NewDatabaseError("verify ledger", err))
		return
	}

	if !report.Consistent() {
		h.logger.Warn("Ledger drift detected", zap.Int("products", len(report.Drift)))
		c.JSON(http.StatusConflict, gin.H{
			"error":   "LedgerDrift",
			"message": apperrors.NewLedgerDriftError(len(report.Drift)).Message,
			"report":  report,
		})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{Status: "ok", Report: report})
}

func (h *MonitoringHandler) GetShortfall(c *gin.Context) {
	mode, err := ledger.ParseMode(c.Param("mode"))
	if err != nil {
		c.Error(apperrors.NewValidationError("unknown reorder mode", c.Param("mode")))
		return
	}

	needs, err := h.planner.Shortfall(c.Request.Context(), mode)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidMode) {
			c.Error(apperrors.NewValidationError("unknown reorder mode", string(mode)))
			return
		}
		h.logger.Error("Failed to compute shortfall", zap.String("mode", string(mode)), zap.Error(err))
		c.Error(apperrors.NewDatabaseError("shortfall", err))
		return
	}

	items := make([]ShortfallItem, 0, len(needs))
	for _, n := range needs {
		items = append(items, ShortfallItem{Product: n.Product, Quantity: n.Quantity.String()})
	}
	c.JSON(http.StatusOK, ShortfallResponse{Mode: string(mode), Items: items})
}
