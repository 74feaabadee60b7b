package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/instasorteo/contest-stats/internal/db"
)

type healthResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HealthHandler serves the database liveness probe.
// Every check opens its own pool and closes it afterwards; it never touches
// the shared pool used by the statistics endpoint.
type HealthHandler struct {
	open         db.OpenFunc
	logger       *zap.Logger
	exposeErrors bool
	onCheck      func(ok bool)
}

// NewHealthHandler constructs the handler. onCheck is optional (nil = no-op).
func NewHealthHandler(open db.OpenFunc, logger *zap.Logger, exposeErrors bool, onCheck func(ok bool)) *HealthHandler {
	if onCheck == nil {
		onCheck = func(bool) {}
	}
	return &HealthHandler{open: open, logger: logger, exposeErrors: exposeErrors, onCheck: onCheck}
}

// Health handles GET /api/health
//
// @Summary  Database liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  healthResponse
// @Failure  500  {object}  healthResponse
// @Router   /api/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.check(r.Context()); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		h.onCheck(false)
		respondJSON(w, http.StatusInternalServerError, healthResponse{
			OK:    false,
			Error: publicDetail(err, h.exposeErrors, msgDatabaseUnavailable),
		})
		return
	}

	h.onCheck(true)
	respondJSON(w, http.StatusOK, healthResponse{OK: true})
}

func (h *HealthHandler) check(ctx context.Context) error {
	conn, err := h.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Warn("failed to close health check pool", zap.Error(err))
		}
	}()

	var one int
	return conn.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}
