package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/instasorteo/contest-stats/internal/api/middleware"
	"github.com/instasorteo/contest-stats/internal/domain"
	"github.com/instasorteo/contest-stats/internal/service"
)

// msgContestNotFound is returned with status 200; clients branch on the body.
const msgContestNotFound = "Concurso no encontrado"

type statsErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// StatsHandler serves the contest statistics snapshot.
type StatsHandler struct {
	svc          *service.StatsService
	logger       *zap.Logger
	exposeErrors bool
}

func NewStatsHandler(svc *service.StatsService, logger *zap.Logger, exposeErrors bool) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger, exposeErrors: exposeErrors}
}

// Stats handles GET /api/stats
//
// @Summary  Contest metadata, totals, top two participants and winners
// @Tags     stats
// @Produce  json
// @Param    id   query     int  false  "Contest id (default 1)"
// @Success  200  {object}  domain.Snapshot
// @Success  200  {object}  statsErrorResponse  "Contest not found"
// @Failure  400  {object}  statsErrorResponse
// @Failure  500  {object}  statsErrorResponse
// @Router   /api/stats [get]
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	contestID, err := domain.ParseContestID(r.URL.Query().Get("id"))
	if err != nil {
		respondJSONUTF8(w, http.StatusBadRequest, statsErrorResponse{Error: "invalid id"})
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), contestID)
	if err != nil {
		h.mapError(w, r, contestID, err)
		return
	}

	respondJSONUTF8(w, http.StatusOK, snap)
}

// mapError translates service errors to responses.
// All mapping lives here so the happy path stays concise.
func (h *StatsHandler) mapError(w http.ResponseWriter, r *http.Request, contestID int64, err error) {
	if errors.Is(err, domain.ErrContestNotFound) {
		respondJSONUTF8(w, http.StatusOK, statsErrorResponse{Error: msgContestNotFound})
		return
	}

	h.logger.Error("stats lookup failed",
		zap.Int64("contest_id", contestID),
		zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
		zap.Error(err),
	)
	respondJSONUTF8(w, http.StatusInternalServerError, statsErrorResponse{
		Error:  "DB connection failed",
		Detail: publicDetail(err, h.exposeErrors, msgInternalError),
	})
}
