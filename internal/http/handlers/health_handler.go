package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of the liveness and readiness probes.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Ops
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready godoc
// @ID          ready
// @Summary     Readiness probe
// @Description Pings the history store.
// @Tags        Ops
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /ready [get]
func (h *Handlers) Ready(c *gin.Context) {
	if err := h.historySvc.Ready(c.Request.Context()); err != nil {
		failDetails(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "history store unavailable", 0, err.Error())
		return
	}
	ok(c, http.StatusOK, HealthResponse{Status: "ready"})
}
