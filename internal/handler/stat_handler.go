package handler

import (
	"net/http"

	"github.com/forosuite/foro/internal/service"
	"github.com/forosuite/foro/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	stats service.StatService
}

func NewStatHandler(stats service.StatService) *StatHandler {
	return &StatHandler{stats: stats}
}

func (h *StatHandler) GetEstadisticas(c *gin.Context) {
	stats, err := h.stats.GetEstadisticas(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
