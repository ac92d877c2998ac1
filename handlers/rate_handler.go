package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/models"
)

func rateView(s models.AppSettings) gin.H {
	return gin.H{"rate": s.CurrentBcvRate, "lastRateUpdate": s.LastRateUpdate}
}

func (h *Handler) GetRateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, rateView(h.app.Settings()))
}

func (h *Handler) SetRateHandler(c *gin.Context) {
	var in struct {
		Rate float64 `json:"rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.app.SetExchangeRate(ctx, in.Rate)
	if err != nil {
		h.respondError(c, err, "Error al actualizar la tasa")
		return
	}
	c.JSON(http.StatusOK, rateView(s))
}

// RefreshRateHandler looks the official rate up online. A failed or
// implausible lookup leaves the stored rate as it was.
func (h *Handler) RefreshRateHandler(c *gin.Context) {
	ctx, cancel := h.aiCtx(c)
	defer cancel()

	s, err := h.app.RefreshExchangeRate(ctx)
	if err != nil {
		h.respondAIError(c, err, "No se pudo consultar la tasa oficial")
		return
	}
	c.JSON(http.StatusOK, rateView(s))
}
