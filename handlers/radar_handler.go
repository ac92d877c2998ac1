package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/app"
	"roxtor-ops/radar"
)

func (h *Handler) GetLeadsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Leads())
}

func (h *Handler) AnalyzeLeadHandler(c *gin.Context) {
	var in struct {
		Text   string `json:"text"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.aiCtx(c)
	defer cancel()

	lead, err := h.app.AnalyzeLead(ctx, in.Text, in.Source)
	if err != nil {
		h.respondAIError(c, err, "No se pudo analizar la conversación")
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *Handler) DeleteLeadHandler(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.app.DeleteLead(ctx, c.Param("id")); err != nil {
		h.respondError(c, err, "Error al eliminar el prospecto")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prospecto eliminado"})
}

// SpeakLeadHandler answers with the suggested reply as WAV audio. When the
// synthesis fails the client gets 204 and simply plays nothing.
func (h *Handler) SpeakLeadHandler(c *gin.Context) {
	ctx, cancel := h.aiCtx(c)
	defer cancel()

	audio, err := h.app.SpeakLead(ctx, c.Param("id"))
	switch {
	case err == nil:
		c.Data(http.StatusOK, "audio/wav", audio)
	case errors.Is(err, app.ErrLeadNotFound), errors.Is(err, radar.ErrUnavailable):
		h.respondError(c, err, "Error al generar el audio")
	default:
		c.Status(http.StatusNoContent)
	}
}
