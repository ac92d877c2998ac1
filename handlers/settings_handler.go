package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/app"
	"roxtor-ops/models"
)

// publicSettings strips the PIN hashes before settings leave the server.
func publicSettings(s models.AppSettings) models.AppSettings {
	s.AccessPinHash, s.MasterPinHash = "", ""
	s.AccessPin, s.MasterPin = "", ""
	return s
}

func (h *Handler) GetSettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, publicSettings(h.app.Settings()))
}

func (h *Handler) UpdateCompanyHandler(c *gin.Context) {
	var in app.CompanyProfile
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.app.UpdateCompany(ctx, in)
	if err != nil {
		h.respondError(c, err, "Error al actualizar la empresa")
		return
	}
	c.JSON(http.StatusOK, publicSettings(s))
}

func (h *Handler) ChangePINsHandler(c *gin.Context) {
	var in struct {
		AccessPIN string `json:"accessPin"`
		MasterPIN string `json:"masterPin"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.app.ChangePINs(ctx, in.AccessPIN, in.MasterPIN); err != nil {
		h.respondError(c, err, "Error al cambiar los PIN")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN actualizado"})
}

func (h *Handler) SetToneHandler(c *gin.Context) {
	var in struct {
		Tone models.AITone `json:"tone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.app.SetTone(ctx, in.Tone)
	if err != nil {
		h.respondError(c, err, "Error al actualizar el tono")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tone": s.AITone})
}

// UpsertBranchHandler serves both POST (new branch) and PUT /:id (edit).
func (h *Handler) UpsertBranchHandler(c *gin.Context) {
	var b models.StoreInfo
	if err := c.ShouldBindJSON(&b); err != nil {
		badRequest(c)
		return
	}
	b.ID = c.Param("id")

	ctx, cancel := h.ctx(c)
	defer cancel()

	saved, err := h.app.UpsertBranch(ctx, b)
	if err != nil {
		h.respondError(c, err, "Error al guardar la sede")
		return
	}
	status := http.StatusOK
	if c.Param("id") == "" {
		status = http.StatusCreated
	}
	c.JSON(status, saved)
}
