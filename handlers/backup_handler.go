package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/backup"
)

func (h *Handler) attachment(c *gin.Context, name, ext string) {
	c.Header("Content-Disposition", `attachment; filename="`+name+"_"+h.now().Format("2006-01-02")+"."+ext+`"`)
}

func (h *Handler) ExportBackupHandler(c *gin.Context) {
	snap := h.app.Export()
	h.attachment(c, "ROXTOR_BACKUP", "json")
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
	if err := backup.Write(c.Writer, snap); err != nil {
		h.log.WithError(err).Error("write backup")
	}
}

// ImportBackupHandler replaces every collection with the uploaded backup.
// The body is the JSON file itself.
func (h *Handler) ImportBackupHandler(c *gin.Context) {
	snap, err := backup.Read(c.Request.Body)
	if err != nil {
		h.respondError(c, err, "Error al leer el archivo de respaldo")
		return
	}
	h.restore(c, snap)
}

func (h *Handler) restore(c *gin.Context, snap backup.Snapshot) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	// Reemplaza todo: catálogo, órdenes, ajustes y prospectos
	if err := h.app.Import(ctx, snap); err != nil {
		h.respondError(c, err, "Error al restaurar el respaldo")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Respaldo restaurado",
		"orders":   len(snap.Orders),
		"products": len(snap.Products),
		"leads":    len(snap.Leads),
	})
}

func (h *Handler) ExportBlobHandler(c *gin.Context) {
	blob, err := backup.EncodeBlob(h.app.Export())
	if err != nil {
		h.respondError(c, err, "Error al generar el respaldo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blob": blob})
}

func (h *Handler) ImportBlobHandler(c *gin.Context) {
	var in struct {
		Blob string `json:"blob" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	snap, err := backup.DecodeBlob(in.Blob)
	if err != nil {
		h.respondError(c, err, "Error al leer el respaldo")
		return
	}
	h.restore(c, snap)
}

func (h *Handler) ExportCSVHandler(c *gin.Context) {
	snap := h.app.Snapshot()
	h.attachment(c, "ROXTOR_ORDENES", "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := backup.WriteOrdersCSV(c.Writer, snap.Orders, snap.Settings); err != nil {
		h.log.WithError(err).Error("write orders csv")
	}
}
