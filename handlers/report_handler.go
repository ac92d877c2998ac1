package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/backup"
	"roxtor-ops/render"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ReportHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Report())
}

func (h *Handler) ReportDocumentHandler(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.RenderReport(c.Writer, h.app.Report(), h.app.Settings()); err != nil {
		h.log.WithError(err).Error("render report")
	}
}

// ReportShareHandler builds a WhatsApp link with the report summary. Without
// ?phone the link lets the user pick the chat.
func (h *Handler) ReportShareHandler(c *gin.Context) {
	url := render.ReportShareLink(c.Query("phone"), h.app.Report(), h.app.Settings())
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) ReportXLSXHandler(c *gin.Context) {
	snap := h.app.Snapshot()
	report := h.app.Report()
	c.Header("Content-Disposition", `attachment; filename="ROXTOR_REPORTE_`+h.now().Format("2006-01-02")+`.xlsx"`)
	c.Header("Content-Type", xlsxMIME)
	c.Status(http.StatusOK)
	if err := backup.WriteReportXLSX(c.Writer, snap.Orders, report, snap.Settings); err != nil {
		h.log.WithError(err).Error("write report xlsx")
	}
}
