package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roxtor-ops/access"
	"roxtor-ops/app"
	"roxtor-ops/backup"
	"roxtor-ops/database"
	"roxtor-ops/ledger"
	"roxtor-ops/middleware"
	"roxtor-ops/radar"
)

const requestTimeout = 10 * time.Second

// aiTimeout bounds calls that go out to the AI service.
const aiTimeout = 60 * time.Second

type Handler struct {
	app      *app.Controller
	sessions *middleware.Sessions
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewHandler(ctrl *app.Controller, sessions *middleware.Sessions, logger logrus.FieldLogger) *Handler {
	return &Handler{app: ctrl, sessions: sessions, log: logger, now: time.Now}
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func (h *Handler) aiCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), aiTimeout)
}

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{ledger.ErrClientNameRequired, http.StatusBadRequest, "Nombre de cliente requerido"},
	{ledger.ErrNoItems, http.StatusBadRequest, "La orden debe tener al menos un ítem"},
	{ledger.ErrUnknownBranch, http.StatusBadRequest, "No hay sedes configuradas"},
	{ledger.ErrUnknownStaff, http.StatusNotFound, "Miembro del equipo no encontrado"},
	{ledger.ErrInvalidPaymentMethod, http.StatusBadRequest, "Método de pago inválido"},
	{ledger.ErrInvalidTransition, http.StatusConflict, "Cambio de estado no permitido"},
	{access.ErrIncorrectPIN, http.StatusUnauthorized, "PIN incorrecto"},
	{access.ErrEmptyPIN, http.StatusBadRequest, "El PIN no puede estar vacío"},
	{access.ErrUnknownStaff, http.StatusNotFound, "Miembro del equipo no encontrado"},
	{app.ErrOrderNotFound, http.StatusNotFound, "Orden no encontrada"},
	{app.ErrProductNotFound, http.StatusNotFound, "Producto no encontrado"},
	{app.ErrLeadNotFound, http.StatusNotFound, "Prospecto no encontrado"},
	{app.ErrBranchNotFound, http.StatusNotFound, "Sede no encontrada"},
	{app.ErrProductNameRequired, http.StatusBadRequest, "Nombre de producto requerido"},
	{app.ErrInvalidPrice, http.StatusBadRequest, "El precio no puede ser negativo"},
	{app.ErrInvalidStock, http.StatusBadRequest, "El stock no puede ser negativo"},
	{app.ErrInvalidRate, http.StatusBadRequest, "La tasa debe ser mayor a cero"},
	{app.ErrInvalidTone, http.StatusBadRequest, "Tono de IA inválido"},
	{app.ErrInvalidRole, http.StatusBadRequest, "Rol inválido"},
	{app.ErrStaffNameRequired, http.StatusBadRequest, "Nombre requerido"},
	{app.ErrBranchCodeRequired, http.StatusBadRequest, "Código de sede requerido"},
	{app.ErrCompanyNameRequired, http.StatusBadRequest, "Nombre de empresa requerido"},
	{radar.ErrInputTooShort, http.StatusBadRequest, "Pega el chat o dicta el mensaje para analizar"},
	{radar.ErrUnavailable, http.StatusServiceUnavailable, "Asistente de IA no configurado"},
	{radar.ErrImplausibleRate, http.StatusBadGateway, "Lectura de tasa errónea, ingrésala manualmente"},
	{radar.ErrBadResponse, http.StatusBadGateway, "Respuesta inválida del asistente de IA"},
	{backup.ErrInvalidBackup, http.StatusBadRequest, "Error al leer el archivo de respaldo"},
	{database.ErrCorrupt, http.StatusInternalServerError, "Datos almacenados dañados"},
}

// respondError maps domain errors to a status and a user-facing message.
// Anything unknown is a 500 and gets logged.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}
	_ = c.Error(err)
	h.log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// respondAIError is respondError for calls that reached the AI service.
// Unknown failures answer 502.
func (h *Handler) respondAIError(c *gin.Context, err error, message string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}
	h.log.WithError(err).WithField("path", c.FullPath()).Warn(message)
	c.JSON(http.StatusBadGateway, gin.H{"error": message})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
}
