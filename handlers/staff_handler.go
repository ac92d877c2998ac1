package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/middleware"
	"roxtor-ops/models"
)

var errStaffOnly = gin.H{"error": "Acceso restringido a gerencia"}

func (h *Handler) GetStaffHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Staff())
}

func (h *Handler) AddStaffHandler(c *gin.Context) {
	if middleware.SessionFrom(c).Scoped() {
		c.JSON(http.StatusForbidden, errStaffOnly)
		return
	}
	var st models.Staff
	if err := c.ShouldBindJSON(&st); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.app.AddStaff(ctx, st)
	if err != nil {
		h.respondError(c, err, "Error al registrar el miembro del equipo")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) RemoveStaffHandler(c *gin.Context) {
	if middleware.SessionFrom(c).Scoped() {
		c.JSON(http.StatusForbidden, errStaffOnly)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.app.RemoveStaff(ctx, c.Param("id")); err != nil {
		h.respondError(c, err, "Error al eliminar el miembro del equipo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Miembro eliminado"})
}

// StaffHistoryHandler lists the orders a staff member has worked on. A staff
// session can only read its own history.
func (h *Handler) StaffHistoryHandler(c *gin.Context) {
	id := c.Param("id")
	if sess := middleware.SessionFrom(c); sess.Scoped() && sess.StaffID != id {
		c.JSON(http.StatusForbidden, errStaffOnly)
		return
	}
	history, err := h.app.StaffHistory(id)
	if err != nil {
		h.respondError(c, err, "Error al obtener el historial")
		return
	}
	c.JSON(http.StatusOK, history)
}
