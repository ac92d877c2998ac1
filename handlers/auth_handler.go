package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/access"
	"roxtor-ops/middleware"
)

type pinInput struct {
	PIN string `json:"pin" binding:"required"`
}

func (h *Handler) LiveHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// issue signs sess, sets the cookie and answers with the token.
func (h *Handler) issue(c *gin.Context, sess access.Session) {
	// Firmar el token con el nuevo nivel de acceso
	token, exp, err := h.sessions.Issue(sess, h.now())
	if err != nil {
		h.respondError(c, err, "Error al iniciar sesión")
		return
	}
	h.sessions.SetCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": exp,
		"tier":      sess.Tier.String(),
		"staffId":   sess.StaffID,
	})
}

func (h *Handler) UnlockHandler(c *gin.Context) {
	var in pinInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	sess, err := h.app.Unlock(middleware.SessionFrom(c), in.PIN)
	if err != nil {
		h.respondError(c, err, "Error al desbloquear")
		return
	}
	h.issue(c, sess)
}

func (h *Handler) UnlockMasterHandler(c *gin.Context) {
	var in pinInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	sess, err := h.app.Elevate(middleware.SessionFrom(c), in.PIN)
	if err != nil {
		h.respondError(c, err, "Error al desbloquear")
		return
	}
	h.issue(c, sess)
}

func (h *Handler) LoginStaffHandler(c *gin.Context) {
	var in struct {
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	sess, err := h.app.LoginStaff(in.StaffID)
	if err != nil {
		h.respondError(c, err, "Error al iniciar sesión")
		return
	}
	h.issue(c, sess)
}

// LockHandler locks the caller. The presented token stops working even for
// clients that send it in the Authorization header.
func (h *Handler) LockHandler(c *gin.Context) {
	// 1. Invalidar el token aunque venga por header
	if token := middleware.TokenFrom(c); token != "" {
		h.sessions.Revoke(token, h.now())
	}
	// 2. Borrar la cookie del navegador
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Sesión bloqueada"})
}

// AuthMeHandler reports the caller's current tier and the tabs it may open.
func (h *Handler) AuthMeHandler(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	tabs := []access.Tab{}
	for _, tab := range []access.Tab{
		access.TabOrders, access.TabStaff, access.TabCatalog, access.TabRadar,
		access.TabStock, access.TabReports, access.TabSettings,
	} {
		if sess.Allows(tab) {
			tabs = append(tabs, tab)
		}
	}
	resp := gin.H{"tier": sess.Tier.String(), "tabs": tabs}
	if sess.Scoped() {
		if staff, ok := h.app.Settings().StaffMember(sess.StaffID); ok {
			resp["staff"] = staff
		}
	}
	c.JSON(http.StatusOK, resp)
}
