package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/app"
	"roxtor-ops/ledger"
	"roxtor-ops/middleware"
	"roxtor-ops/models"
	"roxtor-ops/render"
)

type orderView struct {
	models.Order
	Urgency ledger.UrgencyStatus `json:"urgency"`
}

func (h *Handler) view(o models.Order) orderView {
	return orderView{Order: o, Urgency: ledger.ClassifyOrder(o, h.now())}
}

// visibleOrder loads an order and hides it from staff sessions that never
// worked on it.
func (h *Handler) visibleOrder(c *gin.Context) (models.Order, bool) {
	order, err := h.app.Order(c.Param("id"))
	if err == nil {
		if sess := middleware.SessionFrom(c); sess.Scoped() && !order.Touched(sess.StaffID) {
			err = app.ErrOrderNotFound
		}
	}
	if err != nil {
		h.respondError(c, err, "Error al obtener la orden")
		return models.Order{}, false
	}
	return order, true
}

// GetOrdersHandler lists orders newest first. Staff sessions only see the
// orders they are or were assigned to.
func (h *Handler) GetOrdersHandler(c *gin.Context) {
	filter := app.OrderFilter{Query: c.Query("q"), StoreID: c.Query("store")}
	if sess := middleware.SessionFrom(c); sess.Scoped() {
		filter.StaffID = sess.StaffID
	}
	orders := h.app.Orders(filter)
	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = h.view(o)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateOrderHandler(c *gin.Context) {
	// 1. Leer el borrador de la orden
	var draft ledger.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c)
		return
	}
	// 2. Validar cantidades y precios de cada ítem
	for _, it := range draft.Items {
		if it.Quantity < 1 || it.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad o precio inválido"})
			return
		}
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	// 3. Crear la orden (asigna número de sede y descuenta el contador)
	order, err := h.app.CreateOrder(ctx, draft)
	if err != nil {
		h.respondError(c, err, "Error al registrar la orden")
		return
	}
	c.JSON(http.StatusCreated, h.view(order))
}

func (h *Handler) GetOrderHandler(c *gin.Context) {
	order, ok := h.visibleOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

func (h *Handler) ReassignOrderHandler(c *gin.Context) {
	var in struct {
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	if _, ok := h.visibleOrder(c); !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	order, err := h.app.ReassignOrder(ctx, c.Param("id"), in.StaffID)
	if err != nil {
		h.respondError(c, err, "Error al reasignar la orden")
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

// AdvanceStatusHandler moves the order to the status in the body, or one
// step forward when none is given.
func (h *Handler) AdvanceStatusHandler(c *gin.Context) {
	var in struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c)
		return
	}
	// Sin estado en el body = avanzar al siguiente
	if in.Status != "" && !in.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido"})
		return
	}
	if _, ok := h.visibleOrder(c); !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	var order models.Order
	var err error
	if in.Status == "" {
		order, err = h.app.AdvanceNext(ctx, c.Param("id"))
	} else {
		order, err = h.app.AdvanceStatus(ctx, c.Param("id"), in.Status)
	}
	if err != nil {
		h.respondError(c, err, "Error al actualizar el estado")
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

func (h *Handler) OrderDocumentHandler(c *gin.Context) {
	order, ok := h.visibleOrder(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.RenderOrder(c.Writer, order, h.app.Settings(), h.now()); err != nil {
		h.log.WithError(err).WithField("order", order.ID).Error("render order")
	}
}

func (h *Handler) OrderShareHandler(c *gin.Context) {
	order, ok := h.visibleOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": render.OrderShareLink(order, h.app.Settings())})
}
