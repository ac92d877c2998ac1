package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/ledger"
)

// RegisterPaymentHandler appends a payment to the order. Amounts of zero or
// less are accepted but change nothing; the response says so in "applied".
func (h *Handler) RegisterPaymentHandler(c *gin.Context) {
	var in ledger.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	if _, ok := h.visibleOrder(c); !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	order, applied, err := h.app.RegisterPayment(ctx, c.Param("id"), in)
	if err != nil {
		h.respondError(c, err, "Error al registrar el pago")
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "order": h.view(order)})
}
