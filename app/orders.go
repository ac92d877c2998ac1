package app

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"roxtor-ops/database"
	"roxtor-ops/ledger"
	"roxtor-ops/models"
)

// OrderFilter narrows Orders. Zero value lists everything.
type OrderFilter struct {
	Query   string // client name or order number, case-insensitive
	StaffID string // only orders this staff member is or was assigned to
	StoreID string
}

func (f OrderFilter) match(o models.Order) bool {
	if f.StaffID != "" && !o.Touched(f.StaffID) {
		return false
	}
	if f.StoreID != "" && o.StoreID != f.StoreID {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(o.ClientName), q) ||
			strings.Contains(strings.ToLower(o.OrderNumber), q)
	}
	return true
}

// Orders lists matching orders, newest first.
func (c *Controller) Orders(f OrderFilter) []models.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Order, 0, len(c.state.Orders))
	for _, o := range c.state.Orders {
		if f.match(o) {
			out = append(out, o)
		}
	}
	return out
}

func (c *Controller) Order(id string) (models.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.orderIndex(id)
	if i < 0 {
		return models.Order{}, ErrOrderNotFound
	}
	return c.state.Orders[i], nil
}

func (c *Controller) orderIndex(id string) int {
	return slices.IndexFunc(c.state.Orders, func(o models.Order) bool { return o.ID == id })
}

func (c *Controller) orderFields(o models.Order) logrus.Fields {
	return logrus.Fields{"order": o.ID, "orderNumber": o.OrderNumber, "branch": o.StoreID}
}

// CreateOrder issues the branch's next number. Settings are persisted before
// the order so a number is never handed out twice.
func (c *Controller) CreateOrder(ctx context.Context, d ledger.Draft) (models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 1. Armar la orden con el siguiente número de sede
	order, settings, err := ledger.NewOrder(d, c.state.Settings, c.newID, c.now())
	if err != nil {
		return models.Order{}, err
	}
	// 2. Aplicar sobre una copia del estado
	next := c.state.clone()
	next.Settings = settings
	next.Orders = append([]models.Order{order}, next.Orders...)

	// 3. Guardar ajustes y luego órdenes; si falla, se revierte
	if err := c.commit(ctx, next, database.KeySettings, database.KeyOrders); err != nil {
		return models.Order{}, err
	}
	c.log.WithFields(c.orderFields(order)).WithField("totalUSD", order.TotalUSD).Info("order created")
	return order, nil
}

// mutateOrder applies fn to a copy of the order and persists the result.
// When fn reports no change nothing is saved.
func (c *Controller) mutateOrder(ctx context.Context, id string, fn func(o *models.Order) (bool, error)) (models.Order, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.orderIndex(id)
	if i < 0 {
		return models.Order{}, false, ErrOrderNotFound
	}
	order := c.state.Orders[i]
	changed, err := fn(&order)
	if err != nil || !changed {
		return c.state.Orders[i], false, err
	}

	next := c.state.clone()
	next.Orders[i] = order
	if err := c.commit(ctx, next, database.KeyOrders); err != nil {
		return models.Order{}, false, err
	}
	return order, true, nil
}

// RegisterPayment appends a payment. Non-positive amounts are ignored and
// reported with applied=false.
func (c *Controller) RegisterPayment(ctx context.Context, orderID string, in ledger.PaymentInput) (models.Order, bool, error) {
	order, applied, err := c.mutateOrder(ctx, orderID, func(o *models.Order) (bool, error) {
		return ledger.RegisterPayment(o, in, c.newID(), c.now())
	})
	if err != nil || !applied {
		return order, applied, err
	}
	entry := c.log.WithFields(c.orderFields(order)).WithFields(logrus.Fields{
		"amountUSD":    in.AmountUSD,
		"remainingUSD": order.RemainingAmountUSD,
	})
	if order.RemainingAmountUSD < 0 {
		entry.Warn("order over-paid")
	} else {
		entry.Info("payment registered")
	}
	return order, true, nil
}

func (c *Controller) ReassignOrder(ctx context.Context, orderID, staffID string) (models.Order, error) {
	staff, ok := c.Settings().StaffMember(staffID)
	if !ok {
		return models.Order{}, ledger.ErrUnknownStaff
	}
	order, _, err := c.mutateOrder(ctx, orderID, func(o *models.Order) (bool, error) {
		ledger.Reassign(o, staff, c.now())
		return true, nil
	})
	if err != nil {
		return models.Order{}, err
	}
	c.log.WithFields(c.orderFields(order)).WithField("staff", staff.ID).Info("order reassigned")
	return order, nil
}

// AdvanceStatus moves the order to target, which must be its next status.
func (c *Controller) AdvanceStatus(ctx context.Context, orderID string, target models.OrderStatus) (models.Order, error) {
	order, _, err := c.mutateOrder(ctx, orderID, func(o *models.Order) (bool, error) {
		return true, ledger.Advance(o, target, c.now())
	})
	if err != nil {
		return models.Order{}, err
	}
	c.log.WithFields(c.orderFields(order)).WithField("status", order.Status).Info("order status changed")
	return order, nil
}

// AdvanceNext moves the order one step forward.
func (c *Controller) AdvanceNext(ctx context.Context, orderID string) (models.Order, error) {
	order, _, err := c.mutateOrder(ctx, orderID, func(o *models.Order) (bool, error) {
		return true, ledger.AdvanceNext(o, c.now())
	})
	if err != nil {
		return models.Order{}, err
	}
	c.log.WithFields(c.orderFields(order)).WithField("status", order.Status).Info("order status changed")
	return order, nil
}

// Passage is an order a staff member worked on.
type Passage struct {
	Order           models.Order `json:"order"`
	FirstAssignedAt time.Time    `json:"firstAssignedAt"`
	Current         bool         `json:"current"`
}

// StaffHistory lists every order staffID ever touched, newest first.
func (c *Controller) StaffHistory(staffID string) ([]Passage, error) {
	if _, ok := c.Settings().StaffMember(staffID); !ok {
		return nil, ledger.ErrUnknownStaff
	}
	orders := c.Orders(OrderFilter{StaffID: staffID})
	out := make([]Passage, 0, len(orders))
	for _, o := range orders {
		p := Passage{Order: o, Current: o.AssignedToID == staffID}
		for _, entry := range o.AssignmentHistory.All() {
			if entry.AgentID == staffID {
				p.FirstAssignedAt = entry.AssignedAt
				break
			}
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b Passage) int { return b.Order.CreatedAt.Compare(a.Order.CreatedAt) })
	return out, nil
}
