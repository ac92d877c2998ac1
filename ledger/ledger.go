// Package ledger holds the rules by which an order's financial and
// responsibility state evolves: creation, payments, reassignment and status.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"roxtor-ops/models"
)

var (
	ErrClientNameRequired   = errors.New("client name is required")
	ErrNoItems              = errors.New("order needs at least one item")
	ErrUnknownBranch        = errors.New("no branch configured")
	ErrUnknownStaff         = errors.New("staff member not found")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

const customItemName = "Personalizado"

// IDFunc allocates identifiers for orders and payments.
type IDFunc func() string

type PaymentInput struct {
	AmountUSD float64              `json:"amountUSD"`
	Method    models.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
}

func (in PaymentInput) record(id string, now time.Time) (models.PaymentRecord, error) {
	method := in.Method
	if method == "" {
		method = models.PaymentCashUSD
	}
	if !method.Valid() {
		return models.PaymentRecord{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.Method)
	}
	return models.PaymentRecord{
		ID:        id,
		AmountUSD: in.AmountUSD,
		Method:    method,
		Reference: strings.TrimSpace(in.Reference),
		Date:      now,
	}, nil
}

// Draft is what the order form submits.
type Draft struct {
	ClientName      string            `json:"clientName"`
	ClientDoc       string            `json:"clientDoc"`
	ClientPhone     string            `json:"clientPhone"`
	ClientAddress   string            `json:"clientAddress"`
	DeliveryDate    string            `json:"deliveryDate"`
	JobDescription  string            `json:"jobDescription"`
	ReferenceImages []string          `json:"referenceImages"`
	Items           []models.LineItem `json:"items"`
	StoreID         string            `json:"storeId"`
	AssignedToID    string            `json:"assignedToId"`
	InitialPayment  *PaymentInput     `json:"initialPayment"`
}

// NewOrder builds the order described by d and returns it together with the
// settings whose branch counter has been advanced by one. Callers must
// persist both or neither. settings itself is not modified.
func NewOrder(d Draft, settings models.AppSettings, newID IDFunc, now time.Time) (models.Order, models.AppSettings, error) {
	if strings.TrimSpace(d.ClientName) == "" {
		return models.Order{}, settings, ErrClientNameRequired
	}
	if len(d.Items) == 0 {
		return models.Order{}, settings, ErrNoItems
	}

	next := settings.Clone()
	branch := -1
	for i, s := range next.Stores {
		if s.ID == d.StoreID {
			branch = i
			break
		}
	}
	if branch < 0 {
		if len(next.Stores) == 0 {
			return models.Order{}, settings, ErrUnknownBranch
		}
		branch = 0
	}
	store := next.Stores[branch]

	items := make([]models.LineItem, len(d.Items))
	for i, it := range d.Items {
		if strings.TrimSpace(it.Name) == "" {
			it.Name = customItemName
		}
		items[i] = it
	}

	order := models.Order{
		ID:               newID(),
		OrderNumber:      store.NextOrderNumber(),
		ClientName:       strings.TrimSpace(d.ClientName),
		ClientDoc:        d.ClientDoc,
		ClientPhone:      d.ClientPhone,
		ClientAddress:    d.ClientAddress,
		DeliveryDate:     d.DeliveryDate,
		JobDescription:   d.JobDescription,
		ReferenceImages:  d.ReferenceImages,
		Items:            items,
		ExchangeRateUsed: settings.CurrentBcvRate,
		Status:           models.StatusPending,
		StoreID:          store.ID,
		CreatedAt:        now,
	}

	if d.AssignedToID != "" {
		staff, ok := settings.StaffMember(d.AssignedToID)
		if !ok {
			return models.Order{}, settings, fmt.Errorf("%w: %s", ErrUnknownStaff, d.AssignedToID)
		}
		order.AgentID = staff.ID
		Reassign(&order, staff, now)
	}

	if d.InitialPayment != nil && d.InitialPayment.AmountUSD > 0 {
		rec, err := d.InitialPayment.record(newID(), now)
		if err != nil {
			return models.Order{}, settings, err
		}
		order.Payments = order.Payments.Append(rec)
	}

	Recompute(&order)

	store.LastOrderNumber++
	next.Stores[branch] = store
	return order, next, nil
}

// RegisterPayment appends a payment and recomputes the balance from the full
// log. Non-positive amounts are ignored and reported as not applied.
// Over-payment is allowed; the remaining balance then goes negative.
func RegisterPayment(o *models.Order, in PaymentInput, id string, now time.Time) (bool, error) {
	if in.AmountUSD <= 0 {
		return false, nil
	}
	rec, err := in.record(id, now)
	if err != nil {
		return false, err
	}
	o.Payments = o.Payments.Append(rec)
	Recompute(o)
	return true, nil
}

// Reassign hands the order to staff, snapshotting name and role into the
// history. Reassigning to the current assignee still logs a new entry.
func Reassign(o *models.Order, staff models.Staff, now time.Time) {
	o.AssignmentHistory = o.AssignmentHistory.Append(models.AssignmentLog{
		AgentID:    staff.ID,
		AgentName:  staff.Name,
		Role:       staff.Role,
		AssignedAt: now,
	})
	o.AssignedToID = staff.ID
}

// Advance moves the order to target, which must be the immediate successor
// of its current status.
func Advance(o *models.Order, target models.OrderStatus, now time.Time) error {
	next, ok := o.Status.Next()
	if !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	if target == models.StatusDelivered {
		t := now
		o.CompletedAt = &t
	}
	return nil
}

// AdvanceNext is the staff "next step" button.
func AdvanceNext(o *models.Order, now time.Time) error {
	next, ok := o.Status.Next()
	if !ok {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, o.Status)
	}
	return Advance(o, next, now)
}
