package ledger

import (
	"fmt"
	"time"

	"roxtor-ops/models"
)

type Urgency string

const (
	UrgencyNoAlert  Urgency = "no_alert"
	UrgencyOverdue  Urgency = "overdue"
	UrgencyDueToday Urgency = "due_today"
	UrgencyImminent Urgency = "imminent"
	UrgencyNormal   Urgency = "normal"
)

// imminentDays is the last day count that still raises an alert.
const imminentDays = 2

type UrgencyStatus struct {
	Level    Urgency `json:"level"`
	Alert    bool    `json:"alert"`
	DaysLeft int     `json:"daysLeft"`
	Label    string  `json:"label"`
}

// Classify is a pure function of delivery date, status and today. Days are
// counted on the calendar of today's location.
func Classify(delivery time.Time, status models.OrderStatus, today time.Time) UrgencyStatus {
	switch status {
	case models.StatusDelivered:
		return UrgencyStatus{Level: UrgencyNoAlert, Label: "ENTREGADA"}
	case models.StatusReady:
		return UrgencyStatus{Level: UrgencyNoAlert, Label: "LISTO"}
	}

	days := DaysBetween(today, delivery)
	switch {
	case days < 0:
		return UrgencyStatus{Level: UrgencyOverdue, Alert: true, DaysLeft: days, Label: "¡VENCIDA!"}
	case days == 0:
		return UrgencyStatus{Level: UrgencyDueToday, Alert: true, Label: "ENTREGA HOY"}
	case days <= imminentDays:
		return UrgencyStatus{Level: UrgencyImminent, Alert: true, DaysLeft: days, Label: fmt.Sprintf("QUEDAN %d DÍAS", days)}
	default:
		return UrgencyStatus{Level: UrgencyNormal, DaysLeft: days, Label: fmt.Sprintf("%d DÍAS RESTANTES", days)}
	}
}

// ClassifyOrder parses the order's YYYY-MM-DD delivery date in now's location.
// Orders without a usable date never alert.
func ClassifyOrder(o models.Order, now time.Time) UrgencyStatus {
	if o.Status.Finished() {
		return Classify(now, o.Status, now)
	}
	delivery, err := time.ParseInLocation(time.DateOnly, o.DeliveryDate, now.Location())
	if err != nil {
		return UrgencyStatus{Level: UrgencyNoAlert, Label: "SIN FECHA"}
	}
	return Classify(delivery, o.Status, now)
}

// DaysBetween counts calendar days from a to b, using a's location for both.
func DaysBetween(a, b time.Time) int {
	b = b.In(a.Location())
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
