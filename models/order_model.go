package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pendiente"
	StatusInProcess OrderStatus = "en_proceso"
	StatusReady     OrderStatus = "listo"
	StatusDelivered OrderStatus = "entregado"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProcess, StatusReady, StatusDelivered:
		return true
	}
	return false
}

// Next returns the only status s may move to. Delivered is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusInProcess, true
	case StatusInProcess:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	}
	return "", false
}

// Finished is true once the work is done (ready or already handed over).
func (s OrderStatus) Finished() bool {
	return s == StatusReady || s == StatusDelivered
}

type LineItem struct {
	ProductID     string  `bson:"productId,omitempty" json:"productId,omitempty"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	CustomDetails string  `bson:"customDetails,omitempty" json:"customDetails,omitempty"`
}

// AssignmentLog snapshots who was responsible for the order and when. Name
// and role are copied from the roster at assignment time.
type AssignmentLog struct {
	AgentID    string    `bson:"agentId" json:"agentId"`
	AgentName  string    `bson:"agentName" json:"agentName"`
	Role       Role      `bson:"role" json:"role"`
	AssignedAt time.Time `bson:"assignedAt" json:"assignedAt"`
}

type AssignmentHistory = AppendLog[AssignmentLog]

type Order struct {
	ID              string     `bson:"id" json:"id"`
	OrderNumber     string     `bson:"orderNumber" json:"orderNumber"`
	ClientName      string     `bson:"clientName" json:"clientName"`
	ClientDoc       string     `bson:"clientDoc" json:"clientDoc"`
	ClientPhone     string     `bson:"clientPhone" json:"clientPhone"`
	ClientAddress   string     `bson:"clientAddress" json:"clientAddress"`
	DeliveryDate    string     `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"` // YYYY-MM-DD
	JobDescription  string     `bson:"jobDescription,omitempty" json:"jobDescription,omitempty"`
	ReferenceImages []string   `bson:"referenceImages,omitempty" json:"referenceImages,omitempty"`
	Items           []LineItem `bson:"items" json:"items"`

	TotalUSD           float64    `bson:"totalUSD" json:"totalUSD"`
	TotalVES           float64    `bson:"totalVES" json:"totalVES"`
	ExchangeRateUsed   float64    `bson:"exchangeRateUsed" json:"exchangeRateUsed"`
	Payments           PaymentLog `bson:"payments" json:"payments"`
	PaidAmountUSD      float64    `bson:"paidAmountUSD" json:"paidAmountUSD"`
	RemainingAmountUSD float64    `bson:"remainingAmountUSD" json:"remainingAmountUSD"`

	Status            OrderStatus       `bson:"status" json:"status"`
	AgentID           string            `bson:"agentId" json:"agentId"`
	AssignedToID      string            `bson:"assignedToId,omitempty" json:"assignedToId,omitempty"`
	AssignmentHistory AssignmentHistory `bson:"assignmentHistory" json:"assignmentHistory"`

	StoreID     string     `bson:"storeId" json:"storeId"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// Touched reports whether staffID is or ever was responsible for the order.
func (o Order) Touched(staffID string) bool {
	if o.AssignedToID == staffID {
		return true
	}
	for i := 0; i < o.AssignmentHistory.Len(); i++ {
		if o.AssignmentHistory.At(i).AgentID == staffID {
			return true
		}
	}
	return false
}

// Paid is true when nothing is left to collect.
func (o Order) Paid() bool {
	return o.RemainingAmountUSD <= 0
}
