package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roxtor-ops/models"
)

var now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testSettings() models.AppSettings {
	return models.AppSettings{
		CurrentBcvRate: 40,
		Stores: []models.StoreInfo{
			{ID: "s1", Name: "Principal", Code: "M", LastOrderNumber: 1000},
			{ID: "s2", Name: "Centro", Code: "C", LastOrderNumber: 2000},
		},
		Designers: []models.Staff{
			{ID: "a", Name: "Ana", Role: models.RoleAgent},
			{ID: "b", Name: "Beto", Role: models.RoleDesigner},
		},
	}
}

func TestNewOrderWithInitialPayment(t *testing.T) {
	settings := testSettings()
	draft := Draft{
		ClientName: "Maria",
		StoreID:    "s1",
		Items:      []models.LineItem{{Name: "Franela", Price: 10, Quantity: 2}},
		InitialPayment: &PaymentInput{
			AmountUSD: 5,
			Method:    models.PaymentCashUSD,
		},
	}

	order, next, err := NewOrder(draft, settings, sequentialIDs(), now)
	require.NoError(t, err)

	assert.Equal(t, "M-1001", order.OrderNumber)
	assert.Equal(t, 20.0, order.TotalUSD)
	assert.Equal(t, 800.0, order.TotalVES)
	assert.Equal(t, 5.0, order.PaidAmountUSD)
	assert.Equal(t, 15.0, order.RemainingAmountUSD)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 40.0, order.ExchangeRateUsed)
	require.Equal(t, 1, order.Payments.Len())
	assert.Equal(t, now, order.Payments.At(0).Date)

	assert.Equal(t, 1001, next.Stores[0].LastOrderNumber)
	assert.Equal(t, 2000, next.Stores[1].LastOrderNumber)
	assert.Equal(t, 1000, settings.Stores[0].LastOrderNumber, "input settings must not change")
}

func TestNewOrderValidation(t *testing.T) {
	ids := sequentialIDs()
	items := []models.LineItem{{Name: "Gorra", Price: 5, Quantity: 1}}

	_, _, err := NewOrder(Draft{ClientName: "  ", Items: items}, testSettings(), ids, now)
	assert.ErrorIs(t, err, ErrClientNameRequired)

	_, _, err = NewOrder(Draft{ClientName: "Luis"}, testSettings(), ids, now)
	assert.ErrorIs(t, err, ErrNoItems)

	_, _, err = NewOrder(Draft{ClientName: "Luis", Items: items}, models.AppSettings{}, ids, now)
	assert.ErrorIs(t, err, ErrUnknownBranch)

	_, _, err = NewOrder(Draft{ClientName: "Luis", Items: items, AssignedToID: "ghost"}, testSettings(), ids, now)
	assert.ErrorIs(t, err, ErrUnknownStaff)

	bad := &PaymentInput{AmountUSD: 1, Method: "Bitcoin"}
	_, _, err = NewOrder(Draft{ClientName: "Luis", Items: items, InitialPayment: bad}, testSettings(), ids, now)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestNewOrderDefaults(t *testing.T) {
	draft := Draft{
		ClientName:     "Luis",
		StoreID:        "missing",
		Items:          []models.LineItem{{Price: 3, Quantity: 3}},
		AssignedToID:   "b",
		InitialPayment: &PaymentInput{AmountUSD: 0},
	}
	order, next, err := NewOrder(draft, testSettings(), sequentialIDs(), now)
	require.NoError(t, err)

	assert.Equal(t, "s1", order.StoreID, "unknown branch falls back to the first one")
	assert.Equal(t, 1001, next.Stores[0].LastOrderNumber)
	assert.Equal(t, "Personalizado", order.Items[0].Name)
	assert.Equal(t, 0, order.Payments.Len(), "zero initial payment is not recorded")
	assert.Equal(t, 9.0, order.RemainingAmountUSD)

	assert.Equal(t, "b", order.AgentID)
	assert.Equal(t, "b", order.AssignedToID)
	require.Equal(t, 1, order.AssignmentHistory.Len())
	entry := order.AssignmentHistory.At(0)
	assert.Equal(t, "Beto", entry.AgentName)
	assert.Equal(t, models.RoleDesigner, entry.Role)
}

func TestOrderNumbersAreSequential(t *testing.T) {
	settings := testSettings()
	ids := sequentialIDs()
	items := []models.LineItem{{Name: "Taza", Price: 4, Quantity: 1}}

	seen := map[string]bool{}
	for i := 1; i <= 5; i++ {
		order, next, err := NewOrder(Draft{ClientName: "Cliente", StoreID: "s2", Items: items}, settings, ids, now)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("C-%d", 2000+i), order.OrderNumber)
		assert.False(t, seen[order.OrderNumber])
		seen[order.OrderNumber] = true
		settings = next
	}
	assert.Equal(t, 2005, settings.Stores[1].LastOrderNumber)
	assert.Equal(t, 1000, settings.Stores[0].LastOrderNumber)
}

func TestRegisterPayment(t *testing.T) {
	order, _, err := NewOrder(Draft{
		ClientName: "Maria",
		Items:      []models.LineItem{{Name: "Franela", Price: 10, Quantity: 2}},
	}, testSettings(), sequentialIDs(), now)
	require.NoError(t, err)

	applied, err := RegisterPayment(&order, PaymentInput{AmountUSD: 0.1, Method: models.PaymentMobile, Reference: " 0042 "}, "p1", now)
	require.NoError(t, err)
	assert.True(t, applied)
	applied, err = RegisterPayment(&order, PaymentInput{AmountUSD: 0.2}, "p2", now)
	require.NoError(t, err)
	assert.True(t, applied)

	assert.Equal(t, 0.3, order.PaidAmountUSD)
	assert.Equal(t, 19.7, order.RemainingAmountUSD)
	assert.Equal(t, "0042", order.Payments.At(0).Reference)
	assert.Equal(t, models.PaymentCashUSD, order.Payments.At(1).Method)

	applied, err = RegisterPayment(&order, PaymentInput{AmountUSD: -5}, "p3", now)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 2, order.Payments.Len())

	_, err = RegisterPayment(&order, PaymentInput{AmountUSD: 1, Method: "Trueque"}, "p4", now)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	assert.Equal(t, 2, order.Payments.Len())

	applied, err = RegisterPayment(&order, PaymentInput{AmountUSD: 25}, "p5", now)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, -5.3, order.RemainingAmountUSD)
	assert.True(t, order.Paid())
}

func TestPaymentsDoNotLeakBetweenCopies(t *testing.T) {
	order := models.Order{Items: []models.LineItem{{Name: "X", Price: 10, Quantity: 1}}}
	_, err := RegisterPayment(&order, PaymentInput{AmountUSD: 1}, "p1", now)
	require.NoError(t, err)

	clone := order
	_, err = RegisterPayment(&clone, PaymentInput{AmountUSD: 2}, "p2", now)
	require.NoError(t, err)
	_, err = RegisterPayment(&order, PaymentInput{AmountUSD: 3}, "p3", now)
	require.NoError(t, err)

	assert.Equal(t, "p2", clone.Payments.At(1).ID)
	assert.Equal(t, "p3", order.Payments.At(1).ID)
	assert.Equal(t, 6.0, order.RemainingAmountUSD)
	assert.Equal(t, 7.0, clone.RemainingAmountUSD)
}

func TestReassign(t *testing.T) {
	settings := testSettings()
	order := models.Order{}
	a, _ := settings.StaffMember("a")
	b, _ := settings.StaffMember("b")

	Reassign(&order, a, now)
	Reassign(&order, b, now.Add(time.Hour))
	Reassign(&order, b, now.Add(2*time.Hour))

	assert.Equal(t, "b", order.AssignedToID)
	require.Equal(t, 3, order.AssignmentHistory.Len())
	assert.Equal(t, "a", order.AssignmentHistory.At(0).AgentID)
	assert.Equal(t, "b", order.AssignmentHistory.At(1).AgentID)
	assert.Equal(t, "b", order.AssignmentHistory.At(2).AgentID)
	assert.True(t, order.Touched("a"))
	assert.False(t, order.Touched("c"))
}

func TestAdvance(t *testing.T) {
	order := models.Order{Status: models.StatusPending}

	err := Advance(&order, models.StatusReady, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusPending, order.Status)

	require.NoError(t, Advance(&order, models.StatusInProcess, now))
	require.NoError(t, AdvanceNext(&order, now))
	assert.Equal(t, models.StatusReady, order.Status)
	assert.Nil(t, order.CompletedAt)

	err = Advance(&order, models.StatusPending, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, AdvanceNext(&order, now))
	assert.Equal(t, models.StatusDelivered, order.Status)
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, now, *order.CompletedAt)

	assert.ErrorIs(t, AdvanceNext(&order, now), ErrInvalidTransition)
}

func TestToVES(t *testing.T) {
	assert.Equal(t, 364.5, ToVES(10, 36.45))
	assert.Equal(t, 0.0, ToVES(0, 36.45))
}
