package models

import "time"

type PaymentMethod string

const (
	PaymentCashUSD      PaymentMethod = "Dólares Efectivo"
	PaymentMobile       PaymentMethod = "Pago Móvil"
	PaymentTransfer     PaymentMethod = "Transferencia"
	PaymentCardTerminal PaymentMethod = "Punto de Venta"
	PaymentCashVES      PaymentMethod = "Efectivo BS"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashUSD, PaymentMobile, PaymentTransfer, PaymentCardTerminal, PaymentCashVES:
		return true
	}
	return false
}

// InBolivars reports whether the money physically moved in VES.
func (m PaymentMethod) InBolivars() bool {
	switch m {
	case PaymentMobile, PaymentTransfer, PaymentCardTerminal, PaymentCashVES:
		return true
	}
	return false
}

// PaymentRecord is immutable once appended to an order.
type PaymentRecord struct {
	ID        string        `bson:"id" json:"id"`
	AmountUSD float64       `bson:"amountUSD" json:"amountUSD"`
	Method    PaymentMethod `bson:"method" json:"method"`
	Reference string        `bson:"reference,omitempty" json:"reference,omitempty"`
	Date      time.Time     `bson:"date" json:"date"`
}

type PaymentLog = AppendLog[PaymentRecord]
