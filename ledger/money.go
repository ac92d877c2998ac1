package ledger

import (
	"github.com/shopspring/decimal"

	"roxtor-ops/models"
)

// Amounts are stored as float64 but every sum goes through decimal so
// repeated payments never accumulate binary rounding noise.
func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// ItemsTotal is Σ(price × quantity).
func ItemsTotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(money(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// PaidTotal is Σ(payment.amountUSD) over the whole log.
func PaidTotal(payments models.PaymentLog) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments.All() {
		paid = paid.Add(money(p.AmountUSD))
	}
	return paid
}

// Recompute derives every financial field of the order from its items, its
// payment log and the rate snapshotted at creation. Nothing is incremental.
func Recompute(o *models.Order) {
	total := ItemsTotal(o.Items)
	paid := PaidTotal(o.Payments)
	o.TotalUSD = total.InexactFloat64()
	o.TotalVES = total.Mul(money(o.ExchangeRateUsed)).InexactFloat64()
	o.PaidAmountUSD = paid.InexactFloat64()
	o.RemainingAmountUSD = total.Sub(paid).InexactFloat64()
}

// ToVES converts a USD amount with the given rate, rounded to cents.
func ToVES(usd, rate float64) float64 {
	return money(usd).Mul(money(rate)).Round(2).InexactFloat64()
}
