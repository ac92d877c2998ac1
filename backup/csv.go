package backup

import (
	"encoding/csv"
	"io"
	"strconv"

	"roxtor-ops/models"
)

var orderColumns = []string{
	"Orden", "Fecha", "Cliente", "Documento", "Teléfono", "Sede", "Estado", "Responsable",
	"Entrega", "Total USD", "Tasa", "Total Bs", "Abonado USD", "Restante USD",
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orderRow(o models.Order, settings models.AppSettings) []string {
	store, _ := settings.Store(o.StoreID)
	staff, _ := settings.StaffMember(o.AssignedToID)
	return []string{
		o.OrderNumber,
		o.CreatedAt.Format("2006-01-02 15:04"),
		o.ClientName,
		o.ClientDoc,
		o.ClientPhone,
		store.Name,
		string(o.Status),
		staff.Name,
		o.DeliveryDate,
		money(o.TotalUSD),
		money(o.ExchangeRateUsed),
		money(o.TotalVES),
		money(o.PaidAmountUSD),
		money(o.RemainingAmountUSD),
	}
}

// WriteOrdersCSV writes one row per order.
func WriteOrdersCSV(w io.Writer, orders []models.Order, settings models.AppSettings) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderColumns); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(orderRow(o, settings)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
