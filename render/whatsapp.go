package render

import (
	"fmt"
	"net/url"
	"strings"

	"roxtor-ops/models"
)

const waBase = "https://wa.me/"

// ShareLink builds a wa.me link that opens a chat with phone pre-filled
// with text. An empty phone lets the user pick the contact.
func ShareLink(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return waBase + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

var statusLabels = map[models.OrderStatus]string{
	models.StatusPending:   "Pendiente",
	models.StatusInProcess: "En proceso",
	models.StatusReady:     "Listo para entregar",
	models.StatusDelivered: "Entregado",
}

func StatusLabel(s models.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func OrderMessage(o models.Order, settings models.AppSettings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", settings.CompanyName)
	fmt.Fprintf(&sb, "Hola %s, este es el resumen de tu orden *%s*:\n", o.ClientName, o.OrderNumber)
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "• %d x %s: $%.2f\n", it.Quantity, it.Name, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&sb, "Total: $%.2f (Bs. %.2f)\n", o.TotalUSD, o.TotalVES)
	fmt.Fprintf(&sb, "Abonado: $%.2f\n", o.PaidAmountUSD)
	fmt.Fprintf(&sb, "Restante: $%.2f\n", o.RemainingAmountUSD)
	fmt.Fprintf(&sb, "Estado: %s", StatusLabel(o.Status))
	if o.DeliveryDate != "" {
		fmt.Fprintf(&sb, "\nEntrega: %s", o.DeliveryDate)
	}
	return sb.String()
}

func OrderShareLink(o models.Order, settings models.AppSettings) string {
	return ShareLink(o.ClientPhone, OrderMessage(o, settings))
}

func ReportMessage(r Report, settings models.AppSettings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* - Reporte general\n", settings.CompanyName)
	fmt.Fprintf(&sb, "Órdenes: %d\n", r.OrderCount)
	fmt.Fprintf(&sb, "Ventas: $%.2f\n", r.GrossUSD)
	fmt.Fprintf(&sb, "Por cobrar: $%.2f", r.ReceivableUSD)
	for _, b := range r.Branches {
		fmt.Fprintf(&sb, "\n%s: %d órdenes, $%.2f", b.Name, b.Orders, b.VolumeUSD)
	}
	return sb.String()
}

func ReportShareLink(phone string, r Report, settings models.AppSettings) string {
	return ShareLink(phone, ReportMessage(r, settings))
}
