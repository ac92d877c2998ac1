// Package render produces the printable order sheet, the global report and
// the messaging handoff links.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"roxtor-ops/ledger"
	"roxtor-ops/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"usd":    func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"ves":    func(v float64) string { return fmt.Sprintf("Bs. %.2f", v) },
	"stamp":  func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"status": StatusLabel,
	"image":  imageURL,
}).ParseFS(templateFS, "templates/*.html"))

// imageURL lets inline data images and http(s) links through the URL
// sanitizer. Anything else is left for html/template to neutralize.
func imageURL(s string) any {
	s = models.DirectImageURL(s)
	if strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return template.URL(s)
	}
	return s
}

type lineView struct {
	models.LineItem
	Subtotal float64
}

type orderSheet struct {
	Company      models.AppSettings
	Store        models.StoreInfo
	Order        models.Order
	Lines        []lineView
	Payments     []models.PaymentRecord
	Assignments  []models.AssignmentLog
	PaidVES      float64
	RemainingVES float64
	Urgency      ledger.UrgencyStatus
}

// RenderOrder writes the order sheet. VES amounts use the rate snapshotted
// on the order.
func RenderOrder(w io.Writer, o models.Order, settings models.AppSettings, now time.Time) error {
	store, _ := settings.Store(o.StoreID)
	sheet := orderSheet{
		Company:      settings,
		Store:        store,
		Order:        o,
		Lines:        make([]lineView, len(o.Items)),
		Payments:     o.Payments.All(),
		Assignments:  o.AssignmentHistory.All(),
		PaidVES:      ledger.ToVES(o.PaidAmountUSD, o.ExchangeRateUsed),
		RemainingVES: ledger.ToVES(o.RemainingAmountUSD, o.ExchangeRateUsed),
		Urgency:      ledger.ClassifyOrder(o, now),
	}
	for i, it := range o.Items {
		sheet.Lines[i] = lineView{
			LineItem: it,
			Subtotal: ledger.ItemsTotal([]models.LineItem{it}).InexactFloat64(),
		}
	}
	return templates.ExecuteTemplate(w, "order.html", sheet)
}

type reportSheet struct {
	Company models.AppSettings
	Report  Report
	Rate    float64
}

func RenderReport(w io.Writer, r Report, settings models.AppSettings) error {
	return templates.ExecuteTemplate(w, "report.html", reportSheet{
		Company: settings,
		Report:  r,
		Rate:    settings.CurrentBcvRate,
	})
}
