package render

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"roxtor-ops/models"
)

type MonthTotal struct {
	Month    string  `json:"month"` // YYYY-MM
	TotalUSD float64 `json:"totalUSD"`
}

type BranchStats struct {
	StoreID    string  `json:"storeId"`
	Name       string  `json:"name"`
	Orders     int     `json:"orders"`
	VolumeUSD  float64 `json:"volumeUSD"`
	PendingUSD float64 `json:"pendingUSD"`
}

type StaffStats struct {
	StaffID       string      `json:"staffId"`
	Name          string      `json:"name"`
	Role          models.Role `json:"role"`
	Orders        int         `json:"orders"`
	Completed     int         `json:"completed"`
	Effectiveness int         `json:"effectiveness"` // percent
	VolumeUSD     float64     `json:"volumeUSD"`
}

type Report struct {
	GeneratedAt   time.Time     `json:"generatedAt"`
	OrderCount    int           `json:"orderCount"`
	GrossUSD      float64       `json:"grossUSD"`
	ReceivableUSD float64       `json:"receivableUSD"`
	Monthly       []MonthTotal  `json:"monthly"`
	Branches      []BranchStats `json:"branches"`
	Staff         []StaffStats  `json:"staff"`
}

// BuildReport aggregates the whole order book. Orders from branches no
// longer configured still count toward the global totals.
func BuildReport(orders []models.Order, settings models.AppSettings, now time.Time) Report {
	gross, receivable := decimal.Zero, decimal.Zero
	monthly := map[string]decimal.Decimal{}

	for _, o := range orders {
		total := decimal.NewFromFloat(o.TotalUSD)
		gross = gross.Add(total)
		receivable = receivable.Add(decimal.NewFromFloat(o.RemainingAmountUSD))
		month := o.CreatedAt.Format("2006-01")
		monthly[month] = monthly[month].Add(total)
	}

	r := Report{
		GeneratedAt:   now,
		OrderCount:    len(orders),
		GrossUSD:      gross.InexactFloat64(),
		ReceivableUSD: receivable.InexactFloat64(),
		Monthly:       make([]MonthTotal, 0, len(monthly)),
		Branches:      make([]BranchStats, 0, len(settings.Stores)),
		Staff:         make([]StaffStats, 0, len(settings.Designers)),
	}
	for month, total := range monthly {
		r.Monthly = append(r.Monthly, MonthTotal{Month: month, TotalUSD: total.InexactFloat64()})
	}
	slices.SortFunc(r.Monthly, func(a, b MonthTotal) int { return cmp.Compare(a.Month, b.Month) })

	for _, s := range settings.Stores {
		volume, pending := decimal.Zero, decimal.Zero
		count := 0
		for _, o := range orders {
			if o.StoreID != s.ID {
				continue
			}
			count++
			volume = volume.Add(decimal.NewFromFloat(o.TotalUSD))
			pending = pending.Add(decimal.NewFromFloat(o.RemainingAmountUSD))
		}
		r.Branches = append(r.Branches, BranchStats{
			StoreID:    s.ID,
			Name:       s.Name,
			Orders:     count,
			VolumeUSD:  volume.InexactFloat64(),
			PendingUSD: pending.InexactFloat64(),
		})
	}

	for _, st := range settings.Designers {
		stats := StaffStats{StaffID: st.ID, Name: st.Name, Role: st.Role}
		volume := decimal.Zero
		for _, o := range orders {
			if !o.Touched(st.ID) {
				continue
			}
			stats.Orders++
			if o.Status.Finished() {
				stats.Completed++
			}
			volume = volume.Add(decimal.NewFromFloat(o.TotalUSD))
		}
		stats.VolumeUSD = volume.InexactFloat64()
		if stats.Orders > 0 {
			stats.Effectiveness = int(decimal.NewFromInt(int64(stats.Completed * 100)).
				Div(decimal.NewFromInt(int64(stats.Orders))).Round(0).IntPart())
		}
		r.Staff = append(r.Staff, stats)
	}
	slices.SortStableFunc(r.Staff, func(a, b StaffStats) int { return cmp.Compare(b.VolumeUSD, a.VolumeUSD) })
	return r
}
