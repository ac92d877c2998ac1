package app

import (
	"context"

	"roxtor-ops/backup"
	"roxtor-ops/database"
	"roxtor-ops/ledger"
	"roxtor-ops/models"
	"roxtor-ops/render"
)

func (c *Controller) Export() backup.Snapshot {
	s := c.Snapshot()
	return backup.Snapshot{
		Orders:     s.Orders,
		Products:   s.Products,
		Settings:   s.Settings,
		Leads:      s.Leads,
		ExportDate: c.now(),
	}
}

// Import replaces all four collections. Plaintext PINs in the file are
// hashed and order totals re-derived before anything is written.
func (c *Controller) Import(ctx context.Context, snap backup.Snapshot) error {
	settings, _, err := secureSettings(snap.Settings)
	if err != nil {
		return err
	}
	orders, repaired := recomputeOrders(snap.Orders)
	if repaired > 0 {
		c.log.WithField("orders", repaired).Warn("imported orders had stale totals, recomputed")
	}
	next := State{
		Products: snap.Products,
		Orders:   orders,
		Settings: settings,
		Leads:    snap.Leads,
	}
	if next.Products == nil {
		next.Products = []models.Product{}
	}
	if next.Orders == nil {
		next.Orders = []models.Order{}
	}
	if next.Leads == nil {
		next.Leads = []models.Lead{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.commit(ctx, next, database.KeySettings, database.KeyCatalog, database.KeyOrders, database.KeyLeads); err != nil {
		return err
	}
	c.log.WithField("orders", len(next.Orders)).WithField("products", len(next.Products)).Info("backup imported")
	return nil
}

// recomputeOrders returns a copy of orders with every financial field derived
// from items and payments, and how many orders changed.
func recomputeOrders(orders []models.Order) ([]models.Order, int) {
	if orders == nil {
		return nil, 0
	}
	out := make([]models.Order, len(orders))
	repaired := 0
	for i, o := range orders {
		before := o
		ledger.Recompute(&o)
		if o.TotalUSD != before.TotalUSD || o.TotalVES != before.TotalVES ||
			o.PaidAmountUSD != before.PaidAmountUSD || o.RemainingAmountUSD != before.RemainingAmountUSD {
			repaired++
		}
		out[i] = o
	}
	return out, repaired
}

func (c *Controller) Report() render.Report {
	s := c.Snapshot()
	return render.BuildReport(s.Orders, s.Settings, c.now())
}
