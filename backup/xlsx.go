package backup

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"roxtor-ops/models"
	"roxtor-ops/render"
)

const (
	sheetOrders   = "Órdenes"
	sheetBranches = "Sedes"
	sheetStaff    = "Equipo"
)

// WriteReportXLSX writes a workbook with the order book and the branch and
// staff summaries of r.
func WriteReportXLSX(w io.Writer, orders []models.Order, r render.Report, settings models.AppSettings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOrders); err != nil {
		return err
	}
	for _, name := range []string{sheetBranches, sheetStaff} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E3A8A"}},
	})
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		store, _ := settings.Store(o.StoreID)
		staff, _ := settings.StaffMember(o.AssignedToID)
		rows = append(rows, []any{
			o.OrderNumber, o.CreatedAt.Format("2006-01-02"), o.ClientName, store.Name, string(o.Status),
			staff.Name, o.TotalUSD, o.ExchangeRateUsed, o.TotalVES, o.PaidAmountUSD, o.RemainingAmountUSD,
		})
	}
	if err := writeSheet(f, sheetOrders, header, []any{
		"Orden", "Fecha", "Cliente", "Sede", "Estado", "Responsable",
		"Total USD", "Tasa", "Total Bs", "Abonado USD", "Restante USD",
	}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, b := range r.Branches {
		rows = append(rows, []any{b.Name, b.Orders, b.VolumeUSD, b.PendingUSD})
	}
	if err := writeSheet(f, sheetBranches, header, []any{"Sede", "Órdenes", "Volumen USD", "Por cobrar USD"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, s := range r.Staff {
		rows = append(rows, []any{s.Name, string(s.Role), s.Orders, s.Completed, s.Effectiveness, s.VolumeUSD})
	}
	if err := writeSheet(f, sheetStaff, header, []any{"Nombre", "Rol", "Órdenes", "Completadas", "Efectividad %", "Volumen USD"}, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, style int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}
