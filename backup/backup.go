// Package backup moves the whole data set in and out of the service as a
// JSON file, a base64 clipboard blob, a CSV of orders or an XLSX workbook.
package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"roxtor-ops/models"
)

var ErrInvalidBackup = errors.New("invalid backup file")

type Snapshot struct {
	Orders     []models.Order     `json:"orders"`
	Products   []models.Product   `json:"products"`
	Settings   models.AppSettings `json:"settings"`
	Leads      []models.Lead      `json:"leads"`
	ExportDate time.Time          `json:"exportDate"`
}

func Write(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(s)); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Read decodes a backup. Files without a settings object are rejected so a
// random JSON file can never wipe the configuration.
func Read(r io.Reader) (Snapshot, error) {
	var raw struct {
		Orders     []models.Order      `json:"orders"`
		Products   []models.Product    `json:"products"`
		Settings   *models.AppSettings `json:"settings"`
		Leads      []models.Lead       `json:"leads"`
		ExportDate time.Time           `json:"exportDate"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if raw.Settings == nil {
		return Snapshot{}, fmt.Errorf("%w: settings missing", ErrInvalidBackup)
	}
	return normalize(Snapshot{
		Orders:     raw.Orders,
		Products:   raw.Products,
		Settings:   *raw.Settings,
		Leads:      raw.Leads,
		ExportDate: raw.ExportDate,
	}), nil
}

func EncodeBlob(s Snapshot) (string, error) {
	var sb strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if err := json.NewEncoder(enc).Encode(normalize(s)); err != nil {
		return "", fmt.Errorf("encode blob: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode blob: %w", err)
	}
	return sb.String(), nil
}

func DecodeBlob(blob string) (Snapshot, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(blob), ""))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return Read(strings.NewReader(string(data)))
}

// normalize replaces nil collections with empty ones so every encoding
// writes [] rather than null.
func normalize(s Snapshot) Snapshot {
	if s.Orders == nil {
		s.Orders = []models.Order{}
	}
	if s.Products == nil {
		s.Products = []models.Product{}
	}
	if s.Leads == nil {
		s.Leads = []models.Lead{}
	}
	return s
}
