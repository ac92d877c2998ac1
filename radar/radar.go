// Package radar turns pasted chats into sales leads through an external
// completion service and exposes the other AI-backed helpers (speech,
// exchange rate lookup, catalog import) as injectable ports.
package radar

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"roxtor-ops/models"
)

var (
	ErrInputTooShort   = errors.New("text too short to analyze")
	ErrUnavailable     = errors.New("AI service not configured")
	ErrBadResponse     = errors.New("AI service returned an unusable response")
	ErrImplausibleRate = errors.New("exchange rate reading is implausible")
)

const (
	minInputLength = 5
	lastMessageLen = 100

	// MinPlausibleRate rejects readings that cannot be a current VES/USD rate.
	MinPlausibleRate = 20.0
)

// LeadRequest is what the completion service receives for one chat.
type LeadRequest struct {
	Text string
	Rate float64
	Tone models.AITone
}

// Extraction is the structured record the completion service answers with.
type Extraction struct {
	ClientName       string                   `json:"clientName"`
	Status           models.LeadStatus        `json:"status"`
	Summary          string                   `json:"summary"`
	SuggestedAction  string                   `json:"suggestedAction"`
	TotalQuoteUSD    float64                  `json:"totalQuoteUSD"`
	DetectedProducts []models.DetectedProduct `json:"detectedProducts"`
}

// Document is an uploaded PDF or image.
type Document struct {
	MIMEType string
	Data     []byte
}

type Extractor interface {
	ExtractLead(ctx context.Context, req LeadRequest) (Extraction, error)
}

// Speaker returns playable WAV audio for text.
type Speaker interface {
	Speak(ctx context.Context, text string, tone models.AITone) ([]byte, error)
}

type RateSource interface {
	FetchRate(ctx context.Context) (float64, error)
}

type CatalogExtractor interface {
	ExtractProducts(ctx context.Context, doc Document) ([]models.Product, error)
}

// Analyze validates text, asks ex for the structured lead and stamps it.
// On any failure no lead is returned.
func Analyze(ctx context.Context, ex Extractor, req LeadRequest, source, id string, now time.Time) (models.Lead, error) {
	text := strings.TrimSpace(req.Text)
	if utf8.RuneCountInString(text) < minInputLength {
		return models.Lead{}, ErrInputTooShort
	}
	req.Text = text

	out, err := ex.ExtractLead(ctx, req)
	if err != nil {
		return models.Lead{}, err
	}

	status := out.Status
	if !status.Valid() {
		status = models.LeadWarm
	}
	products := out.DetectedProducts
	if products == nil {
		products = []models.DetectedProduct{}
	}
	return models.Lead{
		ID:               id,
		ClientName:       strings.TrimSpace(out.ClientName),
		Status:           status,
		Summary:          out.Summary,
		SuggestedAction:  out.SuggestedAction,
		TotalQuoteUSD:    out.TotalQuoteUSD,
		DetectedProducts: products,
		LastMessage:      tail(text, lastMessageLen),
		LastUpdate:       now,
		AccountSource:    source,
	}, nil
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

var rateNumber = regexp.MustCompile(`\d+[,.]\d+`)

// ParseRate pulls the first decimal number out of free text, accepting a
// comma as the decimal separator.
func ParseRate(text string) (float64, error) {
	m := rateNumber.FindString(text)
	if m == "" {
		return 0, fmt.Errorf("%w: no number in %q", ErrImplausibleRate, text)
	}
	rate, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImplausibleRate, err)
	}
	return rate, nil
}

// CheckRate rejects readings at or below MinPlausibleRate.
func CheckRate(rate float64) error {
	if rate <= MinPlausibleRate {
		return fmt.Errorf("%w: %.2f", ErrImplausibleRate, rate)
	}
	return nil
}

// Disabled satisfies every port and always fails with ErrUnavailable.
type Disabled struct{}

func (Disabled) ExtractLead(context.Context, LeadRequest) (Extraction, error) {
	return Extraction{}, ErrUnavailable
}

func (Disabled) Speak(context.Context, string, models.AITone) ([]byte, error) {
	return nil, ErrUnavailable
}

func (Disabled) FetchRate(context.Context) (float64, error) {
	return 0, ErrUnavailable
}

func (Disabled) ExtractProducts(context.Context, Document) ([]models.Product, error) {
	return nil, ErrUnavailable
}
