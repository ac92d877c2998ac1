package radar

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roxtor-ops/models"
)

// fakeGemini answers generateContent calls with a single candidate built
// from parts.
func fakeGemini(t *testing.T, model string, parts ...map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, model)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"role": "model", "parts": parts}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGemini(t *testing.T, srv *httptest.Server) *Gemini {
	t.Helper()
	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		LeadModel: "lead-model",
		TTSModel:  "tts-model",
		RateModel: "rate-model",
		Voice:     "Kore",
	})
	require.NoError(t, err)
	return g
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiExtractLead(t *testing.T) {
	body := `{"clientName":"Pedro","status":"cold","summary":"pregunta precios","suggestedAction":"Hola Pedro","totalQuoteUSD":15,"detectedProducts":[{"name":"Gorra","quantity":3,"price":5}]}`
	g := newTestGemini(t, fakeGemini(t, "lead-model", map[string]any{"text": body}))

	out, err := g.ExtractLead(context.Background(), LeadRequest{Text: "cuanto cuesta la gorra", Rate: 40, Tone: models.ToneFriendly})
	require.NoError(t, err)
	assert.Equal(t, "Pedro", out.ClientName)
	assert.Equal(t, models.LeadCold, out.Status)
	require.Len(t, out.DetectedProducts, 1)
	assert.Equal(t, 3, out.DetectedProducts[0].Quantity)
}

func TestGeminiExtractLeadBadJSON(t *testing.T) {
	g := newTestGemini(t, fakeGemini(t, "lead-model", map[string]any{"text": "no json here"}))
	_, err := g.ExtractLead(context.Background(), LeadRequest{Text: "hola hola"})
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestGeminiSpeak(t *testing.T) {
	pcm := []byte{0, 1, 0, 2}
	g := newTestGemini(t, fakeGemini(t, "tts-model", map[string]any{
		"inlineData": map[string]any{
			"mimeType": "audio/L16;codec=pcm;rate=24000",
			"data":     base64.StdEncoding.EncodeToString(pcm),
		},
	}))

	wav, err := g.Speak(context.Background(), "Hola", models.ToneProfessional)
	require.NoError(t, err)
	assert.Equal(t, WAV(pcm, 24000), wav)
}

func TestGeminiFetchRate(t *testing.T) {
	g := newTestGemini(t, fakeGemini(t, "rate-model", map[string]any{"text": "36,45"}))
	rate, err := g.FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 36.45, rate)
}

func TestGeminiExtractProducts(t *testing.T) {
	body := `[{"name":"Chemise","price":14,"wholesalePrice":12,"fabricType":"Piqué"},{"name":"  ","price":1}]`
	g := newTestGemini(t, fakeGemini(t, "lead-model", map[string]any{"text": body}))

	products, err := g.ExtractProducts(context.Background(), Document{MIMEType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Chemise", products[0].Name)
	assert.Equal(t, models.DefaultDeliveryTime, products[0].DeliveryTime)
	assert.Equal(t, models.DefaultWholesaleDiscount, products[0].WholesaleDiscount)
	assert.True(t, strings.Contains(products[0].FabricType, "Piqu"))
}
