package radar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"roxtor-ops/models"
)

type GeminiConfig struct {
	APIKey    string
	BaseURL   string // tests only
	LeadModel string
	TTSModel  string
	RateModel string
	Voice     string
}

// Gemini implements every port on top of the Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrUnavailable
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func userContent(parts ...*genai.Part) []*genai.Content {
	return []*genai.Content{{Role: "user", Parts: parts}}
}

// firstParts returns the parts of the first candidate.
func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, p := range firstParts(resp) {
		if p != nil && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func (g *Gemini) ExtractLead(ctx context.Context, req LeadRequest) (Extraction, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   leadSchema,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.LeadModel,
		userContent(&genai.Part{Text: leadPrompt(req.Rate, req.Tone)}, &genai.Part{Text: req.Text}), cfg)
	if err != nil {
		return Extraction{}, fmt.Errorf("extract lead: %w", err)
	}

	var out Extraction
	if err := json.Unmarshal([]byte(responseText(resp)), &out); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return out, nil
}

func (g *Gemini) Speak(ctx context.Context, text string, tone models.AITone) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.cfg.Voice},
			},
		},
	}
	cfg.ResponseModalities = append(cfg.ResponseModalities, "AUDIO")

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TTSModel, userContent(&genai.Part{Text: speechPrompt(text, tone)}), cfg)
	if err != nil {
		return nil, fmt.Errorf("speak: %w", err)
	}
	for _, p := range firstParts(resp) {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return WAV(p.InlineData.Data, sampleRateOf(p.InlineData.MIMEType)), nil
		}
	}
	return nil, fmt.Errorf("%w: no audio", ErrBadResponse)
}

func (g *Gemini) FetchRate(ctx context.Context) (float64, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.RateModel, userContent(&genai.Part{Text: ratePrompt}), cfg)
	if err != nil {
		return 0, fmt.Errorf("fetch rate: %w", err)
	}
	return ParseRate(responseText(resp))
}

type extractedProduct struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	WholesalePrice float64 `json:"wholesalePrice"`
	Description    string  `json:"description"`
	FabricType     string  `json:"fabricType"`
	Techniques     string  `json:"techniques"`
}

func (g *Gemini) ExtractProducts(ctx context.Context, doc Document) ([]models.Product, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   catalogSchema,
	}
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data}},
		{Text: catalogPrompt},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.LeadModel, userContent(parts...), cfg)
	if err != nil {
		return nil, fmt.Errorf("extract products: %w", err)
	}

	var items []extractedProduct
	if err := json.Unmarshal([]byte(responseText(resp)), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	products := make([]models.Product, 0, len(items))
	for _, it := range items {
		p := models.Product{
			Name:           strings.TrimSpace(it.Name),
			Price:          it.Price,
			WholesalePrice: it.WholesalePrice,
			Description:    it.Description,
			FabricType:     it.FabricType,
			Techniques:     it.Techniques,
		}
		if p.Name == "" {
			continue
		}
		p.ApplyDefaults()
		products = append(products, p)
	}
	return products, nil
}
