package radar

import (
	"fmt"

	"google.golang.org/genai"

	"roxtor-ops/models"
)

func leadPrompt(rate float64, tone models.AITone) string {
	return fmt.Sprintf(`Eres el asistente de ventas de Inversiones Roxtor C.A. (Soluciones Creativas).
Analiza la conversación de WhatsApp que sigue.
Tasa BCV vigente: %.2f Bs/$.
Extrae el nombre del cliente y los productos que pide, con cantidad y precio unitario en USD.
Clasifica el interés del cliente como hot, warm o cold.
Redacta una respuesta de cierre con tono %s. Si cotizas en $, agrega el total en Bs con la tasa indicada.
Indica que aceptamos Pago Móvil y Transferencia Bancamiga.
Responde solo con el JSON pedido.`, rate, tone)
}

func speechPrompt(text string, tone models.AITone) string {
	return fmt.Sprintf("Lee este mensaje con tono %s y amable para un cliente de Inversiones Roxtor C.A.: %s", tone, text)
}

const ratePrompt = "Busca la tasa oficial del dólar publicada hoy por el Banco Central de Venezuela (bcv.org.ve). Responde únicamente con el número, por ejemplo 36.45."

const catalogPrompt = "Analiza este documento y extrae los productos textiles y servicios que ofrece. Incluye precio, precio al mayor, descripción, tipo de tela y técnicas cuando aparezcan."

var leadSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"clientName":      {Type: genai.TypeString},
		"status":          {Type: genai.TypeString, Enum: []string{"hot", "warm", "cold"}},
		"summary":         {Type: genai.TypeString},
		"suggestedAction": {Type: genai.TypeString},
		"totalQuoteUSD":   {Type: genai.TypeNumber},
		"detectedProducts": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString},
					"quantity": {Type: genai.TypeInteger},
					"price":    {Type: genai.TypeNumber},
				},
				Required: []string{"name", "quantity", "price"},
			},
		},
	},
	Required: []string{"clientName", "status", "summary", "suggestedAction", "totalQuoteUSD", "detectedProducts"},
}

var catalogSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":           {Type: genai.TypeString},
			"price":          {Type: genai.TypeNumber},
			"wholesalePrice": {Type: genai.TypeNumber},
			"description":    {Type: genai.TypeString},
			"fabricType":     {Type: genai.TypeString},
			"techniques":     {Type: genai.TypeString},
		},
		Required: []string{"name", "price"},
	},
}
