package insights

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/models"
)

const promptTemplate = `Based on these daily productivity statistics: "%s", provide a short, motivating 2-sentence summary and 2 actionable tips for better focus tomorrow. Format as JSON: { "summary": "...", "tips": ["...", "..."] }`

// contentGenerator is satisfied by genai's client.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates insights with the Gemini API.
type Gemini struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGemini creates a client for the Gemini API. An empty model selects
// the default.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no Gemini API key configured", ErrUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Models, model, timeout), nil
}

func newGemini(m contentGenerator, model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = constants.DefaultInsightModel
	}
	if timeout <= 0 {
		timeout = constants.DefaultInsightTimeout
	}
	return &Gemini{models: m, model: model, timeout: timeout}
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A motivating summary of the performance.",
			},
			"tips": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Actionable tips for improvement.",
			},
		},
		Required:         []string{"summary", "tips"},
		PropertyOrdering: []string{"summary", "tips"},
	}
}

func (g *Gemini) Generate(ctx context.Context, description string) (models.Insights, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(promptTemplate, description)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return models.Insights{}, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil {
		return models.Insights{}, fmt.Errorf("gemini returned no response")
	}
	return parse(resp.Text())
}
