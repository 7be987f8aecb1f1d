package clients

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-tripplan/internal/app/domain/itinerary"
)

// ItinerarySource produces free-form itinerary text for a trip. The parser
// downstream tolerates whatever shape comes back, so implementations are not
// held to a strict format.
type ItinerarySource interface {
	GenerateItinerary(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest carries the trip parameters the model plans around.
type GenerateRequest struct {
	Destination string
	Duration    int
	Budget      *float64
	Interests   []string
}

// GenAISource generates itineraries with the Gemini API.
type GenAISource struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGenAISource(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GenAISource, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GenAISource{client: client, model: model, logger: logger}, nil
}

func (g *GenAISource) GenerateItinerary(ctx context.Context, req GenerateRequest) (string, error) {
	prompt := buildItineraryPrompt(req)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generating itinerary for %s: %w", req.Destination, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned an empty itinerary for %s", req.Destination)
	}

	g.logger.Info("Generated itinerary",
		zap.String("destination", req.Destination),
		zap.Int("duration_days", req.Duration),
		zap.Int("response_chars", len(text)))
	return text, nil
}

// buildItineraryPrompt asks for the day-per-block layout the parser and the
// line classifier understand best, but nothing breaks if the model drifts.
func buildItineraryPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s.\n", req.Duration, req.Destination)
	if req.Budget != nil {
		fmt.Fprintf(&b, "Keep the total under %s.\n", itinerary.FormatAmount(*req.Budget))
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "The traveler is interested in: %s.\n", strings.Join(req.Interests, ", "))
	}
	b.WriteString(`
Format each day as a block starting with "Day N: Title".
Inside a day, use section headers such as "Morning:", "Afternoon:", "Evening:"
and detail lines such as "Cost: $25" or "Location: Old Town".
Include a dollar cost estimate on paid activities.`)
	return b.String()
}
