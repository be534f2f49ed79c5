// Package symptom provides free-text symptom analysis backed by the AI
// client. Advice is informational only and never a diagnosis.
package symptom

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/healthtrack/healthtrack/internal/platform/ai"
)

// EmptySymptomAdvice is returned without calling the model when the
// description is blank.
const EmptySymptomAdvice = "Please provide a non-empty symptom description."

const promptSuffix = "Please provide:\n" +
	"1) Short summary of likely causes (2–4 bullet points).\n" +
	"2) Urgency level (e.g., 'seek immediate care', 'see doctor within 48 hours', 'self-care ok').\n" +
	"3) Practical next steps (3 bullets) and what specialist to consult if needed.\n" +
	"4) List any red-flag symptoms that should prompt immediate emergency care.\n" +
	"Be concise and avoid giving definitive medical diagnoses. Use plain language."

// Advice is the outcome of a symptom analysis.
type Advice struct {
	Result string `json:"result"`
}

// Service runs symptom descriptions through the model.
type Service struct {
	client ai.Client
	logger zerolog.Logger
}

func NewService(client ai.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "symptom_service").Logger(),
	}
}

// Analyze returns concise advice for a symptom description. A blank
// description short-circuits to a fixed message.
func (s *Service) Analyze(ctx context.Context, description string) (*Advice, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return &Advice{Result: EmptySymptomAdvice}, nil
	}

	prompt := fmt.Sprintf("User symptom description:\n\n%s\n\n%s", description, promptSuffix)

	reply, err := s.client.Generate(ctx, ai.DefaultSystemPrompt, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("symptom analysis failed")
		return nil, fmt.Errorf("analyze symptom: %w", err)
	}

	return &Advice{Result: reply}, nil
}
