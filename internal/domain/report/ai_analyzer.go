package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/healthtrack/healthtrack/internal/platform/ai"
	"github.com/healthtrack/healthtrack/internal/platform/extract"
)

// AIAnalyzer extracts text from the upload and asks the language model for
// metrics and a diagnosis summary.
type AIAnalyzer struct {
	Client ai.Client
}

const analysisPromptSuffix = "1) Extract key health metrics (name, value, unit, normal-range if present). " +
	"Respond as a JSON object with a top-level key 'metrics' (list of objects with name, value, unit, range, normal boolean). \n" +
	"2) Provide a concise diagnosis summary and recommendations under key 'diagnosis'. \n\n" +
	"Return only JSON with keys: metrics and diagnosis."

func (a AIAnalyzer) Analyze(ctx context.Context, up Upload) (AnalysisResult, error) {
	text, err := extract.Text(up.FileName, up.ContentType, up.Data)
	if err != nil {
		return AnalysisResult{}, err
	}

	prompt := fmt.Sprintf("Here is the extracted text from a lab report or prescription:\n\n%s\n\n%s",
		text, analysisPromptSuffix)
	reply, err := a.Client.Generate(ctx, "", prompt)
	if err != nil {
		return AnalysisResult{}, err
	}

	var parsed AnalysisResult
	if err := json.Unmarshal([]byte(stripFence(reply)), &parsed); err != nil {
		// The model did not return clean JSON; keep the reply as the
		// diagnosis narrative and scan the source text for metrics.
		parsed = AnalysisResult{Diagnosis: reply}
		for _, m := range extract.ScanMetrics(text) {
			parsed.Metrics = append(parsed.Metrics, HealthMetric{
				Name:   m.Name,
				Value:  m.Value,
				Unit:   m.Unit,
				Normal: true,
			})
		}
	}
	return parsed, nil
}

// stripFence removes a markdown code fence if the model wrapped its JSON
// in one.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
