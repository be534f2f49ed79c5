package report

import "strings"

// Style variants for metric cards, keyed on the Normal flag.
const (
	VariantNormal = "normal"
	VariantAlert  = "alert"
)

// MetricCard is the render model for one metric.
type MetricCard struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Unit    string `json:"unit"`
	Range   string `json:"range"`
	Variant string `json:"variant"`
}

// DashboardView is the render model for the whole dashboard. It is a pure
// projection of a Session; no computation, no validation.
type DashboardView struct {
	Status           Status       `json:"status"`
	Analyzing        bool         `json:"analyzing"`
	Analyzed         bool         `json:"analyzed"`
	AcceptingUploads bool         `json:"accepting_uploads"`
	FileName         string       `json:"file_name,omitempty"`
	Metrics          []MetricCard `json:"metrics,omitempty"`
	Paragraphs       []string     `json:"paragraphs,omitempty"`
}

// NewDashboardView projects a session into its render model.
func NewDashboardView(s *Session) DashboardView {
	v := DashboardView{
		Status:           s.Status,
		Analyzing:        s.Status == StatusAnalyzing,
		Analyzed:         s.Status == StatusAnalyzed,
		AcceptingUploads: s.AcceptingUploads(),
		FileName:         s.FileName,
	}
	for _, m := range s.Metrics {
		variant := VariantNormal
		if !m.Normal {
			variant = VariantAlert
		}
		v.Metrics = append(v.Metrics, MetricCard{
			Name:    m.Name,
			Value:   m.Value,
			Unit:    m.Unit,
			Range:   m.Range,
			Variant: variant,
		})
	}
	v.Paragraphs = SplitParagraphs(s.Diagnosis)
	return v
}

// SplitParagraphs breaks diagnosis text into ordered paragraphs on line
// breaks, dropping blank segments.
func SplitParagraphs(diagnosis string) []string {
	if diagnosis == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(diagnosis, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
