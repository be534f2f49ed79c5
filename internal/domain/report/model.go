package report

import (
	"time"

	"github.com/google/uuid"
)

// Status is the dashboard session state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusAnalyzing Status = "analyzing"
	StatusAnalyzed  Status = "analyzed"
)

// HealthMetric is one extracted lab value with its reference range and a
// flag for whether it falls inside that range. Instances are created only
// as part of a result set and never mutated afterwards.
type HealthMetric struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Unit   string `json:"unit"`
	Normal bool   `json:"normal"`
	Range  string `json:"range"`
}

// AnalysisResult is the output of an Analyzer run.
type AnalysisResult struct {
	Metrics   []HealthMetric `json:"metrics"`
	Diagnosis string         `json:"diagnosis"`
}

// Upload is a user-selected report file handed to Submit. The simulated
// analyzer never reads Data.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Session holds the dashboard view state. Metrics and Diagnosis are
// populated exactly when Status is analyzed.
type Session struct {
	ID          uuid.UUID      `json:"id"`
	Status      Status         `json:"status"`
	FileName    string         `json:"file_name,omitempty"`
	Metrics     []HealthMetric `json:"metrics,omitempty"`
	Diagnosis   string         `json:"diagnosis,omitempty"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	AnalyzedAt  *time.Time     `json:"analyzed_at,omitempty"`
}

// AcceptingUploads reports whether the upload control is enabled.
// Further uploads are disabled while an analysis is in flight and until
// the user resets an analyzed session.
func (s *Session) AcceptingUploads() bool {
	return s.Status == StatusIdle
}

// Analysis is a completed analysis archived for later retrieval.
type Analysis struct {
	ID        uuid.UUID      `json:"id"`
	FileName  string         `json:"file_name"`
	Metrics   []HealthMetric `json:"metrics"`
	Diagnosis string         `json:"diagnosis"`
	CreatedAt time.Time      `json:"created_at"`
}

// simulatedDiagnosis is the canned narrative shown after the simulated
// analysis delay.
const simulatedDiagnosis = `Based on your lab report, your hemoglobin level is slightly below the normal range, which may indicate mild anemia. Your cholesterol level is elevated and should be addressed through diet and lifestyle changes.

Your blood sugar and platelet counts are within normal limits. Consider increasing iron-rich foods in your diet and reducing saturated fat intake.

We recommend a follow-up consultation with a general physician within the next two weeks to discuss these results in detail.`

// SimulatedResult returns the fixed payload produced by the simulated
// analyzer, identical for every upload.
func SimulatedResult() AnalysisResult {
	return AnalysisResult{
		Metrics: []HealthMetric{
			{Name: "Hemoglobin", Value: "11.2", Unit: "g/dL", Normal: false, Range: "13.5-17.5"},
			{Name: "Cholesterol", Value: "245", Unit: "mg/dL", Normal: false, Range: "<200"},
			{Name: "Blood Sugar", Value: "98", Unit: "mg/dL", Normal: true, Range: "70-100"},
			{Name: "Platelets", Value: "250", Unit: "K/µL", Normal: true, Range: "150-450"},
		},
		Diagnosis: simulatedDiagnosis,
	}
}
