package extract

import (
	"regexp"
	"strings"
)

// Metric is a lab value scanned out of free text.
type Metric struct {
	Name  string
	Value string
	Unit  string
}

type pattern struct {
	name    string
	unit    string
	pattern *regexp.Regexp
}

var labPatterns = []pattern{
	{"Hemoglobin", "g/dL", regexp.MustCompile(`HEMOGLOBIN[^0-9]*([0-9.]+)`)},
	{"Cholesterol", "mg/dL", regexp.MustCompile(`CHOLESTEROL[^0-9]*([0-9.]+)`)},
	{"Blood Sugar", "mg/dL", regexp.MustCompile(`(?:BLOOD SUGAR|GLUCOSE)[^0-9]*([0-9.]+)`)},
	{"Platelets", "K/µL", regexp.MustCompile(`PLATELET[^0-9]*([0-9.]+)`)},
	{"ESR", "mm/hr", regexp.MustCompile(`ESR[^0-9]*([0-9.]+)`)},
}

// ScanMetrics scans extracted report text for known lab values. Values
// the text does not mention are omitted.
func ScanMetrics(text string) []Metric {
	clean := strings.ToUpper(text)
	var out []Metric
	for _, p := range labPatterns {
		match := p.pattern.FindStringSubmatch(clean)
		if len(match) >= 2 {
			out = append(out, Metric{
				Name:  p.name,
				Value: strings.TrimSpace(match[1]),
				Unit:  p.unit,
			})
		}
	}
	return out
}
