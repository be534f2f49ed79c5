package report

import (
	"context"
	"time"
)

// Analyzer turns an uploaded report into an analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, up Upload) (AnalysisResult, error)
}

// SimulatedAnalyzer waits a fixed duration and returns the fixed result
// set regardless of the upload's content. It cannot fail and is not
// cancellable once started; the uploaded bytes are never read.
type SimulatedAnalyzer struct {
	Delay time.Duration
}

func (a SimulatedAnalyzer) Analyze(_ context.Context, _ Upload) (AnalysisResult, error) {
	time.Sleep(a.Delay)
	return SimulatedResult(), nil
}
