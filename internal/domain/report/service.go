package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier delivers user-facing notifications for report events. The
// analysis flow emits started and complete; it never emits a failure.
type Notifier interface {
	AnalysisStarted(fileName string)
	AnalysisComplete(fileName string)
	ShareLinkCreated(expiresAt time.Time)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) AnalysisStarted(string) {}

func (NopNotifier) AnalysisComplete(string) {}

func (NopNotifier) ShareLinkCreated(time.Time) {}

// Service owns the dashboard session state machine:
//
//	Idle → Analyzing → Analyzed → (reset) → Idle
//
// Exactly one submission is in flight at a time; Submit while analyzing
// is ignored rather than queued or rejected.
type Service struct {
	mu       sync.Mutex
	session  Session
	analyzer Analyzer
	notifier Notifier
	archive  ArchiveRepository
	logger   zerolog.Logger
}

func NewService(analyzer Analyzer, notifier Notifier, archive ArchiveRepository, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		session:  Session{ID: uuid.New(), Status: StatusIdle},
		analyzer: analyzer,
		notifier: notifier,
		archive:  archive,
		logger:   logger,
	}
}

// Session returns a snapshot of the current session.
func (s *Service) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Submit starts an analysis for the uploaded file. A nil upload (the user
// cancelled the picker) leaves the session unchanged, as does a submit
// while an analysis is already in flight. The transition to analyzing is
// synchronous; the result arrives after the analyzer finishes.
func (s *Service) Submit(up *Upload) Session {
	s.mu.Lock()
	if up == nil || !s.session.AcceptingUploads() {
		out := s.session
		s.mu.Unlock()
		return out
	}

	now := time.Now()
	s.session.Status = StatusAnalyzing
	s.session.FileName = up.FileName
	s.session.Metrics = nil
	s.session.Diagnosis = ""
	s.session.SubmittedAt = &now
	s.session.AnalyzedAt = nil
	out := s.session
	s.mu.Unlock()

	// Collaborators are called outside the critical section so a notifier
	// may read the session without deadlocking.
	s.notifier.AnalysisStarted(up.FileName)
	s.logger.Info().Str("file", up.FileName).Msg("report analysis started")

	go s.run(*up)
	return out
}

// run completes the in-flight analysis. It is detached from the request
// context: once started, the analysis is not cancellable.
func (s *Service) run(up Upload) {
	result, err := s.analyzer.Analyze(context.Background(), up)

	s.mu.Lock()
	if s.session.Status != StatusAnalyzing {
		s.mu.Unlock()
		return
	}
	if err != nil {
		// Only the AI analyzer can get here; the simulated flow has no
		// failure path. The session returns to idle so the user can retry.
		s.session.Status = StatusIdle
		s.session.FileName = ""
		s.session.SubmittedAt = nil
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("file", up.FileName).Msg("report analysis failed")
		return
	}

	now := time.Now()
	s.session.Status = StatusAnalyzed
	s.session.Metrics = result.Metrics
	s.session.Diagnosis = result.Diagnosis
	s.session.AnalyzedAt = &now
	fileName := s.session.FileName
	s.mu.Unlock()

	s.notifier.AnalysisComplete(fileName)
	s.logger.Info().Str("file", fileName).Int("metrics", len(result.Metrics)).Msg("report analysis complete")

	if s.archive != nil {
		a := &Analysis{FileName: fileName, Metrics: result.Metrics, Diagnosis: result.Diagnosis}
		if err := s.archive.Save(context.Background(), a); err != nil {
			s.logger.Error().Err(err).Msg("failed to archive analysis")
		}
	}
}

// Reset returns an analyzed session to idle, discarding the previous
// result unconditionally. It is a no-op in any other state.
func (s *Service) Reset() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Status != StatusAnalyzed {
		return s.session
	}
	s.session = Session{ID: uuid.New(), Status: StatusIdle}
	return s.session
}

// Archive exposes the analysis archive for read handlers; may be nil.
func (s *Service) Archive() ArchiveRepository {
	return s.archive
}
