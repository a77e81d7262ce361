package app

import (
	"context"
	"log"
	"math/rand"
	"strings"

	"assessment-service/internal/domain"
	"assessment-service/internal/gateway"
	"assessment-service/internal/infra/sheets"
	"assessment-service/internal/scoring"
	"github.com/google/uuid"
)

// SessionRepository abstracts how assessment sessions are stored
// (in-memory, Redis-marked, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// CatalogProvider serves the normalized domain catalog. Implementations
// never fail; they fall back to the built-in skeleton.
type CatalogProvider interface {
	Catalog(ctx context.Context) []domain.Domain
}

// StatsSource fetches the raw historical payload for the stats view.
type StatsSource interface {
	FetchAll(ctx context.Context) (sheets.Payload, error)
}

// Submitter dispatches a completed assessment to the remote store.
type Submitter interface {
	Submit(ctx context.Context, domains []domain.Domain, evaluator domain.EvaluatorInfo, answers domain.AnswerSet) gateway.Outcome
}

// AssessmentService contains the assessment flow use cases.
type AssessmentService struct {
	sessions  SessionRepository
	catalog   CatalogProvider
	submitter Submitter
	stats     StatsSource
}

func NewAssessmentService(sessions SessionRepository, catalog CatalogProvider, submitter Submitter, stats StatsSource) *AssessmentService {
	return &AssessmentService{sessions: sessions, catalog: catalog, submitter: submitter, stats: stats}
}

// Catalog returns the current domain catalog.
func (s *AssessmentService) Catalog(ctx context.Context) []domain.Domain {
	return s.catalog.Catalog(ctx)
}

// MaturityLevels returns the 0-5 scale the assessment is graded on.
func (s *AssessmentService) MaturityLevels() []domain.MaturityLevel {
	return scoring.Levels
}

// StartSession creates a fresh session at the overview step.
func (s *AssessmentService) StartSession() *Session {
	return s.sessions.GetOrCreate(uuid.NewString())
}

// Begin advances a session from overview to the evaluator form.
func (s *AssessmentService) Begin(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.begin()
}

// SetEvaluator records the respondent info and opens the assessment.
// Evaluator info is immutable for the rest of the session.
func (s *AssessmentService) SetEvaluator(ctx context.Context, sessionID string, info domain.EvaluatorInfo) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	if strings.TrimSpace(info.Name) == "" {
		return domain.ErrEvaluatorRequired
	}
	return session.setEvaluator(info, s.catalog.Catalog(ctx))
}

// RecordAnswer upserts one answer and returns the updated progress.
func (s *AssessmentService) RecordAnswer(ctx context.Context, sessionID, domainID, questionText string, score int) (Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Progress{}, domain.ErrSessionNotFound
	}
	if score < 1 || score > 5 {
		return Progress{}, domain.ErrScoreOutOfRange
	}

	catalog := s.catalog.Catalog(ctx)
	d, found := findDomain(catalog, domainID)
	if !found {
		return Progress{}, domain.ErrUnknownDomain
	}
	if !hasQuestion(d, questionText) {
		return Progress{}, domain.ErrUnknownQuestion
	}
	return session.recordAnswer(domainID, questionText, score, catalog)
}

// RandomFill answers every question with a random 1-5 score. Demo helper
// kept from the original flow.
func (s *AssessmentService) RandomFill(ctx context.Context, sessionID string) (Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Progress{}, domain.ErrSessionNotFound
	}
	catalog := s.catalog.Catalog(ctx)
	answers := domain.AnswerSet{}
	for _, d := range catalog {
		for _, q := range d.Questions {
			answers = answers.WithAnswer(d.ID, q.Text, rand.Intn(5)+1)
		}
	}
	return session.fillAnswers(answers, catalog)
}

// Results derives the per-domain results, the overall mean, and its
// maturity classification from the session's current answers.
func (s *AssessmentService) Results(ctx context.Context, sessionID string) ([]domain.Result, float64, domain.MaturityLevel, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, 0, domain.MaturityLevel{}, domain.ErrSessionNotFound
	}
	catalog := s.catalog.Catalog(ctx)
	results := scoring.Results(catalog, session.Answers())
	overall := scoring.Overall(results)
	return results, overall, scoring.ClassifyMaturity(overall), nil
}

// Submit dispatches the completed assessment, one write per domain, and
// moves the session to the results step once every write has settled.
// A second submit while one is in flight is rejected; individual write
// failures are surfaced in the outcome but never abort the flow.
func (s *AssessmentService) Submit(ctx context.Context, sessionID string) (gateway.Outcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return gateway.Outcome{}, domain.ErrSessionNotFound
	}
	catalog := s.catalog.Catalog(ctx)

	evaluator, answers, err := session.beginSubmit(catalog)
	if err != nil {
		return gateway.Outcome{}, err
	}

	outcome := s.submitter.Submit(ctx, catalog, evaluator, answers)
	session.finishSubmit(catalog)
	return outcome, nil
}

// GlobalStats recomputes the aggregate statistics from the remote rows.
// A fetch failure yields zeroed stats rather than an error, so the stats
// view is never blocked.
func (s *AssessmentService) GlobalStats(ctx context.Context) domain.GlobalStatsData {
	catalog := s.catalog.Catalog(ctx)
	payload, err := s.stats.FetchAll(ctx)
	if err != nil {
		log.Printf("stats fetch failed, returning zeroed stats: %v", err)
		return scoring.ZeroStats(catalog)
	}
	return scoring.GlobalStats(catalog, payload)
}

// ViewStats moves a session to the stats screen, remembering where it
// came from for Back.
func (s *AssessmentService) ViewStats(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.viewStats()
}

// ViewMaturityReport moves a session to the maturity report screen.
func (s *AssessmentService) ViewMaturityReport(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.viewMaturityReport()
}

// Back returns from the stats or maturity report screen.
func (s *AssessmentService) Back(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.back()
}

// Reset clears all recorded answers and evaluator info and returns the
// session to the overview step.
func (s *AssessmentService) Reset(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.reset(s.catalog.Catalog(ctx))
	return nil
}

// Subscribe returns a channel of progress snapshots for a session. The
// caller must invoke the returned cancel function to avoid leaks.
func (s *AssessmentService) Subscribe(ctx context.Context, sessionID string) (<-chan Progress, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe(s.catalog.Catalog(ctx))
	return ch, cancel, nil
}

// Session looks up an existing session.
func (s *AssessmentService) Session(sessionID string) (*Session, bool) {
	return s.sessions.Get(sessionID)
}

func findDomain(catalog []domain.Domain, id string) (domain.Domain, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Domain{}, false
}

func hasQuestion(d domain.Domain, text string) bool {
	for _, q := range d.Questions {
		if q.Text == text {
			return true
		}
	}
	return false
}
