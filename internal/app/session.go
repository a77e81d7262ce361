package app

import (
	"sync"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/scoring"
)

// Step enumerates the screens of one assessment flow. Transitions are
// validated so an illegal state (answering before the evaluator is known,
// submitting twice, ...) is an error rather than a silent flag mix-up.
type Step string

const (
	StepOverview       Step = "overview"
	StepEvaluatorInfo  Step = "evaluator_info"
	StepAssessment     Step = "assessment"
	StepResults        Step = "results"
	StepGlobalStats    Step = "global_stats"
	StepMaturityReport Step = "maturity_report"
)

// DomainProgress is the answered/total tally for one domain.
type DomainProgress struct {
	ID       string `json:"id"`
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
	Complete bool   `json:"complete"`
}

// Progress is the snapshot pushed to subscribers on every session change.
type Progress struct {
	SessionID string           `json:"sessionId"`
	Step      Step             `json:"step"`
	Answered  int              `json:"answered"`
	Total     int              `json:"total"`
	Complete  bool             `json:"complete"`
	Domains   []DomainProgress `json:"domains"`
	Results   []domain.Result  `json:"results"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Session holds the state of one respondent's assessment. The answer set
// is copy-on-write, so snapshots handed to subscribers or to an in-flight
// submission stay valid while new answers arrive.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu          sync.RWMutex
	step        Step
	previous    Step
	evaluator   *domain.EvaluatorInfo
	answers     domain.AnswerSet
	submitting  bool
	subscribers map[chan Progress]struct{}
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		createdAt:   now(),
		now:         now,
		step:        StepOverview,
		previous:    StepOverview,
		answers:     domain.AnswerSet{},
		subscribers: make(map[chan Progress]struct{}),
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Step returns the current flow step.
func (s *Session) Step() Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// Evaluator returns the recorded respondent info, if any.
func (s *Session) Evaluator() (domain.EvaluatorInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.evaluator == nil {
		return domain.EvaluatorInfo{}, false
	}
	return *s.evaluator, true
}

// Answers returns the current answer snapshot.
func (s *Session) Answers() domain.AnswerSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepOverview {
		return domain.ErrInvalidTransition
	}
	s.step = StepEvaluatorInfo
	return nil
}

func (s *Session) setEvaluator(info domain.EvaluatorInfo, catalog []domain.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepEvaluatorInfo {
		return domain.ErrInvalidTransition
	}
	s.evaluator = &info
	s.step = StepAssessment
	s.broadcastLocked(catalog)
	return nil
}

func (s *Session) recordAnswer(domainID, questionText string, score int, catalog []domain.Domain) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepAssessment {
		return Progress{}, domain.ErrInvalidTransition
	}
	s.answers = s.answers.WithAnswer(domainID, questionText, score)
	return s.broadcastLocked(catalog), nil
}

func (s *Session) fillAnswers(answers domain.AnswerSet, catalog []domain.Domain) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepAssessment {
		return Progress{}, domain.ErrInvalidTransition
	}
	s.answers = answers
	return s.broadcastLocked(catalog), nil
}

// beginSubmit validates and claims the submit slot. The actual network
// work happens outside the lock; finishSubmit releases the slot.
func (s *Session) beginSubmit(catalog []domain.Domain) (domain.EvaluatorInfo, domain.AnswerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepAssessment {
		return domain.EvaluatorInfo{}, nil, domain.ErrInvalidTransition
	}
	if s.submitting {
		return domain.EvaluatorInfo{}, nil, domain.ErrSubmitInFlight
	}
	if s.evaluator == nil {
		return domain.EvaluatorInfo{}, nil, domain.ErrEvaluatorRequired
	}
	if !s.answers.IsComplete(catalog) {
		return domain.EvaluatorInfo{}, nil, domain.ErrIncompleteAssessment
	}
	s.submitting = true
	return *s.evaluator, s.answers, nil
}

// finishSubmit moves to results regardless of the write outcome; failed
// domains are surfaced separately by the gateway.
func (s *Session) finishSubmit(catalog []domain.Domain) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.step = StepResults
	return s.broadcastLocked(catalog)
}

func (s *Session) viewStats() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepOverview && s.step != StepResults {
		return domain.ErrInvalidTransition
	}
	s.previous = s.step
	s.step = StepGlobalStats
	return nil
}

func (s *Session) viewMaturityReport() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepOverview && s.step != StepResults {
		return domain.ErrInvalidTransition
	}
	s.previous = s.step
	s.step = StepMaturityReport
	return nil
}

func (s *Session) back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepGlobalStats && s.step != StepMaturityReport {
		return domain.ErrInvalidTransition
	}
	s.step = s.previous
	return nil
}

func (s *Session) reset(catalog []domain.Domain) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = domain.AnswerSet{}
	s.evaluator = nil
	s.step = StepOverview
	s.previous = StepOverview
	s.submitting = false
	return s.broadcastLocked(catalog)
}

func (s *Session) subscribe(catalog []domain.Domain) (<-chan Progress, func()) {
	ch := make(chan Progress, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked(catalog)
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(catalog []domain.Domain) Progress {
	snapshot := s.snapshotLocked(catalog)
	for ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
			// drop the stale snapshot so a slow subscriber never blocks
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return snapshot
}

func (s *Session) snapshotLocked(catalog []domain.Domain) Progress {
	total, answered := 0, 0
	domains := make([]DomainProgress, 0, len(catalog))
	for _, d := range catalog {
		answeredInDomain := 0
		for _, q := range d.Questions {
			if _, ok := s.answers.Get(d.ID, q.Text); ok {
				answeredInDomain++
			}
		}
		total += len(d.Questions)
		answered += answeredInDomain
		domains = append(domains, DomainProgress{
			ID:       d.ID,
			Answered: answeredInDomain,
			Total:    len(d.Questions),
			Complete: len(d.Questions) > 0 && answeredInDomain == len(d.Questions),
		})
	}

	return Progress{
		SessionID: s.id,
		Step:      s.step,
		Answered:  answered,
		Total:     total,
		Complete:  total > 0 && answered == total,
		Domains:   domains,
		Results:   scoring.Results(catalog, s.answers),
		UpdatedAt: s.now(),
	}
}
