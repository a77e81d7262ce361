package domain

import "errors"

var (
	// ErrSessionNotFound is returned when an assessment session does not exist.
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrEvaluatorRequired is returned when an action needs evaluator info first.
	ErrEvaluatorRequired = errors.New("evaluator info not recorded")
	// ErrScoreOutOfRange is returned for answers outside the 1-5 Likert scale.
	ErrScoreOutOfRange = errors.New("score must be an integer between 1 and 5")
	// ErrUnknownQuestion is returned when an answer targets a question the
	// catalog does not contain.
	ErrUnknownQuestion = errors.New("question not found in domain")
	// ErrUnknownDomain is returned when a domain ID has no catalog entry.
	ErrUnknownDomain = errors.New("domain not found")
	// ErrIncompleteAssessment blocks submission while questions remain unanswered.
	ErrIncompleteAssessment = errors.New("assessment is not complete")
	// ErrSubmitInFlight rejects a second submit while one is still settling.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrInvalidTransition is returned for illegal session step changes.
	ErrInvalidTransition = errors.New("invalid step transition")
)
