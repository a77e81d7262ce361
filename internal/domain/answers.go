package domain

// AnswerSet maps (domain ID, question text) to a recorded 1-5 score.
// It is an immutable value: every mutation returns a fresh set and leaves
// prior snapshots untouched, so results derived from an older snapshot
// stay valid while new answers arrive.
type AnswerSet map[string]map[string]int

// WithAnswer returns a copy of the set with the given answer upserted.
// Scores are caller-validated; the set itself only guarantees that other
// entries are never corrupted by the write.
func (a AnswerSet) WithAnswer(domainID, questionText string, score int) AnswerSet {
	next := make(AnswerSet, len(a)+1)
	for id, byQuestion := range a {
		next[id] = byQuestion
	}
	byQuestion := make(map[string]int, len(a[domainID])+1)
	for q, s := range a[domainID] {
		byQuestion[q] = s
	}
	byQuestion[questionText] = score
	next[domainID] = byQuestion
	return next
}

// Get returns the recorded score for a question, if any.
func (a AnswerSet) Get(domainID, questionText string) (int, bool) {
	score, ok := a[domainID][questionText]
	return score, ok
}

// Domain returns the recorded answers for one domain.
func (a AnswerSet) Domain(domainID string) map[string]int {
	return a[domainID]
}

// Answered counts every recorded answer across all domains.
func (a AnswerSet) Answered() int {
	total := 0
	for _, byQuestion := range a {
		total += len(byQuestion)
	}
	return total
}

// IsComplete reports whether every question in every domain has a recorded
// answer. A domain with zero questions contributes zero to both the total
// and the answered count, so it never blocks completeness.
func (a AnswerSet) IsComplete(domains []Domain) bool {
	total, answered := 0, 0
	for _, d := range domains {
		total += len(d.Questions)
		for _, q := range d.Questions {
			if _, ok := a[d.ID][q.Text]; ok {
				answered++
			}
		}
	}
	return total > 0 && answered == total
}
