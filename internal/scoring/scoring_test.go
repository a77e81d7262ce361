package scoring

import (
	"math"
	"testing"

	"assessment-service/internal/domain"
)

func TestResultsAveragesPerDomain(t *testing.T) {
	domains := []domain.Domain{
		{ID: "A", Title: "Domain A", Questions: []domain.Question{{Text: "q1"}, {Text: "q2"}}},
		{ID: "B", Title: "Domain B", Questions: []domain.Question{{Text: "q1"}}},
		{ID: "C", Title: "Domain C", Questions: []domain.Question{{Text: "q1"}}},
	}
	answers := domain.AnswerSet{}.
		WithAnswer("A", "q1", 5).
		WithAnswer("A", "q2", 5).
		WithAnswer("B", "q1", 1)

	results := Results(domains, answers)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	expected := map[string]float64{"A": 5.00, "B": 1.00, "C": 0.00}
	for _, r := range results {
		if r.Score != expected[r.ID] {
			t.Fatalf("domain %s: expected %.2f, got %.2f", r.ID, expected[r.ID], r.Score)
		}
		if r.FullMark != 5 {
			t.Fatalf("domain %s: expected full mark 5, got %v", r.ID, r.FullMark)
		}
	}

	// Unanswered domain C contributes a zero that pulls the mean down.
	overall := Overall(results)
	if overall != 2.00 {
		t.Fatalf("expected overall 2.00, got %v", overall)
	}
	if got := ClassifyMaturity(overall); got.Level != 2 {
		t.Fatalf("expected level 2 (Managed) for overall 2.00, got %d", got.Level)
	}
}

func TestResultsRoundsToTwoDecimals(t *testing.T) {
	domains := []domain.Domain{
		{ID: "A", Questions: []domain.Question{{Text: "q1"}, {Text: "q2"}, {Text: "q3"}}},
	}
	answers := domain.AnswerSet{}.
		WithAnswer("A", "q1", 1).
		WithAnswer("A", "q2", 1).
		WithAnswer("A", "q3", 2)

	results := Results(domains, answers)
	// 4/3 = 1.333... rounds to 1.33
	if results[0].Score != 1.33 {
		t.Fatalf("expected 1.33, got %v", results[0].Score)
	}
}

func TestOverallOfEmptyResultsIsZero(t *testing.T) {
	if got := Overall(nil); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestResultsOfUnansweredDomainIsZero(t *testing.T) {
	domains := []domain.Domain{{ID: "A", Questions: []domain.Question{{Text: "q1"}}}}
	results := Results(domains, domain.AnswerSet{})
	if results[0].Score != 0 {
		t.Fatalf("expected 0 for unanswered domain, got %v", results[0].Score)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		5.0 / 3.0: 1.67,
		1.2349:    1.23,
		3.0:       3.0,
	}
	for in, want := range cases {
		if got := round2(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("round2(%v): expected %v, got %v", in, want, got)
		}
	}
}
