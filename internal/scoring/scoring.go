// Package scoring computes session results and historical aggregates.
// The two use different means on purpose: the session overall is the mean
// of per-domain averages, while the global aggregate is sample-weighted.
package scoring

import (
	"math"

	"assessment-service/internal/domain"
)

// Results derives the per-domain result list for a session. Each score is
// the average of the recorded answers for that domain rounded to two
// decimals, or 0 when nothing in the domain is answered.
func Results(domains []domain.Domain, answers domain.AnswerSet) []domain.Result {
	results := make([]domain.Result, 0, len(domains))
	for _, d := range domains {
		sum, count := 0, 0
		for _, score := range answers.Domain(d.ID) {
			sum += score
			count++
		}
		avg := 0.0
		if count > 0 {
			avg = float64(sum) / float64(count)
		}
		results = append(results, domain.Result{
			ID:       d.ID,
			Subject:  d.Title,
			Score:    round2(avg),
			FullMark: 5,
		})
	}
	return results
}

// Overall is the arithmetic mean over every result's score, including the
// zeros of fully-unanswered domains, which therefore pull the mean down.
func Overall(results []domain.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
