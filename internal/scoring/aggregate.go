package scoring

import (
	"regexp"
	"strconv"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/sheets"
)

// ReferenceSheet is the single sheet whose distinct assessor names define
// the global assessment count. Counting from one sheet instead of the
// union across all sheets is intentional, inherited behavior; see
// DESIGN.md before changing it.
const ReferenceSheet = "Risk & Compliance"

// scorePattern extracts the digit from the "<label> (<digit>)" cell
// encoding. One sample per matching cell.
var scorePattern = regexp.MustCompile(`\((\d)\)`)

// ExtractScore parses the embedded score out of a formatted cell value.
func ExtractScore(cell string) (int, bool) {
	m := scorePattern.FindStringSubmatch(cell)
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return score, true
}

// GlobalStats aggregates every historical submission in the payload.
//
// Per-domain averages and the overall average are sample-weighted: every
// parsed cell counts once, so the overall figure is total sum over total
// count, not a mean of the domain averages. The assessment total is the
// number of distinct assessor names in the reference sheet only.
func GlobalStats(domains []domain.Domain, payload sheets.Payload) domain.GlobalStatsData {
	totalAssessments := 0
	if rows, ok := payload[ReferenceSheet]; ok {
		assessors := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			assessors[row.Get(sheets.ColAssessorName)] = struct{}{}
		}
		totalAssessments = len(assessors)
	}

	totalSum, totalCount := 0, 0
	stats := make([]domain.DomainStat, 0, len(domains))
	for _, d := range domains {
		sum, count := 0, 0
		for _, row := range payload[d.ID] {
			for _, cell := range row.Values() {
				if score, ok := ExtractScore(cell); ok {
					sum += score
					count++
				}
			}
		}
		totalSum += sum
		totalCount += count

		avg := 0.0
		if count > 0 {
			avg = float64(sum) / float64(count)
		}
		stats = append(stats, domain.DomainStat{ID: d.ID, Title: d.Title, Average: avg})
	}

	overall := 0.0
	if totalCount > 0 {
		overall = float64(totalSum) / float64(totalCount)
	}

	return domain.GlobalStatsData{
		TotalAssessments: totalAssessments,
		OverallAverage:   overall,
		DomainStats:      stats,
	}
}

// ZeroStats is the fallback shown when the historical payload cannot be
// fetched: zero counts and a zero average per domain.
func ZeroStats(domains []domain.Domain) domain.GlobalStatsData {
	stats := make([]domain.DomainStat, 0, len(domains))
	for _, d := range domains {
		stats = append(stats, domain.DomainStat{ID: d.ID, Title: d.Title})
	}
	return domain.GlobalStatsData{DomainStats: stats}
}
