// Package catalog normalizes the loose spreadsheet payload into the typed
// domain catalog, starting from a built-in skeleton so callers always get
// a usable model.
package catalog

import (
	"strconv"
	"strings"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/sheets"
)

// Build overlays the remote payload on a fresh skeleton copy and returns
// the resulting catalog. Missing or malformed pieces of the payload leave
// the corresponding skeleton defaults in place; Build never fails.
func Build(payload sheets.Payload) []domain.Domain {
	domains := Skeleton()
	if payload == nil {
		return domains
	}
	applyDescriptions(domains, payload[sheets.SheetOverview])
	applyCriteria(domains, payload[sheets.SheetCriteria])
	applyQuestions(domains, payload)
	return domains
}

// applyDescriptions overlays definitions from the Overview sheet. A row
// matches a domain when its name field equals the domain ID or the
// domain title contains it as a substring; first match wins.
func applyDescriptions(domains []domain.Domain, rows []sheets.Row) {
	for _, row := range rows {
		name := row.Get(sheets.ColOverviewDomain)
		definition := row.Get(sheets.ColOverviewDefinition)
		if name == "" || definition == "" {
			continue
		}
		for i := range domains {
			if domains[i].ID == name || strings.Contains(domains[i].Title, name) {
				domains[i].Description = definition
				break
			}
		}
	}
}

// applyCriteria groups Criteria rows by English domain label, then by
// section title, preserving insertion order at both levels. Rows missing
// the domain label, section title, or criterion text are dropped. A
// domain with no matching group keeps its skeleton sections.
func applyCriteria(domains []domain.Domain, rows []sheets.Row) {
	type group struct {
		order    []string
		sections map[string][]domain.Criterion
	}
	byDomain := make(map[string]*group)

	for _, row := range rows {
		domainEN := row.Get(sheets.ColCriteriaDomainEN)
		sectionTitle := row.Get(sheets.ColCriteriaSection)
		text := row.Get(sheets.ColCriteriaText)
		if domainEN == "" || sectionTitle == "" || text == "" {
			continue
		}

		criterion := domain.Criterion{
			Text:                     text,
			AssessmentFocus:          row.Get(sheets.ColCriteriaFocus),
			ReferenceLevel:           parseLevel(row.Get(sheets.ColCriteriaLevel)),
			FormalStatement:          row.Get(sheets.ColCriteriaFormal),
			ImprovementOpportunities: row.Get(sheets.ColCriteriaImprovement),
			RelatedQuestion:          row.Get(sheets.ColCriteriaRelatedQuestion),
		}

		g, ok := byDomain[domainEN]
		if !ok {
			g = &group{sections: make(map[string][]domain.Criterion)}
			byDomain[domainEN] = g
		}
		if _, seen := g.sections[sectionTitle]; !seen {
			g.order = append(g.order, sectionTitle)
		}
		g.sections[sectionTitle] = append(g.sections[sectionTitle], criterion)
	}

	for i := range domains {
		g, ok := byDomain[domains[i].ID]
		if !ok {
			continue
		}
		sections := make([]domain.Section, 0, len(g.order))
		for _, title := range g.order {
			sections = append(sections, domain.Section{Title: title, Criteria: g.sections[title]})
		}
		domains[i].Sections = sections
	}
}

// applyQuestions derives each domain's question list from the column
// headers of the first row of its own sheet, excluding the respondent
// metadata columns, in header order. An absent or empty sheet keeps the
// skeleton questions.
func applyQuestions(domains []domain.Domain, payload sheets.Payload) {
	excluded := make(map[string]struct{}, len(sheets.MetadataColumns))
	for _, col := range sheets.MetadataColumns {
		excluded[col] = struct{}{}
	}

	for i := range domains {
		rows := payload[domains[i].ID]
		if len(rows) == 0 {
			continue
		}
		questions := make([]domain.Question, 0, rows[0].Len())
		for _, header := range rows[0].Columns() {
			if _, skip := excluded[header]; skip {
				continue
			}
			questions = append(questions, domain.Question{Text: header})
		}
		domains[i].Questions = questions
	}
}

// parseLevel coerces the reference-level cell into 0-5, nil when absent
// or out of range.
func parseLevel(cell string) *int {
	if cell == "" {
		return nil
	}
	level, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || level < 0 || level > 5 {
		return nil
	}
	return &level
}
