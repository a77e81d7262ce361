package scoring

import (
	"fmt"
	"regexp"

	"assessment-service/internal/domain"
)

// Levels is the COBIT 2019 maturity scale the assessment is graded on.
// Titles are bilingual; the parenthesized English segment is the label
// used on the wire when formatting submitted answers.
var Levels = []domain.MaturityLevel{
	{Level: 0, Title: "غير مكتمل (Incomplete)", Description: "العملية غير منفذة أو تفشل في تحقيق غرضها."},
	{Level: 1, Title: "أولي (Initial)", Description: "العملية تحقق غرضها بشكل غير منتظم وتعتمد على الجهود الفردية."},
	{Level: 2, Title: "مُدار (Managed)", Description: "العملية مخططة ومراقبة ويتم ضبط مخرجاتها."},
	{Level: 3, Title: "مُعرّف (Defined)", Description: "العملية موثقة ومعتمدة على مستوى المنظمة."},
	{Level: 4, Title: "مُدار كمياً (Quantitatively Managed)", Description: "العملية تقاس بمؤشرات كمية وتدار بالبيانات."},
	{Level: 5, Title: "مُحسَّن (Optimizing)", Description: "العملية تخضع للتحسين المستمر استجابة لأهداف المنظمة."},
}

// labelPattern pulls the English segment out of a bilingual level title.
var labelPattern = regexp.MustCompile(`\((.*?)\)`)

// LevelForScore returns the maturity level matching an exact 1-5 answer.
func LevelForScore(score int) (domain.MaturityLevel, bool) {
	for _, l := range Levels {
		if l.Level == score {
			return l, true
		}
	}
	return domain.MaturityLevel{}, false
}

// LevelLabel returns the parenthetical English label of a level title,
// e.g. "مُعرّف (Defined)" yields "Defined".
func LevelLabel(l domain.MaturityLevel) string {
	if m := labelPattern.FindStringSubmatch(l.Title); m != nil {
		return m[1]
	}
	return ""
}

// FormatAnswer renders a recorded score in the sole wire representation
// of a historical answer: "<LevelLabel> (<score>)". An unanswered or
// zero score renders as the empty string. The output always round-trips
// through ExtractScore.
func FormatAnswer(score int) string {
	if score <= 0 {
		return ""
	}
	level, ok := LevelForScore(score)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%d)", LevelLabel(level), score)
}

// ClassifyMaturity maps a continuous overall score to one of the six
// ordinal levels using half-open bins centered on the integers 0-5.
func ClassifyMaturity(score float64) domain.MaturityLevel {
	switch {
	case score < 0.5:
		return Levels[0]
	case score < 1.5:
		return Levels[1]
	case score < 2.5:
		return Levels[2]
	case score < 3.5:
		return Levels[3]
	case score < 4.5:
		return Levels[4]
	default:
		return Levels[5]
	}
}
