package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Sheet names with a fixed meaning in the remote spreadsheet. Every other
// sheet is a per-domain submission log keyed by the domain ID.
const (
	SheetOverview = "Overview"
	SheetCriteria = "Criteria"
)

// Overview sheet columns.
const (
	ColOverviewDomain     = "نطاق التقييم"
	ColOverviewDefinition = "التعريف"
)

// Criteria sheet columns.
const (
	ColCriteriaDomainEN        = "Domain_EN"
	ColCriteriaSection         = "Section_AR"
	ColCriteriaText            = "Criterion_AR"
	ColCriteriaFocus           = "Assessment_Focus"
	ColCriteriaLevel           = "Level"
	ColCriteriaFormal          = "Formal_Statement"
	ColCriteriaImprovement     = "Improvement_Opportunities"
	ColCriteriaRelatedQuestion = "Related_Question"
)

// Respondent-metadata columns present on every per-domain sheet. They are
// fixed literal headers in the spreadsheet, not configurable, and are
// excluded when deriving the question list.
const (
	ColSequence     = "تسلسل"
	ColAssessorName = "اسم المقيّم"
	ColEmail        = "البريد الإلكتروني"
	ColMobile       = "رقم الجوال"
)

// MetadataColumns lists the headers excluded from question derivation.
var MetadataColumns = []string{ColSequence, ColAssessorName, ColEmail, ColMobile}

// Row is one spreadsheet row. Column order is preserved as it appeared on
// the wire because the question list is derived from header order, which
// a plain Go map would scramble. Scalar cell values of any JSON type are
// coerced to strings at this boundary so the rest of the system never
// sees the payload's loose typing.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a row from ordered column/value pairs. Intended for tests
// and for the in-memory fixtures the skeleton ships with.
func NewRow(pairs ...[2]string) Row {
	r := Row{values: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		r.keys = append(r.keys, p[0])
		r.values[p[0]] = p[1]
	}
	return r
}

// Get returns the cell under the given column, or "" when absent.
func (r Row) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column exists, even with an empty cell.
func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns the column headers in wire order.
func (r Row) Columns() []string {
	return r.keys
}

// Values returns every cell value in wire order.
func (r Row) Values() []string {
	out := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object token by token so that key order
// survives. Non-string scalars (numbers, bools) are rendered as their
// JSON text; nested arrays/objects are kept as raw JSON strings.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sheet row: expected object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, seen := r.values[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.values[key] = coerceCell(raw)
	}
	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the row back as a JSON object in wire order, so a
// cached payload round-trips without scrambling the headers the question
// list is derived from.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func coerceCell(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// Payload is the full remote dataset keyed by sheet name.
type Payload map[string][]Row
