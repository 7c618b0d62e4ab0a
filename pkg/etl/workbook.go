package etl

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/sessionlens/sessionlens/pkg/models"
)

// Field names one logical column of the source spreadsheet.
type Field string

const (
	FieldTopic      Field = "topic"
	FieldType       Field = "type"
	FieldDomain     Field = "domain"
	FieldClass      Field = "class"
	FieldInstructor Field = "instructor"
	FieldDate       Field = "date"
	FieldAverage    Field = "average"
	FieldResponses  Field = "responses"
	FieldAttended   Field = "attended"
	FieldRatedPct   Field = "rated_pct"
)

// AliasTable maps each logical field to its accepted header variants in
// priority order. Matching is case- and whitespace-insensitive.
type AliasTable map[Field][]string

// DefaultAliases covers the header variants seen across source exports.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldTopic:      {"topic", "topic code", "course code"},
		FieldType:       {"type", "session type"},
		FieldDomain:     {"domain", "subject domain"},
		FieldClass:      {"class", "class name", "course"},
		FieldInstructor: {"instructor", "teacher", "facilitator"},
		FieldDate:       {"date", "session date", "conducted on"},
		FieldAverage:    {"average", "average rating", "avg rating", "rating"},
		FieldResponses:  {"responses", "no of responses", "# responses", "rated"},
		FieldAttended:   {"attended", "attendance", "no attended"},
		FieldRatedPct:   {"rated %", "% rated", "rated percentage", "rated pct"},
	}
}

// LoadAliasOverrides merges per-field alias lists from a YAML file over the
// defaults. Fields absent from the file keep their default variants.
func LoadAliasOverrides(path string) (AliasTable, error) {
	table := DefaultAliases()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	overrides := map[Field][]string{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	for field, aliases := range overrides {
		table[field] = aliases
	}

	return table, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// MatchHeaders resolves each logical field to a column index in the header
// row, trying aliases in priority order. Fields with no matching header are
// absent from the result.
func (t AliasTable) MatchHeaders(headers []string) map[Field]int {
	normalized := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, seen := normalized[key]; !seen && key != "" {
			normalized[key] = i
		}
	}

	matched := make(map[Field]int)
	for field, aliases := range t {
		for _, alias := range aliases {
			if idx, ok := normalized[normalizeHeader(alias)]; ok {
				matched[field] = idx
				break
			}
		}
	}
	return matched
}

// ReadWorkbook reads tabular rows from an xlsx file into session records.
// An empty sheet name selects the workbook's first sheet. The first row is
// the header; rows after it become one record each.
func ReadWorkbook(path, sheet string, aliases AliasTable) ([]models.SessionRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := aliases.MatchHeaders(rows[0])

	cell := func(row []string, field Field) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]models.SessionRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rawDate := cell(row, FieldDate)

		rec := models.SessionRecord{
			Topic:      cell(row, FieldTopic),
			Type:       cell(row, FieldType),
			Domain:     cell(row, FieldDomain),
			Class:      cell(row, FieldClass),
			Instructor: cell(row, FieldInstructor),
			RawDate:    rawDate,
			Date:       NormalizeDate(rawDate),
			AvgRating:  NormalizeNumber(cell(row, FieldAverage)),
			Responses:  NormalizeCount(cell(row, FieldResponses)),
			Attendance: NormalizeCount(cell(row, FieldAttended)),
			RatedPct:   NormalizePercent(cell(row, FieldRatedPct)),
		}
		records = append(records, rec)
	}

	return records, nil
}
