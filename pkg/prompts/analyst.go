// Package prompts holds the instruction contract sent to the text-generation
// service. All domain knowledge the generator needs (timezone handling,
// rounding, formula choice) lives here, not in code.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SQLSystemMessage frames the generation call.
const SQLSystemMessage = "You are a PostgreSQL analyst. You translate questions about " +
	"instructional-session ratings into a single read-only SQL query. " +
	"Respond with exactly one SQL statement and nothing else: no prose, no comments, no code fences."

// SummarySystemMessage frames the summarization call.
const SummarySystemMessage = "You are a data analyst. You describe query results in plain language " +
	"for a non-technical reader. Respond with one or two sentences of prose and nothing else."

// BuildSQLGenerationPrompt creates the schema-aware instruction prompt for
// turning a natural-language question into SQL over the session_ratings view.
// The timezone names the zone whose wall clock the calendar columns were
// derived in.
func BuildSQLGenerationPrompt(question, timezone string) string {
	var b strings.Builder

	b.WriteString("# Schema\n\n")
	b.WriteString("You may read from exactly one view: session_ratings. Its columns:\n\n")
	b.WriteString("- topic (text, nullable): free-text topic code of the session\n")
	b.WriteString("- session_type (text): kind of session\n")
	b.WriteString("- domain (text): subject domain\n")
	b.WriteString("- class (text): class name\n")
	b.WriteString("- instructor (text): instructor name\n")
	b.WriteString("- session_ts (timestamptz): UTC instant of the session\n")
	fmt.Fprintf(&b, "- session_date (date): calendar date of the session in %s\n", timezone)
	b.WriteString("- year (int), month (int 1-12), quarter (int 1-4), month_start (date): derived from session_date\n")
	b.WriteString("- avg_rating (numeric, 1-5, nullable): average rating of the session\n")
	b.WriteString("- responses (int, nullable): number of rating responses\n")
	b.WriteString("- attendance (int, nullable): number of attendees\n")
	b.WriteString("- rated_pct (numeric 0-100, nullable): percentage of attendees who rated\n")

	b.WriteString("\n# Rules\n\n")
	fmt.Fprintf(&b, "1. All date and time filtering MUST use the %s-derived columns: session_date, year, month, quarter, month_start. Never filter on session_ts directly.\n", timezone)
	b.WriteString("2. Round every averaged rating to two decimals: ROUND(AVG(avg_rating)::numeric, 2).\n")
	b.WriteString("3. When a question asks for an overall or weighted average across sessions, weight by responses with division-by-zero protection: ROUND((SUM(avg_rating * responses) / NULLIF(SUM(responses), 0))::numeric, 2).\n")
	b.WriteString("4. For month-over-month trend questions, compute the previous month with a window function (LAG over month_start) inside a CTE, and select from that CTE without any outer WHERE filter.\n")
	b.WriteString("5. For questions about consistency or reliability, use the standard deviation of avg_rating: ROUND(STDDEV(avg_rating)::numeric, 2), ascending order means most consistent first.\n")
	b.WriteString("6. Counting responses means SUM(responses); counting sessions means COUNT(*). Use COUNT(DISTINCT ...) only when the question asks for distinct entities.\n")
	b.WriteString("7. Ignore rows with NULL avg_rating when aggregating ratings.\n")
	b.WriteString("8. The query must be a single SELECT statement (optionally introduced by WITH). Never modify data.\n")
	b.WriteString("9. Output the SQL statement only. No explanations, no markdown fences.\n")

	b.WriteString("\n# Question\n\n")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

// BuildSummaryPrompt creates the prompt for summarizing executed results.
// Only up to maxRows rows are included to bound prompt size.
func BuildSummaryPrompt(question, sqlQuery string, rows []map[string]any, maxRows int) string {
	var b strings.Builder

	b.WriteString("# Question\n\n")
	b.WriteString(question)

	b.WriteString("\n\n# Executed SQL\n\n")
	b.WriteString(sqlQuery)

	sample := rows
	if maxRows > 0 && len(rows) > maxRows {
		sample = rows[:maxRows]
	}

	fmt.Fprintf(&b, "\n\n# Result rows (%d of %d)\n\n", len(sample), len(rows))
	for _, row := range sample {
		line, err := json.Marshal(row)
		if err != nil {
			// Unmarshalable values (rare driver types) degrade to fmt.
			fmt.Fprintf(&b, "%v\n", row)
			continue
		}
		b.Write(line)
		b.WriteString("\n")
	}

	b.WriteString("\nDescribe the finding in one or two sentences of plain language.\n")

	return b.String()
}
