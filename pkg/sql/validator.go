// Package sql provides validation utilities for generated SQL.
package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyQuery indicates the candidate was empty after cleanup.
	ErrEmptyQuery = errors.New("generated query is empty")

	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)

// fencePattern matches markdown code fences the generator is told not to
// emit but sometimes does anyway.
var fencePattern = regexp.MustCompile("(?s)^```(?:sql)?\\s*(.*?)\\s*```$")

// selectPrefixPattern matches the only statement openers the pipeline
// accepts: a CTE introducer or a selection keyword.
var selectPrefixPattern = regexp.MustCompile(`(?i)^\s*(WITH|SELECT)\s+`)

// modifyingCTEPattern matches CTEs that contain data-modifying operations.
// Example: WITH deleted AS (DELETE FROM ...) SELECT * FROM deleted
var modifyingCTEPattern = regexp.MustCompile(`(?i)\bAS\s*\(\s*(INSERT|UPDATE|DELETE)\b`)

// ShapeError is the structured "invalid generated query" error. It carries
// the offending text for diagnostics.
type ShapeError struct {
	Query  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid generated query: %s", e.Reason)
}

// CleanGeneratedSQL strips enclosing code-fence markers and surrounding
// whitespace from generator output. The instruction prompt forbids fences,
// but the external model may not comply.
func CleanGeneratedSQL(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}
	return cleaned
}

// ValidateShape is the syntactic gate run before any execution. It is a
// coarse shape check, not a semantic or security guarantee: the candidate
// must be non-empty, begin with WITH or SELECT, contain a FROM or SELECT
// keyword, and be a single statement with no data-modifying CTE.
// On success it returns the normalized query (trailing semicolon stripped).
func ValidateShape(sqlQuery string) (string, error) {
	trimmed := strings.TrimSpace(sqlQuery)
	if trimmed == "" {
		return "", ErrEmptyQuery
	}

	if !selectPrefixPattern.MatchString(trimmed) {
		return "", &ShapeError{Query: trimmed, Reason: "statement must begin with WITH or SELECT"}
	}

	upper := strings.ToUpper(trimmed)
	if !strings.Contains(upper, "FROM") && !strings.Contains(upper, "SELECT") {
		return "", &ShapeError{Query: trimmed, Reason: "statement has no FROM or SELECT clause"}
	}

	if modifyingCTEPattern.MatchString(trimmed) {
		return "", &ShapeError{Query: trimmed, Reason: "data-modifying CTE not allowed"}
	}

	normalized := stripTrailingSemicolon(trimmed)
	if hasSemicolonOutsideStrings(normalized) {
		return "", &ShapeError{Query: trimmed, Reason: ErrMultipleStatements.Error()}
	}

	return normalized, nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals. Since the trailing semicolon is already
// stripped, any remaining one indicates multiple statements.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// SQL standard doubled quote ('') exits and immediately re-enters,
			// which correctly keeps us inside the string.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes a trailing semicolon and surrounding whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimRight(strings.TrimSuffix(sqlQuery, ";"), " \t\n\r")
	}
	return sqlQuery
}
