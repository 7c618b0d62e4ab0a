// Package services wires the ask pipeline: SQL generation, shape validation,
// execution, and summarization.
package services

import (
	"context"
	"fmt"

	"github.com/sessionlens/sessionlens/pkg/database"
	sqlcheck "github.com/sessionlens/sessionlens/pkg/sql"
)

// ExecResult is the row set produced by one query execution.
type ExecResult struct {
	Columns []string
	Rows    []map[string]any
}

// QueryExecutor runs a read-only query with optional positional parameters.
// Implementations must release any acquired connection before returning,
// regardless of outcome.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlQuery string, params ...any) (*ExecResult, error)
}

type pgQueryExecutor struct {
	db *database.DB
}

// NewQueryExecutor creates a QueryExecutor backed by the shared pgx pool.
func NewQueryExecutor(db *database.DB) QueryExecutor {
	return &pgQueryExecutor{db: db}
}

var _ QueryExecutor = (*pgQueryExecutor)(nil)

// Execute runs the query on a pooled connection and collects the full row
// set. pgx returns the connection to the pool when rows are closed, on the
// success and failure paths alike.
func (e *pgQueryExecutor) Execute(ctx context.Context, sqlQuery string, params ...any) (*ExecResult, error) {
	if hits := sqlcheck.CheckAllParameters(params); len(hits) > 0 {
		return nil, fmt.Errorf("parameter %d failed injection check (fingerprint %s)",
			hits[0].ParamIndex, hits[0].Fingerprint)
	}

	rows, err := e.db.Query(ctx, sqlQuery, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &ExecResult{Columns: columns, Rows: resultRows}, nil
}
