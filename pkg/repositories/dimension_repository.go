// Package repositories provides data access for the star schema.
package repositories

import (
	"context"
	"fmt"

	"github.com/sessionlens/sessionlens/pkg/database"
)

// DimensionRepository provides access to the four dimension tables.
// Dimensions are name lookups: created on first sight, never deleted.
type DimensionRepository interface {
	UpsertInstructor(ctx context.Context, name string) (int, error)
	UpsertClass(ctx context.Context, name string) (int, error)
	UpsertDomain(ctx context.Context, name string) (int, error)
	UpsertType(ctx context.Context, name string) (int, error)

	ListInstructors(ctx context.Context) ([]string, error)
	ListClasses(ctx context.Context) ([]string, error)
	ListDomains(ctx context.Context) ([]string, error)
}

type dimensionRepository struct {
	db *database.DB
}

// NewDimensionRepository creates a new DimensionRepository.
func NewDimensionRepository(db *database.DB) DimensionRepository {
	return &dimensionRepository{db: db}
}

var _ DimensionRepository = (*dimensionRepository)(nil)

// upsertName inserts a dimension name or returns the existing surrogate id.
// The DO UPDATE no-op makes RETURNING work on the conflict path too.
func (r *dimensionRepository) upsertName(ctx context.Context, table, name string) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, table)

	var id int
	if err := r.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert %s %q: %w", table, name, err)
	}
	return id, nil
}

func (r *dimensionRepository) UpsertInstructor(ctx context.Context, name string) (int, error) {
	return r.upsertName(ctx, "instructors", name)
}

func (r *dimensionRepository) UpsertClass(ctx context.Context, name string) (int, error) {
	return r.upsertName(ctx, "classes", name)
}

func (r *dimensionRepository) UpsertDomain(ctx context.Context, name string) (int, error) {
	return r.upsertName(ctx, "domains", name)
}

func (r *dimensionRepository) UpsertType(ctx context.Context, name string) (int, error) {
	return r.upsertName(ctx, "session_types", name)
}

func (r *dimensionRepository) listNames(ctx context.Context, table string) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s ORDER BY name`, table)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s name: %w", table, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	return names, nil
}

func (r *dimensionRepository) ListInstructors(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, "instructors")
}

func (r *dimensionRepository) ListClasses(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, "classes")
}

func (r *dimensionRepository) ListDomains(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, "domains")
}
