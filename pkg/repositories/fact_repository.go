package repositories

import (
	"context"
	"fmt"

	"github.com/sessionlens/sessionlens/pkg/database"
	"github.com/sessionlens/sessionlens/pkg/models"
)

// FactRepository provides access to the session fact table.
type FactRepository interface {
	// Upsert writes a fact row keyed by its natural key. On conflict only
	// the metric columns are overwritten; the dimension references and
	// calendar fields are part of the identity and stay untouched.
	// Returns true when a new row was inserted, false when an existing one
	// was updated.
	Upsert(ctx context.Context, fact *models.SessionFact) (bool, error)
}

type factRepository struct {
	db *database.DB
}

// NewFactRepository creates a new FactRepository.
func NewFactRepository(db *database.DB) FactRepository {
	return &factRepository{db: db}
}

var _ FactRepository = (*factRepository)(nil)

func (r *factRepository) Upsert(ctx context.Context, fact *models.SessionFact) (bool, error) {
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	query := `
		INSERT INTO session_facts (
			topic, type_id, domain_id, class_id, instructor_id,
			session_ts, session_date, year, month, quarter, month_start,
			avg_rating, responses, attendance, rated_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (COALESCE(topic, ''), type_id, domain_id, class_id, instructor_id, session_date)
		DO UPDATE SET
			avg_rating = EXCLUDED.avg_rating,
			responses  = EXCLUDED.responses,
			attendance = EXCLUDED.attendance,
			rated_pct  = EXCLUDED.rated_pct,
			updated_at = now()
		RETURNING (xmax = 0) AS inserted`

	var topic any
	if fact.Topic != "" {
		topic = fact.Topic
	}

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		topic,
		fact.TypeID,
		fact.DomainID,
		fact.ClassID,
		fact.InstructorID,
		fact.SessionTS,
		fact.SessionDate,
		fact.Year,
		fact.Month,
		fact.Quarter,
		fact.MonthStart,
		fact.AvgRating,
		fact.Responses,
		fact.Attendance,
		fact.RatedPct,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert session fact: %w", err)
	}

	return inserted, nil
}
