package etl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/models"
	"github.com/sessionlens/sessionlens/pkg/repositories"
)

// Loader upserts normalized session records into the star schema. Records
// are processed strictly sequentially, one upsert per record; a record's
// failure never aborts the batch.
type Loader struct {
	dims   repositories.DimensionRepository
	facts  repositories.FactRepository
	loc    *time.Location
	logger *zap.Logger
}

// NewLoader creates a Loader deriving calendar fields in the given
// reporting timezone.
func NewLoader(dims repositories.DimensionRepository, facts repositories.FactRepository, loc *time.Location, logger *zap.Logger) *Loader {
	return &Loader{
		dims:   dims,
		facts:  facts,
		loc:    loc,
		logger: logger.Named("etl"),
	}
}

// Load runs one batch. Rows missing a required dimension value are counted
// as skipped; rows whose date matched no known format are counted as
// bad-date. Everything else is upserted on the natural key.
func (l *Loader) Load(ctx context.Context, records []models.SessionRecord) (models.LoadReport, error) {
	var report models.LoadReport

	for i, rec := range records {
		if !rec.HasRequiredFields() {
			report.Skipped++
			l.logger.Debug("skipping row with missing required field", zap.Int("row", i+1))
			continue
		}
		if rec.Date == nil {
			report.BadDate++
			l.logger.Warn("skipping row with unparseable date",
				zap.Int("row", i+1),
				zap.Any("raw_date", rec.RawDate))
			continue
		}

		inserted, err := l.upsertRecord(ctx, &rec)
		if err != nil {
			// Per-record failures are absorbed; the batch carries on.
			report.Skipped++
			l.logger.Error("failed to load row", zap.Int("row", i+1), zap.Error(err))
			continue
		}

		if inserted {
			report.Inserted++
		} else {
			report.Updated++
		}
	}

	l.logger.Info("load complete",
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("bad_date", report.BadDate))

	return report, nil
}

func (l *Loader) upsertRecord(ctx context.Context, rec *models.SessionRecord) (bool, error) {
	typeID, err := l.dims.UpsertType(ctx, rec.Type)
	if err != nil {
		return false, err
	}
	domainID, err := l.dims.UpsertDomain(ctx, rec.Domain)
	if err != nil {
		return false, err
	}
	classID, err := l.dims.UpsertClass(ctx, rec.Class)
	if err != nil {
		return false, err
	}
	instructorID, err := l.dims.UpsertInstructor(ctx, rec.Instructor)
	if err != nil {
		return false, err
	}

	cal := DeriveCalendar(*rec.Date, l.loc)
	responses, ratedPct := BackfillMetrics(rec.Responses, rec.Attendance, rec.RatedPct)

	fact := &models.SessionFact{
		Topic:        rec.Topic,
		TypeID:       typeID,
		DomainID:     domainID,
		ClassID:      classID,
		InstructorID: instructorID,
		SessionTS:    cal.SessionTS,
		SessionDate:  cal.SessionDate,
		Year:         cal.Year,
		Month:        cal.Month,
		Quarter:      cal.Quarter,
		MonthStart:   cal.MonthStart,
		AvgRating:    rec.AvgRating,
		Responses:    responses,
		Attendance:   rec.Attendance,
		RatedPct:     ratedPct,
	}

	return l.facts.Upsert(ctx, fact)
}

// BackfillMetrics derives the metric the source left blank when the other
// two are present: responses from attendance and rated-percentage, or
// rated-percentage from responses and attendance (attendance > 0 only).
// When neither derivation is possible the metric stays nil.
func BackfillMetrics(responses, attendance *int, ratedPct *float64) (*int, *float64) {
	if responses == nil && attendance != nil && ratedPct != nil {
		n := int(float64(*attendance) * (*ratedPct) / 100)
		responses = &n
	}
	if ratedPct == nil && responses != nil && attendance != nil && *attendance > 0 {
		p := float64(*responses) / float64(*attendance) * 100
		ratedPct = &p
	}
	return responses, ratedPct
}
