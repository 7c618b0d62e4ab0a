package etl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/models"
)

type fakeDimensionRepo struct {
	ids    map[string]int
	nextID int
	err    error
}

func newFakeDimensionRepo() *fakeDimensionRepo {
	return &fakeDimensionRepo{ids: map[string]int{}}
}

func (f *fakeDimensionRepo) upsert(table, name string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	key := table + "/" + name
	if id, ok := f.ids[key]; ok {
		return id, nil
	}
	f.nextID++
	f.ids[key] = f.nextID
	return f.nextID, nil
}

func (f *fakeDimensionRepo) UpsertInstructor(ctx context.Context, name string) (int, error) {
	return f.upsert("instructors", name)
}

func (f *fakeDimensionRepo) UpsertClass(ctx context.Context, name string) (int, error) {
	return f.upsert("classes", name)
}

func (f *fakeDimensionRepo) UpsertDomain(ctx context.Context, name string) (int, error) {
	return f.upsert("domains", name)
}

func (f *fakeDimensionRepo) UpsertType(ctx context.Context, name string) (int, error) {
	return f.upsert("session_types", name)
}

func (f *fakeDimensionRepo) ListInstructors(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeDimensionRepo) ListClasses(ctx context.Context) ([]string, error)     { return nil, nil }
func (f *fakeDimensionRepo) ListDomains(ctx context.Context) ([]string, error)     { return nil, nil }

type fakeFactRepo struct {
	facts map[string]*models.SessionFact
	err   error
}

func newFakeFactRepo() *fakeFactRepo {
	return &fakeFactRepo{facts: map[string]*models.SessionFact{}}
}

func (f *fakeFactRepo) Upsert(ctx context.Context, fact *models.SessionFact) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := naturalKey(fact)
	_, existed := f.facts[key]
	f.facts[key] = fact
	return !existed, nil
}

func naturalKey(fact *models.SessionFact) string {
	return fmt.Sprintf("%s|%s|%d|%d|%d|%d",
		fact.Topic, fact.SessionDate.Format("2006-01-02"),
		fact.TypeID, fact.DomainID, fact.ClassID, fact.InstructorID)
}

func newTestLoader(dims *fakeDimensionRepo, facts *fakeFactRepo) *Loader {
	return NewLoader(dims, facts, time.UTC, zap.NewNop())
}

func record(topic, instructor string, date *time.Time) models.SessionRecord {
	return models.SessionRecord{
		Topic:      topic,
		Type:       "Workshop",
		Domain:     "Engineering",
		Class:      "Backend",
		Instructor: instructor,
		Date:       date,
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLoad_InsertThenUpdate(t *testing.T) {
	dims := newFakeDimensionRepo()
	facts := newFakeFactRepo()
	loader := newTestLoader(dims, facts)

	batch := []models.SessionRecord{
		record("GO-101", "Kim Lee", datePtr(2025, 4, 3)),
		record("GO-102", "Ana Cruz", datePtr(2025, 4, 4)),
	}

	report, err := loader.Load(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Updated)

	// Re-running the same batch only updates.
	report, err = loader.Load(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 2, report.Updated)
	assert.Len(t, facts.facts, 2)
}

func TestLoad_CountsSkippedAndBadDate(t *testing.T) {
	dims := newFakeDimensionRepo()
	facts := newFakeFactRepo()
	loader := newTestLoader(dims, facts)

	missing := record("GO-101", "", datePtr(2025, 4, 3))
	badDate := record("GO-102", "Kim Lee", nil)
	badDate.RawDate = "sometime"
	good := record("GO-103", "Kim Lee", datePtr(2025, 4, 3))

	report, err := loader.Load(context.Background(), []models.SessionRecord{missing, badDate, good})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.BadDate)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 3, report.Total())
	assert.Len(t, facts.facts, 1)
}

func TestLoad_RepoFailureDoesNotAbortBatch(t *testing.T) {
	dims := newFakeDimensionRepo()
	facts := newFakeFactRepo()
	facts.err = errors.New("connection reset")
	loader := newTestLoader(dims, facts)

	batch := []models.SessionRecord{
		record("GO-101", "Kim Lee", datePtr(2025, 4, 3)),
		record("GO-102", "Ana Cruz", datePtr(2025, 4, 4)),
	}

	report, err := loader.Load(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, report.Inserted)
}

func TestLoad_DerivesCalendarFields(t *testing.T) {
	dims := newFakeDimensionRepo()
	facts := newFakeFactRepo()
	loader := newTestLoader(dims, facts)

	_, err := loader.Load(context.Background(), []models.SessionRecord{
		record("GO-101", "Kim Lee", datePtr(2025, 8, 15)),
	})
	require.NoError(t, err)
	require.Len(t, facts.facts, 1)

	for _, fact := range facts.facts {
		assert.Equal(t, 2025, fact.Year)
		assert.Equal(t, 8, fact.Month)
		assert.Equal(t, 3, fact.Quarter)
		assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), fact.MonthStart)
		assert.Equal(t, time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC), fact.SessionTS)
	}
}

func TestBackfillMetrics(t *testing.T) {
	intPtr := func(n int) *int { return &n }
	floatPtr := func(f float64) *float64 { return &f }

	t.Run("responses from attendance and pct", func(t *testing.T) {
		responses, pct := BackfillMetrics(nil, intPtr(40), floatPtr(50))
		require.NotNil(t, responses)
		assert.Equal(t, 20, *responses)
		require.NotNil(t, pct)
		assert.InDelta(t, 50, *pct, 1e-9)
	})

	t.Run("pct from responses and attendance", func(t *testing.T) {
		responses, pct := BackfillMetrics(intPtr(18), intPtr(20), nil)
		require.NotNil(t, responses)
		assert.Equal(t, 18, *responses)
		require.NotNil(t, pct)
		assert.InDelta(t, 90, *pct, 1e-9)
	})

	t.Run("zero attendance never divides", func(t *testing.T) {
		_, pct := BackfillMetrics(intPtr(5), intPtr(0), nil)
		assert.Nil(t, pct)
	})

	t.Run("nothing to derive", func(t *testing.T) {
		responses, pct := BackfillMetrics(nil, nil, nil)
		assert.Nil(t, responses)
		assert.Nil(t, pct)
	})
}
