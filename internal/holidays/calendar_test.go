package holidays

import (
	"context"
	"testing"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	rows    []models.Holiday
	queries [][]int
}

func (f *fakeHolidayRepo) FindByYears(_ context.Context, years []int) ([]models.Holiday, error) {
	f.queries = append(f.queries, years)
	var out []models.Holiday
	for _, h := range f.rows {
		for _, y := range years {
			if h.Year == y {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) Upsert(_ context.Context, h *models.Holiday) error {
	f.rows = append(f.rows, *h)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarForYearsCachesPerYear(t *testing.T) {
	repo := &fakeHolidayRepo{rows: []models.Holiday{
		{Date: day(2025, time.May, 1), Year: 2025, Name: "Día del Trabajador"},
		{Date: day(2026, time.January, 1), Year: 2026, Name: "Año Nuevo"},
	}}
	cal := NewCalendar(repo, NewMemoryCache(), time.Hour)
	ctx := context.Background()

	set, err := cal.ForYears(ctx, 2025, 2026, 2025)
	require.NoError(t, err)
	assert.True(t, set.Contains(day(2025, time.May, 1)))
	assert.True(t, set.Contains(day(2026, time.January, 1)))
	require.Len(t, repo.queries, 1)
	assert.ElementsMatch(t, []int{2025, 2026}, repo.queries[0])

	set, err = cal.ForYears(ctx, 2025)
	require.NoError(t, err)
	assert.True(t, set.Contains(day(2025, time.May, 1)))
	assert.Len(t, repo.queries, 1, "second call must be served from cache")
}

func TestCalendarCachesEmptyYears(t *testing.T) {
	repo := &fakeHolidayRepo{}
	cal := NewCalendar(repo, NewMemoryCache(), time.Hour)

	_, err := cal.ForYears(context.Background(), 2030)
	require.NoError(t, err)
	_, err = cal.ForYears(context.Background(), 2030)
	require.NoError(t, err)
	assert.Len(t, repo.queries, 1)
}

func TestCalendarAddInvalidatesYear(t *testing.T) {
	repo := &fakeHolidayRepo{}
	cal := NewCalendar(repo, NewMemoryCache(), time.Hour)
	ctx := context.Background()

	set, err := cal.ForYears(ctx, 2025)
	require.NoError(t, err)
	assert.False(t, set.Contains(day(2025, time.July, 9)))

	require.NoError(t, cal.Add(ctx, time.Date(2025, time.July, 9, 18, 0, 0, 0, time.UTC), "Independencia"))

	set, err = cal.ForYears(ctx, 2025)
	require.NoError(t, err)
	assert.True(t, set.Contains(day(2025, time.July, 9)))
	assert.Len(t, repo.queries, 2)
}

func TestCalendarWithoutCache(t *testing.T) {
	repo := &fakeHolidayRepo{rows: []models.Holiday{{Date: day(2025, time.May, 1), Year: 2025}}}
	cal := NewCalendar(repo, nil, 0)

	for i := 0; i < 2; i++ {
		set, err := cal.ForYears(context.Background(), 2025)
		require.NoError(t, err)
		assert.True(t, set.Contains(day(2025, time.May, 1)))
	}
	assert.Len(t, repo.queries, 2)
}

func TestMemoryCacheExpires(t *testing.T) {
	now := day(2025, time.January, 1)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	got, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestYearsBetween(t *testing.T) {
	assert.Equal(t, []int{2025, 2026}, YearsBetween(2025, 2025))
	assert.Equal(t, []int{2024, 2025}, YearsBetween(2024, 2025))
	assert.Equal(t, []int{2023, 2024, 2025}, YearsBetween(2025, 2023))
}
