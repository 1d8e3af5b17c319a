// Package holidays supplies the non-business days used to shift punitory
// grace dates. Sets are read from the database and cached per year.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
)

const dateLayout = "2006-01-02"

// Calendar resolves holiday sets by year
type Calendar struct {
	repo  repository.HolidayRepository
	cache Cache
	ttl   time.Duration
}

// NewCalendar creates a calendar backed by repo. A nil cache disables caching.
func NewCalendar(repo repository.HolidayRepository, cache Cache, ttl time.Duration) *Calendar {
	return &Calendar{repo: repo, cache: cache, ttl: ttl}
}

func cacheKey(year int) string {
	return fmt.Sprintf("holidays:%d", year)
}

// ForYears returns every holiday in the given years as one set. Cached years
// are served from the cache; the rest come from a single query.
func (c *Calendar) ForYears(ctx context.Context, years ...int) (billing.HolidaySet, error) {
	set := billing.NewHolidaySet()
	var missing []int
	seen := make(map[int]bool, len(years))

	for _, year := range years {
		if seen[year] {
			continue
		}
		seen[year] = true
		if cached, ok := c.fromCache(ctx, year); ok {
			set.Merge(cached)
			continue
		}
		missing = append(missing, year)
	}
	if len(missing) == 0 {
		return set, nil
	}

	rows, err := c.repo.FindByYears(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}

	byYear := make(map[int][]string, len(missing))
	for _, year := range missing {
		byYear[year] = []string{}
	}
	for _, h := range rows {
		set.Add(h.Date)
		byYear[h.Year] = append(byYear[h.Year], billing.DateOnly(h.Date).Format(dateLayout))
	}
	for year, dates := range byYear {
		c.store(ctx, year, dates)
	}
	return set, nil
}

// ForPeriod returns holidays relevant to a billing period and any payment
// made up to the end of the following year.
func (c *Calendar) ForPeriod(ctx context.Context, month, year int, asOf time.Time) (billing.HolidaySet, error) {
	return c.ForYears(ctx, YearsBetween(year, asOf.Year())...)
}

// YearsBetween lists from..to inclusive, plus the year after from when the
// range is a single year (December grace days may shift into January).
func YearsBetween(from, to int) []int {
	if to < from {
		from, to = to, from
	}
	if to == from {
		to = from + 1
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// Add stores a holiday and drops the cached set for its year
func (c *Calendar) Add(ctx context.Context, date time.Time, name string) error {
	day := billing.DateOnly(date)
	h := &models.Holiday{Date: day, Name: name, Year: day.Year()}
	if err := c.repo.Upsert(ctx, h); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.Delete(ctx, cacheKey(day.Year())); err != nil {
			logger.Warn("holiday cache invalidation failed", "year", day.Year(), "error", err)
		}
	}
	return nil
}

// Warm loads the given years into the cache
func (c *Calendar) Warm(ctx context.Context, years ...int) error {
	_, err := c.ForYears(ctx, years...)
	return err
}

func (c *Calendar) fromCache(ctx context.Context, year int) (billing.HolidaySet, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok := c.cache.Get(ctx, cacheKey(year))
	if !ok {
		return nil, false
	}
	var dates []string
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		logger.Warn("discarding corrupt holiday cache entry", "year", year, "error", err)
		return nil, false
	}
	set := billing.NewHolidaySet()
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, false
		}
		set.Add(t)
	}
	return set, true
}

func (c *Calendar) store(ctx context.Context, year int, dates []string) {
	if c.cache == nil {
		return
	}
	sort.Strings(dates)
	raw, err := json.Marshal(dates)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(year), string(raw), c.ttl); err != nil {
		logger.Warn("holiday cache write failed", "year", year, "error", err)
	}
}
