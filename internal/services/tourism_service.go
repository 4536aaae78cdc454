package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stwalsh4118/desiverse/api/internal/analytics"
	"github.com/stwalsh4118/desiverse/api/internal/logger"
	"github.com/stwalsh4118/desiverse/api/internal/metrics"
	"github.com/stwalsh4118/desiverse/api/internal/models"
	"github.com/stwalsh4118/desiverse/api/internal/reference"
	"github.com/stwalsh4118/desiverse/api/internal/repository"
)

// Year validation constants
const (
	MinYear = 1900
	MaxYear = 2100
)

// Service-level errors
var (
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrDatasetEmpty     = errors.New("dataset is empty")
)

// RecordFilter selects records by year range, region and state. Zero values
// leave the field unconstrained.
type RecordFilter struct {
	StartYear int
	EndYear   int
	Regions   []string
	States    []string
}

// Summary is the grouped view behind the dashboard charts.
type Summary struct {
	Dimension    analytics.Dimension `json:"dimension"`
	Records      int                 `json:"records"`
	TotalVisits  int64               `json:"total_tourist_visits"`
	TotalFunding int64               `json:"total_funding_received"`
	Correlation  float64             `json:"visits_funding_correlation"`
	Groups       []analytics.Group   `json:"groups"`
}

// Statistics is the per-group description of visits and funding.
type Statistics struct {
	Dimension analytics.Dimension     `json:"dimension"`
	Groups    []analytics.Description `json:"groups"`
}

// TourismService defines read operations over the stored dataset.
type TourismService interface {
	// ListRecords returns the records matching filter.
	// Returns ErrInvalidFilter for out-of-range years or unknown names and
	// ErrDatasetEmpty when nothing has been stored yet.
	ListRecords(ctx context.Context, filter RecordFilter) ([]models.TourismRecord, error)

	// Summarize groups the matching records by dimension, ordered by key.
	// Returns ErrInvalidDimension for an unknown dimension.
	Summarize(ctx context.Context, dimension string, filter RecordFilter) (*Summary, error)

	// Describe returns per-group visit and funding statistics, ordered by key.
	Describe(ctx context.Context, dimension string, filter RecordFilter) (*Statistics, error)

	// States returns the reference states with their coordinates and art forms.
	States() []models.State

	// Invalidate drops every cached listing.
	Invalidate()
}

// tourismService is the concrete implementation of TourismService.
type tourismService struct {
	repo    repository.TourismRepository
	tables  *reference.Tables
	cache   *cache.Cache
	metrics *metrics.Metrics
	log     *logger.Logger

	// generation changes on every Invalidate. A listing read under an older
	// generation is returned but not cached.
	generation atomic.Uint64
}

// NewTourismService creates a new instance of TourismService. Listings are
// cached for ttl.
func NewTourismService(
	repo repository.TourismRepository,
	tables *reference.Tables,
	ttl, cleanupInterval time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) TourismService {
	return &tourismService{
		repo:    repo,
		tables:  tables,
		cache:   cache.New(ttl, cleanupInterval),
		metrics: m,
		log:     log,
	}
}

func (s *tourismService) ListRecords(ctx context.Context, filter RecordFilter) ([]models.TourismRecord, error) {
	return s.load(ctx, filter)
}

func (s *tourismService) Summarize(ctx context.Context, dimension string, filter RecordFilter) (*Summary, error) {
	dim, err := s.parseDimension(dimension)
	if err != nil {
		return nil, err
	}

	records, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := analytics.GroupBy(records, dim)
	analytics.SortGroups(groups, analytics.SortByKey)
	visits, funding := analytics.Totals(records)

	return &Summary{
		Dimension:    dim,
		Records:      len(records),
		TotalVisits:  visits,
		TotalFunding: funding,
		Correlation:  analytics.Correlation(records),
		Groups:       groups,
	}, nil
}

func (s *tourismService) Describe(ctx context.Context, dimension string, filter RecordFilter) (*Statistics, error) {
	dim, err := s.parseDimension(dimension)
	if err != nil {
		return nil, err
	}

	records, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	descs := analytics.Describe(records, dim)
	analytics.SortDescriptions(descs)
	return &Statistics{Dimension: dim, Groups: descs}, nil
}

func (s *tourismService) States() []models.State {
	return slices.Clone(s.tables.States)
}

func (s *tourismService) Invalidate() {
	s.generation.Add(1)
	s.cache.Flush()
	s.log.Debug("Tourism cache invalidated", nil)
}

func (s *tourismService) parseDimension(name string) (analytics.Dimension, error) {
	dim, err := analytics.ParseDimension(name)
	if err != nil {
		s.log.Warn("Invalid dimension provided", map[string]interface{}{"dimension": name})
		return "", fmt.Errorf("%w: %q is not one of %v", ErrInvalidDimension, name, analytics.Dimensions)
	}
	return dim, nil
}

// load validates filter and returns the matching records, from the cache
// when possible. The returned slice is shared with the cache and must not be
// modified.
func (s *tourismService) load(ctx context.Context, filter RecordFilter) ([]models.TourismRecord, error) {
	filter, err := s.normalize(filter)
	if err != nil {
		s.log.Warn("Invalid filter provided", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	key := cacheKey(filter)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return cached.([]models.TourismRecord), nil
	}
	s.metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	generation := s.generation.Load()
	records, err := s.repo.List(ctx, repository.Filter{
		StartYear: filter.StartYear,
		EndYear:   filter.EndYear,
		Regions:   filter.Regions,
		States:    filter.States,
	})
	if err != nil {
		s.log.Error("Failed to list tourism records", err, map[string]interface{}{"filter": key})
		return nil, fmt.Errorf("failed to list tourism records: %w", err)
	}

	if len(records) == 0 {
		total, err := s.repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count tourism records: %w", err)
		}
		if total == 0 {
			return nil, ErrDatasetEmpty
		}
	}

	if s.generation.Load() != generation {
		s.log.Debug("Dataset replaced during load, skipping cache", map[string]interface{}{"filter": key})
		return records, nil
	}

	s.cache.SetDefault(key, records)
	s.log.Debug("Tourism records loaded", map[string]interface{}{
		"filter": key,
		"count":  len(records),
	})
	return records, nil
}

// normalize validates filter against the reference tables and returns it
// with names trimmed, de-duplicated and sorted.
func (s *tourismService) normalize(f RecordFilter) (RecordFilter, error) {
	for _, y := range []int{f.StartYear, f.EndYear} {
		if y != 0 && (y < MinYear || y > MaxYear) {
			return f, fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidFilter, MinYear, MaxYear, y)
		}
	}
	if f.StartYear != 0 && f.EndYear != 0 && f.EndYear < f.StartYear {
		return f, fmt.Errorf("%w: end year %d is before start year %d", ErrInvalidFilter, f.EndYear, f.StartYear)
	}

	regions := cleanNames(f.Regions)
	for _, r := range regions {
		if !s.tables.HasRegion(r) {
			return f, fmt.Errorf("%w: unknown region %q", ErrInvalidFilter, r)
		}
	}

	states := cleanNames(f.States)
	for _, name := range states {
		if _, ok := s.tables.State(name); !ok {
			return f, fmt.Errorf("%w: unknown state %q", ErrInvalidFilter, name)
		}
	}

	return RecordFilter{StartYear: f.StartYear, EndYear: f.EndYear, Regions: regions, States: states}, nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func cacheKey(f RecordFilter) string {
	return strings.Join([]string{
		strconv.Itoa(f.StartYear),
		strconv.Itoa(f.EndYear),
		strings.Join(f.Regions, ","),
		strings.Join(f.States, ","),
	}, "|")
}
