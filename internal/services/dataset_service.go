package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stwalsh4118/desiverse/api/internal/generator"
	"github.com/stwalsh4118/desiverse/api/internal/logger"
	"github.com/stwalsh4118/desiverse/api/internal/metrics"
	"github.com/stwalsh4118/desiverse/api/internal/publisher"
	"github.com/stwalsh4118/desiverse/api/internal/repository"
)

// GeneratorFactory returns a fresh generator for each refresh. Generators
// are not safe for concurrent use.
type GeneratorFactory func() *generator.Generator

// RefreshResult describes a completed dataset refresh. Published is false
// when publishing is disabled or failed; a failed publish does not fail the
// refresh.
type RefreshResult struct {
	Records     int       `json:"records"`
	Stored      int64     `json:"stored"`
	Published   bool      `json:"published"`
	Years       []int     `json:"years"`
	GeneratedAt time.Time `json:"generated_at"`
	DurationMS  int64     `json:"duration_ms"`
}

// DatasetService regenerates the stored dataset.
type DatasetService interface {
	// Refresh generates a new dataset, replaces the stored one, publishes it
	// and invalidates cached reads. Concurrent calls run one at a time.
	Refresh(ctx context.Context) (*RefreshResult, error)
}

// datasetService is the concrete implementation of DatasetService.
type datasetService struct {
	mu           sync.Mutex
	newGenerator GeneratorFactory
	repo         repository.TourismRepository
	publisher    publisher.Publisher
	tourism      TourismService
	metrics      *metrics.Metrics
	clock        clockwork.Clock
	log          *logger.Logger
}

// NewDatasetService creates a new instance of DatasetService.
func NewDatasetService(
	newGenerator GeneratorFactory,
	repo repository.TourismRepository,
	pub publisher.Publisher,
	tourism TourismService,
	m *metrics.Metrics,
	clock clockwork.Clock,
	log *logger.Logger,
) DatasetService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &datasetService{
		newGenerator: newGenerator,
		repo:         repo,
		publisher:    pub,
		tourism:      tourism,
		metrics:      m,
		clock:        clock,
		log:          log,
	}
}

func (s *datasetService) Refresh(ctx context.Context) (*RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()

	gen := s.newGenerator()
	records := gen.Generate()
	s.metrics.RecordsGenerated.Add(float64(len(records)))

	s.log.Info("Dataset generated", map[string]interface{}{
		"records": len(records),
		"years":   gen.Period().Years(),
	})

	stored, err := s.repo.ReplaceAll(ctx, records)
	if err != nil {
		s.metrics.RefreshTotal.WithLabelValues(metrics.OutcomeError).Inc()
		s.log.Error("Failed to store dataset", err, map[string]interface{}{"records": len(records)})
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}

	// The store now holds the new dataset whatever happens below.
	s.tourism.Invalidate()
	s.metrics.DatasetRecords.Set(float64(stored))

	_, disabled := s.publisher.(publisher.NopPublisher)
	published := !disabled
	if err := s.publisher.Publish(ctx, records); err != nil {
		published = false
		s.log.Error("Failed to publish dataset", err, map[string]interface{}{"records": len(records)})
	}

	elapsed := s.clock.Since(start)
	s.metrics.RefreshDuration.Observe(elapsed.Seconds())
	s.metrics.RefreshTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	result := &RefreshResult{
		Records:     len(records),
		Stored:      stored,
		Published:   published,
		Years:       gen.Period().Years(),
		GeneratedAt: start.UTC(),
		DurationMS:  elapsed.Milliseconds(),
	}

	s.log.Info("Dataset refreshed", map[string]interface{}{
		"records":     result.Records,
		"stored":      result.Stored,
		"published":   result.Published,
		"duration_ms": result.DurationMS,
	})
	return result, nil
}
