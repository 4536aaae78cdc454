package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/desiverse/api/internal/models"
	"github.com/stwalsh4118/desiverse/api/internal/repository"
)

// MockTourismRepository is a mock implementation of TourismRepository for testing
type MockTourismRepository struct {
	mock.Mock
}

func (m *MockTourismRepository) ReplaceAll(ctx context.Context, records []models.TourismRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTourismRepository) Append(ctx context.Context, records []models.TourismRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTourismRepository) List(ctx context.Context, filter repository.Filter) ([]models.TourismRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TourismRecord), args.Error(1)
}

func (m *MockTourismRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher is a mock implementation of publisher.Publisher for testing
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, records []models.TourismRecord) error {
	return m.Called(ctx, records).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// fixtureRecords is a small dataset over two states, two regions and two years.
func fixtureRecords() []models.TourismRecord {
	return []models.TourismRecord{
		{State: "Kerala", ArtForm: "Kathakali", TouristVisits: 100, Month: 1, Year: 2020, Region: "South", FundingReceived: 50},
		{State: "Punjab", ArtForm: "Bhangra", TouristVisits: 300, Month: 1, Year: 2020, Region: "North", FundingReceived: 150},
		{State: "Kerala", ArtForm: "Theyyam", TouristVisits: 200, Month: 7, Year: 2021, Region: "South", FundingReceived: 300},
		{State: "Punjab", ArtForm: "Giddha", TouristVisits: 400, Month: 7, Year: 2021, Region: "North", FundingReceived: 200},
	}
}
