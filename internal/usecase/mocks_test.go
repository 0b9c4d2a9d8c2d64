package usecase

import (
	"context"
	"time"

	"github.com/macrolens/intake/internal/domain"
)

// MockCatalogStore is an in-memory domain.CatalogStore
type MockCatalogStore struct {
	foods      map[string]domain.NutrientRecord
	loadError  error
	mergeError error
	merged     []string
}

func NewMockCatalogStore(foods map[string]domain.NutrientRecord) *MockCatalogStore {
	if foods == nil {
		foods = make(map[string]domain.NutrientRecord)
	}
	return &MockCatalogStore{foods: foods}
}

func (m *MockCatalogStore) Load(ctx context.Context) (map[string]domain.NutrientRecord, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	out := make(map[string]domain.NutrientRecord, len(m.foods))
	for name, record := range m.foods {
		out[name] = record.Clone()
	}
	return out, nil
}

func (m *MockCatalogStore) Merge(ctx context.Context, name string, record domain.NutrientRecord) error {
	if m.mergeError != nil {
		return m.mergeError
	}
	m.foods[name] = record.Clone()
	m.merged = append(m.merged, name)
	return nil
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data       map[string]interface{}
	getError   error
	setError   error
	getCalls   int
	setCalls   int
	clearCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheRepository) Clear(ctx context.Context) error {
	m.clearCalls++
	m.data = make(map[string]interface{})
	return nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	searchResult *domain.USDASearchResponse
	searchError  error
	queries      []string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{}
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	m.queries = append(m.queries, query)
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

// testFoods is a small catalog shared by the usecase tests.
func testFoods() map[string]domain.NutrientRecord {
	return map[string]domain.NutrientRecord{
		"apple":  domain.NewNutrientRecord(52, 0.2, 0.3, 14, 10),
		"banana": domain.NewNutrientRecord(89, 0.3, 1.1, 23, 12),
		"rice":   domain.NewNutrientRecord(130, 0.3, 2.7, 28, 0.1),
		"eggs":   domain.NewNutrientRecord(155, 11, 13, 1.1, 1.1),
		"bread":  domain.NewNutrientRecord(265, 3.2, 9, 49, 5),
	}
}
