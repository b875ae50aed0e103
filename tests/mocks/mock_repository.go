package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"nutrilog/internal/models"
	"nutrilog/internal/vision"
)

// Shared MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindOrCreateByProviderUID(provider, uid, email string) (*models.User, error) {
	args := m.Called(provider, uid, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// Shared MockFoodLogRepository
type MockFoodLogRepository struct {
	mock.Mock
}

func (m *MockFoodLogRepository) Create(foodLog *models.FoodLog) error {
	args := m.Called(foodLog)
	return args.Error(0)
}

func (m *MockFoodLogRepository) FindByIDAndUserID(id, userID uint) (*models.FoodLog, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodLog), args.Error(1)
}

func (m *MockFoodLogRepository) Update(foodLog *models.FoodLog, updates map[string]interface{}) error {
	args := m.Called(foodLog, updates)
	return args.Error(0)
}

func (m *MockFoodLogRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockFoodLogRepository) FindAllByUserID(userID uint, orderBy string) ([]models.FoodLog, error) {
	args := m.Called(userID, orderBy)
	return args.Get(0).([]models.FoodLog), args.Error(1)
}

func (m *MockFoodLogRepository) FindByUserIDAndCreatedAtRange(userID uint, start, end time.Time) ([]models.FoodLog, error) {
	args := m.Called(userID, start, end)
	return args.Get(0).([]models.FoodLog), args.Error(1)
}

func (m *MockFoodLogRepository) FindTodayByUserID(userID uint, now time.Time) ([]models.FoodLog, error) {
	args := m.Called(userID, now)
	return args.Get(0).([]models.FoodLog), args.Error(1)
}

// Shared MockAnalyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, image []byte, nameHint string) vision.Analysis {
	args := m.Called(ctx, image, nameHint)
	return args.Get(0).(vision.Analysis)
}

// Shared MockAnalysisCache
type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) GetAnalysis(imageDigest string) (vision.Analysis, bool, error) {
	args := m.Called(imageDigest)
	return args.Get(0).(vision.Analysis), args.Bool(1), args.Error(2)
}

func (m *MockAnalysisCache) StoreAnalysis(imageDigest string, analysis vision.Analysis, duration time.Duration) error {
	args := m.Called(imageDigest, analysis, duration)
	return args.Error(0)
}
