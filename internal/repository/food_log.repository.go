package repository

import (
	"time"

	"gorm.io/gorm"

	"nutrilog/internal/models"
)

type FoodLogRepository interface {
	Create(foodLog *models.FoodLog) error
	FindByIDAndUserID(id, userID uint) (*models.FoodLog, error)
	Update(foodLog *models.FoodLog, updates map[string]interface{}) error
	Delete(id uint) error
	FindAllByUserID(userID uint, orderBy string) ([]models.FoodLog, error)
	FindByUserIDAndCreatedAtRange(userID uint, start, end time.Time) ([]models.FoodLog, error)
	FindTodayByUserID(userID uint, now time.Time) ([]models.FoodLog, error)
}

type foodLogRepository struct {
	db *gorm.DB
}

func NewFoodLogRepository(db *gorm.DB) FoodLogRepository {
	return &foodLogRepository{db: db}
}

func (fr *foodLogRepository) Create(foodLog *models.FoodLog) error {
	return fr.db.Create(foodLog).Error
}

// FindByIDAndUserID scopes the lookup to the owner so one user can never
// load another's entry.
func (fr *foodLogRepository) FindByIDAndUserID(id, userID uint) (*models.FoodLog, error) {
	var foodLog models.FoodLog
	err := fr.db.Where("id = ? AND user_id = ?", id, userID).First(&foodLog).Error
	if err != nil {
		return nil, err
	}
	return &foodLog, nil
}

// Update applies an explicit update set. Callers omit keys they do not want
// touched; in particular image_url stays out of the map when no new photo
// was uploaded.
func (fr *foodLogRepository) Update(foodLog *models.FoodLog, updates map[string]interface{}) error {
	return fr.db.Model(foodLog).Updates(updates).Error
}

func (fr *foodLogRepository) Delete(id uint) error {
	return fr.db.Delete(&models.FoodLog{}, id).Error
}

func (fr *foodLogRepository) FindAllByUserID(userID uint, orderBy string) ([]models.FoodLog, error) {
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	var logs []models.FoodLog
	err := fr.db.Where("user_id = ?", userID).Order(orderBy).Find(&logs).Error
	return logs, err
}

func (fr *foodLogRepository) FindByUserIDAndCreatedAtRange(userID uint, start, end time.Time) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := fr.db.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// FindTodayByUserID returns the owner's entries for the current local
// calendar day. The window is local midnight to midnight, not UTC.
func (fr *foodLogRepository) FindTodayByUserID(userID uint, now time.Time) ([]models.FoodLog, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)
	return fr.FindByUserIDAndCreatedAtRange(userID, start, end)
}
