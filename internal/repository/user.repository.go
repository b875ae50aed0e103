package repository

import (
	"errors"

	"gorm.io/gorm"

	"nutrilog/internal/models"
)

type UserRepository interface {
	FindOrCreateByProviderUID(provider, uid, email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Save(user *models.User) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindOrCreateByProviderUID is idempotent on (provider, uid): repeat sign-ins
// return the existing record, refreshing the email when the provider sent a
// new non-blank one.
func (ur *userRepository) FindOrCreateByProviderUID(provider, uid, email string) (*models.User, error) {
	var user models.User
	err := ur.db.Where("provider = ? AND uid = ?", provider, uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Provider: provider, UID: uid, Email: email}
		if err := ur.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if email != "" && user.Email != email {
		user.Email = email
		if err := ur.db.Save(&user).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (ur *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := ur.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) Save(user *models.User) error {
	return ur.db.Save(user).Error
}

// Delete removes the user and all owned food logs.
func (ur *userRepository) Delete(id uint) error {
	return ur.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.FoodLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
