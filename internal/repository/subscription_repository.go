package repository

import (
	"bitbybit_backend/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	DB *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) Create(sub *model.UserSubscription) error {
	return r.DB.Create(sub).Error
}

func (r *SubscriptionRepository) FindByUser(userID uint) ([]model.UserSubscription, error) {
	var subs []model.UserSubscription
	err := r.DB.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

// HasActive reports whether the user holds an active subscription for the
// course.
func (r *SubscriptionRepository) HasActive(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserSubscription{}).
		Where("user_id = ? AND course_id = ? AND active = ?", userID, courseID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionRepository) Deactivate(userID, courseID uint) error {
	return r.DB.Model(&model.UserSubscription{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("active", false).Error
}
