package repository

import (
	"bitbybit_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.DB.First(&attempt, id).Error
	return &attempt, err
}

func (r *AttemptRepository) HistoryByUser(userID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ResponsesByAttempt(attemptID uint) ([]model.StudentResponse, error) {
	var responses []model.StudentResponse
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&responses).Error
	return responses, err
}
