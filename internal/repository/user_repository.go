package repository

import (
	"bitbybit_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("phone = ?", phone).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// TokenVersion reads the current counter without loading the full row.
func (r *UserRepository) TokenVersion(userID uint) (int, error) {
	var version int
	err := r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Select("token_version").
		Scan(&version).Error
	return version, err
}

// BumpTokenVersion increments the per-user session counter and returns the
// new value. The row is locked for the duration of the transaction so two
// concurrent logins cannot mint tokens with the same version.
func (r *UserRepository) BumpTokenVersion(userID uint) (int, error) {
	var version int
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).
			Updates(map[string]interface{}{
				"token_version": gorm.Expr("token_version + 1"),
				"last_login":    time.Now(),
			}).Error; err != nil {
			return err
		}
		version = user.TokenVersion + 1
		return nil
	})
	return version, err
}
