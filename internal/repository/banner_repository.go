package repository

import (
	"bitbybit_backend/internal/model"

	"gorm.io/gorm"
)

type BannerRepository struct {
	DB *gorm.DB
}

func NewBannerRepository(db *gorm.DB) *BannerRepository {
	return &BannerRepository{DB: db}
}

func (r *BannerRepository) FindActive() ([]model.AdBanner, error) {
	var banners []model.AdBanner
	err := r.DB.Where("active = ?", true).Order("sort_order ASC").Find(&banners).Error
	return banners, err
}

func (r *BannerRepository) Create(banner *model.AdBanner) error {
	return r.DB.Create(banner).Error
}

func (r *BannerRepository) Delete(id uint) error {
	return r.DB.Delete(&model.AdBanner{}, id).Error
}
