package database

import (
	"bitbybit_backend/internal/config"
	"bitbybit_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Subject{},
		&model.Chapter{},
		&model.Topic{},
		&model.Exam{},
		&model.Question{},
		&model.Option{},
		&model.ExamAttempt{},
		&model.StudentResponse{},
		&model.UserSubscription{},
		&model.AdBanner{},
	)
}

// seedDefaults inserts a welcome banner on an empty install so the app home
// screen is never blank.
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.AdBanner{}).Count(&count)
	if count == 0 {
		defaultBanners := []model.AdBanner{
			{Title: "Welcome to Bit By Bit", ImageURL: "/static/banners/welcome.png", Active: true, Order: 0},
			{Title: "Daily PYQ Practice", ImageURL: "/static/banners/pyq.png", TargetURL: "/exams?type=pyq", Active: true, Order: 1},
		}
		for _, b := range defaultBanners {
			db.Create(&b)
		}
	}
}
