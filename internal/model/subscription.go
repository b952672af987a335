package model

import "time"

// UserSubscription records which user has bought which course.
// swagger:model UserSubscription
type UserSubscription struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	CourseID     uint      `gorm:"index;type:bigint unsigned" json:"courseId"`
	Active       bool      `gorm:"default:true" json:"active"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}
