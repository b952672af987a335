package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	// Phone uniqueness is enforced at registration time; the column itself is
	// not unique so accounts without a phone can coexist.
	Phone    string   `gorm:"size:20;index" json:"phone"`
	Password string   `gorm:"size:100" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`

	// TokenVersion is bumped on every confirmed login. Tokens carry the value
	// they were minted with; only the latest one passes the auth middleware.
	TokenVersion int `gorm:"default:0" json:"-"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}
