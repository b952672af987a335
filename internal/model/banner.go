package model

// AdBanner is a promo slot shown on the app home screen.
// swagger:model AdBanner
type AdBanner struct {
	BaseModel
	Title     string `gorm:"size:255;not null" json:"title"`
	ImageURL  string `gorm:"size:512" json:"imageUrl"`
	TargetURL string `gorm:"size:512" json:"targetUrl"`
	Active    bool   `gorm:"default:true" json:"active"`
	Order     int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (AdBanner) TableName() string {
	return "ad_banners"
}
