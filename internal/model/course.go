package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	IsPaid      bool    `gorm:"default:false" json:"isPaid"` // paid courses require an active subscription
	Price       float64 `gorm:"type:decimal(10,2);default:0" json:"price"`

	Subjects []Subject `gorm:"foreignKey:CourseID" json:"subjects,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Subject
type Subject struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"column:sort_order;default:1" json:"order"`

	Chapters []Chapter `gorm:"foreignKey:SubjectID" json:"chapters,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Chapter
type Chapter struct {
	BaseModel
	SubjectID uint   `gorm:"index;type:bigint unsigned" json:"subjectId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Order     int    `gorm:"column:sort_order;default:1" json:"order"`

	Topics []Topic `gorm:"foreignKey:ChapterID" json:"topics,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// swagger:model Topic
type Topic struct {
	BaseModel
	ChapterID uint   `gorm:"index;type:bigint unsigned" json:"chapterId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Order     int    `gorm:"column:sort_order;default:1" json:"order"`

	// StudyNotes holds markdown/HTML content for self-paced study.
	StudyNotes string `gorm:"type:text" json:"studyNotes,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}
