package model

type ExamType string

const (
	ExamTypeTopicQuiz   ExamType = "topic_quiz"
	ExamTypeChapterQuiz ExamType = "chapter_quiz"
	ExamTypeSubjectTest ExamType = "subject_test"
	ExamTypeMockFull    ExamType = "mock_full"
	ExamTypePYQ         ExamType = "pyq"
)

type ExamOwnerType string

const (
	OwnerChapter ExamOwnerType = "chapter"
	OwnerSubject ExamOwnerType = "subject"
	OwnerCourse  ExamOwnerType = "course"
)

// swagger:model Exam
type Exam struct {
	BaseModel
	Title    string   `gorm:"size:255;not null" json:"title"`
	ExamType ExamType `gorm:"size:30;default:'chapter_quiz'" json:"examType"`

	// Exactly one content node owns an exam. OwnerType tags which level of the
	// hierarchy OwnerID points into.
	OwnerType ExamOwnerType `gorm:"size:20;index:idx_exams_owner" json:"ownerType"`
	OwnerID   uint          `gorm:"index:idx_exams_owner;type:bigint unsigned" json:"ownerId"`

	DurationMinutes      int     `gorm:"default:30" json:"durationMinutes"`
	TotalMarks           int     `gorm:"default:100" json:"totalMarks"`
	NegativeMarkingRatio float64 `gorm:"default:0.25" json:"negativeMarkingRatio"` // fraction of marks deducted per wrong answer

	Questions []Question `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// swagger:model Question
type Question struct {
	BaseModel
	ExamID      uint    `gorm:"index;type:bigint unsigned" json:"examId"`
	TextContent string  `gorm:"type:text;not null" json:"textContent"`
	Marks       float64 `json:"marks"`
	Explanation string  `gorm:"type:text" json:"explanation"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Option of a multiple-choice question. Exactly one option per question
// carries IsCorrect; the authoring services keep that invariant, the schema
// does not.
// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text       string `gorm:"size:255;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (Option) TableName() string {
	return "options"
}
