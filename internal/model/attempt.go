package model

import "time"

// ExamAttempt is one timed instance of a user taking an exam. A user may hold
// any number of attempts per exam; an attempt is mutated exactly once, at
// submission, and is terminal once IsCompleted is set.
// swagger:model ExamAttempt
type ExamAttempt struct {
	BaseModel
	UserID      uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	ExamID      uint       `gorm:"index;type:bigint unsigned" json:"examId"`
	StartTime   time.Time  `json:"startTime"`
	SubmitTime  *time.Time `json:"submitTime,omitempty"`
	TotalScore  float64    `gorm:"default:0" json:"totalScore"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

const (
	ResponseAnswered = "answered"
	ResponseReview   = "review"
	ResponseVisited  = "visited"
)

// swagger:model StudentResponse
type StudentResponse struct {
	BaseModel
	AttemptID        uint  `gorm:"uniqueIndex:idx_responses_attempt_question;type:bigint unsigned" json:"attemptId"`
	QuestionID       uint  `gorm:"uniqueIndex:idx_responses_attempt_question;type:bigint unsigned" json:"questionId"`
	SelectedOptionID *uint `gorm:"type:bigint unsigned" json:"selectedOptionId,omitempty"` // nil when unanswered
	Status           string `gorm:"size:20;default:'answered'" json:"status"`
}

func (StudentResponse) TableName() string {
	return "student_responses"
}
