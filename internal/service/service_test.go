package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/pkg/database"
	"bitbybit_backend/pkg/logger"
	"fmt"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

var testDBSeq int64

// newTestDB opens a private in-memory database with the full schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedExam creates a two-question exam worth 4 marks with 0.25 negative
// marking. Each question has four options; the first option is correct.
func seedExam(t *testing.T, db *gorm.DB) *model.Exam {
	t.Helper()

	exam := &model.Exam{
		Title:                "Thermodynamics Quiz",
		ExamType:             model.ExamTypeChapterQuiz,
		OwnerType:            model.OwnerChapter,
		OwnerID:              1,
		DurationMinutes:      20,
		TotalMarks:           4,
		NegativeMarkingRatio: 0.25,
	}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("seed exam: %v", err)
	}

	for i := 0; i < 2; i++ {
		q := &model.Question{
			ExamID:      exam.ID,
			TextContent: fmt.Sprintf("Question %d", i+1),
			Marks:       2,
			Explanation: "see chapter notes",
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		for j := 0; j < 4; j++ {
			opt := &model.Option{
				QuestionID: q.ID,
				Text:       fmt.Sprintf("Option %d", j+1),
				IsCorrect:  j == 0,
			}
			if err := db.Create(opt).Error; err != nil {
				t.Fatalf("seed option: %v", err)
			}
		}
	}
	return exam
}

// examQuestions reloads the seeded exam with questions and options, ordered
// by ID.
func examQuestions(t *testing.T, db *gorm.DB, examID uint) []model.Question {
	t.Helper()

	var questions []model.Question
	if err := db.Preload("Options").Where("exam_id = ?", examID).Order("id").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	return questions
}

func correctOption(t *testing.T, q model.Question) model.Option {
	t.Helper()
	for _, o := range q.Options {
		if o.IsCorrect {
			return o
		}
	}
	t.Fatalf("question %d has no correct option", q.ID)
	return model.Option{}
}

func wrongOption(t *testing.T, q model.Question) model.Option {
	t.Helper()
	for _, o := range q.Options {
		if !o.IsCorrect {
			return o
		}
	}
	t.Fatalf("question %d has no wrong option", q.ID)
	return model.Option{}
}
