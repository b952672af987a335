package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/internal/util"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(repository.NewAttemptRepository(db), repository.NewExamRepository(db), db)
}

func startAttempt(t *testing.T, svc *AttemptService, userID, examID uint) *AttemptDescriptor {
	t.Helper()
	attempt, err := svc.StartAttempt(userID, examID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	return attempt
}

func TestStartAttemptUnknownExam(t *testing.T) {
	svc := newAttemptService(newTestDB(t))

	if _, err := svc.StartAttempt(1, 999); !errors.Is(err, util.ErrExamNotFound) {
		t.Fatalf("got %v, want ErrExamNotFound", err)
	}
}

func TestSubmitExamScoring(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)
	questions := examQuestions(t, db, exam.ID)

	attempt := startAttempt(t, svc, 1, exam.ID)

	// One right (+2), one wrong (-2*0.25).
	answers := map[uint]uint{
		questions[0].ID: correctOption(t, questions[0]).ID,
		questions[1].ID: wrongOption(t, questions[1]).ID,
	}

	result, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 1.5 {
		t.Errorf("score = %v, want 1.5", result.Score)
	}
	if result.TotalMarks != 4 {
		t.Errorf("totalMarks = %d, want 4", result.TotalMarks)
	}
	if result.Status != "Completed" {
		t.Errorf("status = %q, want Completed", result.Status)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}

	var stored model.ExamAttempt
	if err := db.First(&stored, attempt.AttemptID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if !stored.IsCompleted || stored.SubmitTime == nil {
		t.Errorf("attempt not finalized: completed=%v submitTime=%v", stored.IsCompleted, stored.SubmitTime)
	}
	if stored.TotalScore != 1.5 {
		t.Errorf("stored score = %v, want 1.5", stored.TotalScore)
	}

	var responses []model.StudentResponse
	if err := db.Where("attempt_id = ?", attempt.AttemptID).Find(&responses).Error; err != nil {
		t.Fatalf("load responses: %v", err)
	}
	if len(responses) != 2 {
		t.Errorf("stored %d responses, want 2", len(responses))
	}
}

func TestSubmitExamScoreFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)
	questions := examQuestions(t, db, exam.ID)

	attempt := startAttempt(t, svc, 1, exam.ID)

	answers := map[uint]uint{
		questions[0].ID: wrongOption(t, questions[0]).ID,
		questions[1].ID: wrongOption(t, questions[1]).ID,
	}

	result, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("score = %v, want 0 (floored)", result.Score)
	}
}

func TestSubmitExamEmptyAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)

	attempt := startAttempt(t, svc, 1, exam.ID)

	result, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, map[uint]uint{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("score = %v, want 0", result.Score)
	}

	var stored model.ExamAttempt
	if err := db.First(&stored, attempt.AttemptID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if !stored.IsCompleted {
		t.Error("attempt with no answers should still finalize")
	}
}

func TestSubmitExamRejectsSecondSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)
	questions := examQuestions(t, db, exam.ID)

	attempt := startAttempt(t, svc, 1, exam.ID)
	answers := map[uint]uint{questions[0].ID: correctOption(t, questions[0]).ID}

	if _, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, answers); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, answers); !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("second submit: got %v, want ErrAlreadySubmitted", err)
	}

	// Score from the first submission must survive the rejected retry.
	var stored model.ExamAttempt
	if err := db.First(&stored, attempt.AttemptID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if stored.TotalScore != 2 {
		t.Errorf("stored score = %v, want 2", stored.TotalScore)
	}
}

func TestSubmitExamForeignAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)

	attempt := startAttempt(t, svc, 1, exam.ID)

	// Different user, and a different exam id, both map to the same error.
	if _, err := svc.SubmitExam(2, exam.ID, attempt.AttemptID, nil); !errors.Is(err, util.ErrInvalidAttempt) {
		t.Errorf("foreign user: got %v, want ErrInvalidAttempt", err)
	}
	if _, err := svc.SubmitExam(1, exam.ID, 999, nil); !errors.Is(err, util.ErrInvalidAttempt) {
		t.Errorf("unknown attempt: got %v, want ErrInvalidAttempt", err)
	}
}

func TestSubmitExamSkipsTamperedPairs(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)
	questions := examQuestions(t, db, exam.ID)

	attempt := startAttempt(t, svc, 1, exam.ID)

	// A question from outside the exam and an option from the wrong question.
	answers := map[uint]uint{
		9999:            correctOption(t, questions[0]).ID,
		questions[0].ID: correctOption(t, questions[1]).ID,
		questions[1].ID: correctOption(t, questions[1]).ID,
	}

	result, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 2 {
		t.Errorf("score = %v, want 2 (only the valid pair counts)", result.Score)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2 entries", result.Warnings)
	}

	var count int64
	db.Model(&model.StudentResponse{}).Where("attempt_id = ?", attempt.AttemptID).Count(&count)
	if count != 1 {
		t.Errorf("stored %d responses, want 1", count)
	}
}

func TestCheckAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)
	questions := examQuestions(t, db, exam.ID)

	q := questions[0]
	right := correctOption(t, q)
	wrong := wrongOption(t, q)

	feedback, err := svc.CheckAnswer(q.ID, right.ID)
	if err != nil {
		t.Fatalf("check correct: %v", err)
	}
	if !feedback.IsCorrect {
		t.Error("correct option reported as wrong")
	}
	if feedback.CorrectOptionID != right.ID {
		t.Errorf("correctOptionId = %d, want %d", feedback.CorrectOptionID, right.ID)
	}
	if feedback.Explanation == "" {
		t.Error("explanation missing")
	}

	feedback, err = svc.CheckAnswer(q.ID, wrong.ID)
	if err != nil {
		t.Fatalf("check wrong: %v", err)
	}
	if feedback.IsCorrect {
		t.Error("wrong option reported as correct")
	}
	if feedback.CorrectOptionID != right.ID {
		t.Errorf("correctOptionId = %d, want %d", feedback.CorrectOptionID, right.ID)
	}

	if _, err := svc.CheckAnswer(999, right.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("unknown question: got %v, want ErrQuestionNotFound", err)
	}

	// An option that exists but belongs to another question is rejected.
	other := correctOption(t, questions[1])
	if _, err := svc.CheckAnswer(q.ID, other.ID); !errors.Is(err, util.ErrOptionNotFound) {
		t.Errorf("foreign option: got %v, want ErrOptionNotFound", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)

	first := startAttempt(t, svc, 1, exam.ID)
	second := startAttempt(t, svc, 1, exam.ID)
	startAttempt(t, svc, 2, exam.ID)

	// Push the second attempt's start time forward so ordering is decided by
	// the column, not insertion order.
	db.Model(&model.ExamAttempt{}).Where("id = ?", second.AttemptID).
		Update("start_time", time.Now().Add(time.Hour))

	history, err := svc.History(1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d rows, want 2", len(history))
	}
	if history[0].ID != second.AttemptID || history[1].ID != first.AttemptID {
		t.Errorf("history order = [%d %d], want [%d %d]",
			history[0].ID, history[1].ID, second.AttemptID, first.AttemptID)
	}
}

func TestAttemptDetail(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	exam := seedExam(t, db)
	questions := examQuestions(t, db, exam.ID)

	attempt := startAttempt(t, svc, 1, exam.ID)
	answers := map[uint]uint{
		questions[0].ID: correctOption(t, questions[0]).ID,
		questions[1].ID: wrongOption(t, questions[1]).ID,
	}
	if _, err := svc.SubmitExam(1, exam.ID, attempt.AttemptID, answers); err != nil {
		t.Fatalf("submit: %v", err)
	}

	detail, err := svc.Detail(1, attempt.AttemptID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Attempt.ID != attempt.AttemptID {
		t.Errorf("attempt id = %d, want %d", detail.Attempt.ID, attempt.AttemptID)
	}
	if len(detail.Responses) != 2 {
		t.Errorf("got %d responses, want 2", len(detail.Responses))
	}

	// Another user's attempt reads as missing, as does an unknown id.
	if _, err := svc.Detail(2, attempt.AttemptID); !errors.Is(err, util.ErrInvalidAttempt) {
		t.Errorf("foreign attempt: got %v, want ErrInvalidAttempt", err)
	}
	if _, err := svc.Detail(1, 999); !errors.Is(err, util.ErrInvalidAttempt) {
		t.Errorf("unknown attempt: got %v, want ErrInvalidAttempt", err)
	}
}
