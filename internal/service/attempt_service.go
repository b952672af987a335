package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/internal/util"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	DB          *gorm.DB
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository, db *gorm.DB) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		DB:          db,
	}
}

type AttemptDescriptor struct {
	AttemptID       uint      `json:"attemptId"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"duration"`
}

type SubmitResult struct {
	Score      float64  `json:"score"`
	TotalMarks int      `json:"totalMarks"`
	Status     string   `json:"status"`
	Warnings   []string `json:"warnings,omitempty"`
}

type AnswerFeedback struct {
	IsCorrect       bool   `json:"isCorrect"`
	CorrectOptionID uint   `json:"correctOptionId"`
	Explanation     string `json:"explanation"`
}

// StartAttempt opens a fresh timed attempt. Earlier in-flight attempts are
// left alone; a user can hold any number of them.
func (s *AttemptService) StartAttempt(userID, examID uint) (*AttemptDescriptor, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	attempt := &model.ExamAttempt{
		UserID:    userID,
		ExamID:    examID,
		StartTime: time.Now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	return &AttemptDescriptor{
		AttemptID:       attempt.ID,
		StartTime:       attempt.StartTime,
		DurationMinutes: exam.DurationMinutes,
	}, nil
}

// SubmitExam grades one attempt and finalizes it. Pairs referencing a
// question outside the exam, or an option outside its question, do not fail
// the submission: they are dropped from scoring and reported back in the
// warnings list. Response rows and the attempt update commit together or not
// at all.
func (s *AttemptService) SubmitExam(userID, examID, attemptID uint, answers map[uint]uint) (*SubmitResult, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	qMap, err := s.ExamRepo.QuestionsByExam(examID)
	if err != nil {
		return nil, err
	}

	var result *SubmitResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the attempt row so two concurrent submissions cannot both pass
		// the completion check.
		var attempt model.ExamAttempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND exam_id = ?", attemptID, userID, examID).
			First(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrInvalidAttempt
			}
			return err
		}
		if attempt.IsCompleted {
			return util.ErrAlreadySubmitted
		}

		score := 0.0
		var warnings []string
		var responses []model.StudentResponse

		for questionID, optionID := range answers {
			question, ok := qMap[questionID]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("question %d is not part of this exam", questionID))
				continue
			}

			var option model.Option
			if err := tx.Where("id = ? AND question_id = ?", optionID, questionID).
				First(&option).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					warnings = append(warnings, fmt.Sprintf("option %d does not belong to question %d", optionID, questionID))
					continue
				}
				return err
			}

			selected := option.ID
			responses = append(responses, model.StudentResponse{
				AttemptID:        attempt.ID,
				QuestionID:       questionID,
				SelectedOptionID: &selected,
				Status:           model.ResponseAnswered,
			})

			if option.IsCorrect {
				score += question.Marks
			} else {
				score -= question.Marks * exam.NegativeMarkingRatio
			}
		}

		// Aggregate floor: a submission never stores a negative total.
		if score < 0 {
			score = 0
		}

		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		attempt.TotalScore = score
		attempt.SubmitTime = &now
		attempt.IsCompleted = true
		if err := tx.Save(&attempt).Error; err != nil {
			return err
		}

		result = &SubmitResult{
			Score:      score,
			TotalMarks: exam.TotalMarks,
			Status:     "Completed",
			Warnings:   warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAnswer gives immediate practice-mode feedback. It never touches
// attempt state.
func (s *AttemptService) CheckAnswer(questionID, optionID uint) (*AnswerFeedback, error) {
	question, err := s.ExamRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	selected, err := s.ExamRepo.FindOptionOfQuestion(optionID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrOptionNotFound
		}
		return nil, err
	}

	correct, err := s.ExamRepo.CorrectOption(questionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	feedback := &AnswerFeedback{
		IsCorrect:   selected.IsCorrect,
		Explanation: question.Explanation,
	}
	if correct != nil && correct.ID != 0 {
		feedback.CorrectOptionID = correct.ID
	}
	return feedback, nil
}

func (s *AttemptService) History(userID uint) ([]model.ExamAttempt, error) {
	return s.AttemptRepo.HistoryByUser(userID)
}

type AttemptDetail struct {
	Attempt   model.ExamAttempt       `json:"attempt"`
	Responses []model.StudentResponse `json:"responses"`
}

// Detail returns one finished or in-flight attempt with its stored
// per-question responses. Attempts owned by other users look like they do
// not exist.
func (s *AttemptService) Detail(userID, attemptID uint) (*AttemptDetail, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidAttempt
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrInvalidAttempt
	}

	responses, err := s.AttemptRepo.ResponsesByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}

	return &AttemptDetail{Attempt: *attempt, Responses: responses}, nil
}
