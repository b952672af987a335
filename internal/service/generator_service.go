package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/pkg/logger"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GeneratorService turns topic study notes into a ready-to-take quiz using
// the AI service.
type GeneratorService struct {
	AI         *AIService
	CourseRepo *repository.CourseRepository
	DB         *gorm.DB
}

func NewGeneratorService(ai *AIService, courseRepo *repository.CourseRepository, db *gorm.DB) *GeneratorService {
	return &GeneratorService{
		AI:         ai,
		CourseRepo: courseRepo,
		DB:         db,
	}
}

// GenerateExamFromTopic builds a topic quiz from the topic's study notes.
// The generated exam is owned by the topic's chapter; exam, questions and
// options are committed together.
func (s *GeneratorService) GenerateExamFromTopic(topicID uint, numQuestions int, difficulty string) (*model.Exam, error) {
	topic, err := s.CourseRepo.FindTopicByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("topic %d not found", topicID)
		}
		return nil, err
	}
	if topic.StudyNotes == "" {
		return nil, fmt.Errorf("topic %d has no study notes to generate from", topicID)
	}

	if numQuestions <= 0 {
		numQuestions = 5
	}
	if difficulty == "" {
		difficulty = "Medium"
	}

	generated, err := s.AI.GenerateQuestions(topic.StudyNotes, numQuestions, difficulty)
	if err != nil {
		// The exam is still created, carrying a single zero-mark placeholder
		// question, so the authoring flow survives a flaky model endpoint.
		logger.Log.Warn("question generation failed, using placeholder question",
			zap.Uint("topicId", topicID),
			zap.Error(err))
		generated = fallbackQuestions()
	} else {
		for i := range generated {
			if generated[i].Marks <= 0 {
				generated[i].Marks = 2
			}
		}
	}

	totalMarks := 0.0
	for _, q := range generated {
		totalMarks += q.Marks
	}

	exam := &model.Exam{
		Title:                topic.Title + " Quiz",
		ExamType:             model.ExamTypeTopicQuiz,
		OwnerType:            model.OwnerChapter,
		OwnerID:              topic.ChapterID,
		DurationMinutes:      numQuestions * 2,
		TotalMarks:           int(totalMarks),
		NegativeMarkingRatio: 0.25,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return err
		}

		for _, g := range generated {
			question := &model.Question{
				ExamID:      exam.ID,
				TextContent: g.QuestionText,
				Marks:       g.Marks,
			}
			if err := tx.Create(question).Error; err != nil {
				return err
			}

			options := make([]model.Option, 0, len(g.Options))
			for i, text := range g.Options {
				options = append(options, model.Option{
					QuestionID: question.ID,
					Text:       text,
					IsCorrect:  i == g.CorrectIndex,
				})
			}
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return exam, nil
}

// fallbackQuestions is what gets persisted when the model call or its output
// cannot be used. Zero marks keeps the placeholder out of scoring.
func fallbackQuestions() []GeneratedQuestion {
	return []GeneratedQuestion{{
		QuestionText: "Error generating questions. Please try again.",
		Options:      []string{"Error", "Error", "Error", "Error"},
		CorrectIndex: 0,
		Marks:        0,
	}}
}
