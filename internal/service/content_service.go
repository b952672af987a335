package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentService serves the course hierarchy and the authoring operations on
// exams and questions.
type ContentService struct {
	CourseRepo *repository.CourseRepository
	ExamRepo   *repository.ExamRepository
	BannerRepo *repository.BannerRepository
	Storage    *StorageService
	DB         *gorm.DB
}

func NewContentService(courseRepo *repository.CourseRepository, examRepo *repository.ExamRepository, bannerRepo *repository.BannerRepository, storage *StorageService, db *gorm.DB) *ContentService {
	return &ContentService{
		CourseRepo: courseRepo,
		ExamRepo:   examRepo,
		BannerRepo: bannerRepo,
		Storage:    storage,
		DB:         db,
	}
}

func (s *ContentService) ListCourses() ([]model.Course, error) {
	return s.CourseRepo.FindAll()
}

func (s *ContentService) GetCourseTree(id uint) (*model.Course, error) {
	return s.CourseRepo.FindTree(id)
}

func (s *ContentService) GetTopic(id uint) (*model.Topic, error) {
	return s.CourseRepo.FindTopicByID(id)
}

// CreateCourse and the three methods below are the admin authoring path for
// the content hierarchy. Parent existence is checked so a typo'd parent id
// surfaces as a client error instead of an orphaned row.
func (s *ContentService) CreateCourse(course *model.Course) error {
	return s.CourseRepo.Create(course)
}

func (s *ContentService) CreateSubject(subject *model.Subject) error {
	if _, err := s.CourseRepo.FindByID(subject.CourseID); err != nil {
		return err
	}
	return s.CourseRepo.CreateSubject(subject)
}

func (s *ContentService) CreateChapter(chapter *model.Chapter) error {
	if _, err := s.CourseRepo.FindSubjectByID(chapter.SubjectID); err != nil {
		return err
	}
	return s.CourseRepo.CreateChapter(chapter)
}

func (s *ContentService) CreateTopic(topic *model.Topic) error {
	if _, err := s.CourseRepo.FindChapterByID(topic.ChapterID); err != nil {
		return err
	}
	return s.CourseRepo.CreateTopic(topic)
}

func (s *ContentService) UpdateTopicNotes(id uint, notes string) (*model.Topic, error) {
	topic, err := s.CourseRepo.FindTopicByID(id)
	if err != nil {
		return nil, err
	}
	topic.StudyNotes = notes
	if err := s.CourseRepo.UpdateTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *ContentService) DeleteCourse(id uint) error {
	return s.CourseRepo.Delete(id)
}

func (s *ContentService) GetExamWithQuestions(id uint) (*model.Exam, error) {
	return s.ExamRepo.FindWithQuestions(id)
}

func (s *ContentService) ListExamsByOwner(ownerType model.ExamOwnerType, ownerID uint) ([]model.Exam, error) {
	return s.ExamRepo.FindByOwner(ownerType, ownerID)
}

type ExamCreateRequest struct {
	Title                string  `json:"title" binding:"required"`
	ExamType             string  `json:"examType" binding:"required,oneof=topic_quiz chapter_quiz subject_test mock_full pyq"`
	OwnerType            string  `json:"ownerType" binding:"required,oneof=chapter subject course"`
	OwnerID              uint    `json:"ownerId" binding:"required"`
	DurationMinutes      int     `json:"durationMinutes"`
	TotalMarks           int     `json:"totalMarks"`
	NegativeMarkingRatio float64 `json:"negativeMarkingRatio"`
}

func (s *ContentService) CreateExam(req ExamCreateRequest) (*model.Exam, error) {
	if err := s.ownerExists(model.ExamOwnerType(req.OwnerType), req.OwnerID); err != nil {
		return nil, err
	}

	exam := &model.Exam{
		Title:                req.Title,
		ExamType:             model.ExamType(req.ExamType),
		OwnerType:            model.ExamOwnerType(req.OwnerType),
		OwnerID:              req.OwnerID,
		DurationMinutes:      req.DurationMinutes,
		TotalMarks:           req.TotalMarks,
		NegativeMarkingRatio: req.NegativeMarkingRatio,
	}
	if exam.DurationMinutes <= 0 {
		exam.DurationMinutes = 30
	}
	if err := s.ExamRepo.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ContentService) ownerExists(ownerType model.ExamOwnerType, ownerID uint) error {
	var err error
	switch ownerType {
	case model.OwnerChapter:
		_, err = s.CourseRepo.FindChapterByID(ownerID)
	case model.OwnerSubject:
		_, err = s.CourseRepo.FindSubjectByID(ownerID)
	case model.OwnerCourse:
		_, err = s.CourseRepo.FindByID(ownerID)
	default:
		return fmt.Errorf("unknown owner type %q", ownerType)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("exam owner %s/%d does not exist", ownerType, ownerID)
	}
	return err
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionCreateRequest struct {
	TextContent string        `json:"textContent" binding:"required"`
	Marks       float64       `json:"marks"`
	Explanation string        `json:"explanation"`
	Options     []OptionInput `json:"options" binding:"required,min=2"`
}

// AddQuestion creates a question with its options in one transaction and
// holds the one-correct-option invariant the schema cannot express.
func (s *ContentService) AddQuestion(examID uint, req QuestionCreateRequest) (*model.Question, error) {
	if _, err := s.ExamRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	correct := 0
	for _, opt := range req.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return nil, fmt.Errorf("a question must have exactly one correct option, got %d", correct)
	}

	marks := req.Marks
	if marks <= 0 {
		marks = 1
	}

	question := &model.Question{
		ExamID:      examID,
		TextContent: req.TextContent,
		Marks:       marks,
		Explanation: req.Explanation,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		options := make([]model.Option, 0, len(req.Options))
		for _, opt := range req.Options {
			options = append(options, model.Option{
				QuestionID: question.ID,
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
			})
		}
		return tx.Create(&options).Error
	})
	if err != nil {
		return nil, err
	}

	question.Options = nil
	return question, nil
}

func (s *ContentService) DeleteQuestion(id uint) error {
	return s.ExamRepo.DeleteQuestion(id)
}

func (s *ContentService) ListBanners() ([]model.AdBanner, error) {
	return s.BannerRepo.FindActive()
}

// CreateBanner stores the image through the configured storage provider and
// records the banner row. The stored object gets a random name so uploads
// with the same filename never clobber each other; only the extension of the
// client filename survives.
func (s *ContentService) CreateBanner(ctx context.Context, title, targetURL string, order int, filename string, image io.Reader, size int64, contentType string) (*model.AdBanner, error) {
	objectName := "banners/" + uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	imageURL, err := s.Storage.Upload(ctx, objectName, image, size, contentType)
	if err != nil {
		return nil, err
	}

	banner := &model.AdBanner{
		Title:     title,
		ImageURL:  imageURL,
		TargetURL: targetURL,
		Active:    true,
		Order:     order,
	}
	if err := s.BannerRepo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *ContentService) DeleteBanner(id uint) error {
	return s.BannerRepo.Delete(id)
}
