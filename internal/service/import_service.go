package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ImportService handles the admin CSV bulk uploads. Imports are best-effort:
// bad rows are collected into the report and good rows still land.
type ImportService struct {
	CourseRepo *repository.CourseRepository
	ExamRepo   *repository.ExamRepository
	DB         *gorm.DB
}

func NewImportService(courseRepo *repository.CourseRepository, examRepo *repository.ExamRepository, db *gorm.DB) *ImportService {
	return &ImportService{
		CourseRepo: courseRepo,
		ExamRepo:   examRepo,
		DB:         db,
	}
}

type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportNotes ingests rows of (course, subject, chapter, topic, order,
// study_notes), creating missing hierarchy nodes on the way down and
// updating the topic's notes.
func (s *ImportService) ImportNotes(r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), "course") {
		return nil, fmt.Errorf("unexpected CSV header %q, want course,subject,chapter,topic,order,study_notes", strings.Join(header, ","))
	}

	report := &ImportReport{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if err := s.importNotesRow(record); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		report.Imported++
	}

	return report, nil
}

func (s *ImportService) importNotesRow(record []string) error {
	courseTitle := strings.TrimSpace(record[0])
	subjectTitle := strings.TrimSpace(record[1])
	chapterTitle := strings.TrimSpace(record[2])
	topicTitle := strings.TrimSpace(record[3])
	if courseTitle == "" || subjectTitle == "" || chapterTitle == "" || topicTitle == "" {
		return fmt.Errorf("course, subject, chapter and topic are all required")
	}

	order, _ := strconv.Atoi(strings.TrimSpace(record[4]))
	if order <= 0 {
		order = 1
	}
	notes := record[5]

	course, err := s.CourseRepo.FirstCourseByTitle(courseTitle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		course = &model.Course{Title: courseTitle}
		err = s.CourseRepo.Create(course)
	}
	if err != nil {
		return err
	}

	subject, err := s.CourseRepo.FirstSubjectByTitle(course.ID, subjectTitle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		subject = &model.Subject{CourseID: course.ID, Title: subjectTitle, Order: order}
		err = s.CourseRepo.CreateSubject(subject)
	}
	if err != nil {
		return err
	}

	chapter, err := s.CourseRepo.FirstChapterByTitle(subject.ID, chapterTitle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		chapter = &model.Chapter{SubjectID: subject.ID, Title: chapterTitle, Order: order}
		err = s.CourseRepo.CreateChapter(chapter)
	}
	if err != nil {
		return err
	}

	topic, err := s.CourseRepo.FirstTopicByTitle(chapter.ID, topicTitle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		topic = &model.Topic{ChapterID: chapter.ID, Title: topicTitle, Order: order, StudyNotes: notes}
		return s.CourseRepo.CreateTopic(topic)
	}
	if err != nil {
		return err
	}

	topic.StudyNotes = notes
	topic.Order = order
	return s.CourseRepo.UpdateTopic(topic)
}

var questionHeader = []string{"exam_id", "text", "marks", "explanation", "option_a", "option_b", "option_c", "option_d", "correct"}

// ImportQuestions ingests MCQ rows. Each row becomes one question with four
// options; the `correct` column is the letter A-D.
func (s *ImportService) ImportQuestions(r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(questionHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), questionHeader[0]) {
		return nil, fmt.Errorf("unexpected CSV header %q, want %s", strings.Join(header, ","), strings.Join(questionHeader, ","))
	}

	report := &ImportReport{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if err := s.importQuestionRow(record); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		report.Imported++
	}

	return report, nil
}

func (s *ImportService) importQuestionRow(record []string) error {
	examID, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 32)
	if err != nil {
		return fmt.Errorf("bad exam_id %q", record[0])
	}
	if _, err := s.ExamRepo.FindByID(uint(examID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("exam %d does not exist", examID)
		}
		return err
	}

	text := strings.TrimSpace(record[1])
	if text == "" {
		return fmt.Errorf("question text is required")
	}

	marks, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil || marks <= 0 {
		marks = 1
	}

	correct := strings.ToUpper(strings.TrimSpace(record[8]))
	if len(correct) != 1 || correct[0] < 'A' || correct[0] > 'D' {
		return fmt.Errorf("correct column must be A, B, C or D, got %q", record[8])
	}
	correctIndex := int(correct[0] - 'A')

	question := &model.Question{
		ExamID:      uint(examID),
		TextContent: text,
		Marks:       marks,
		Explanation: record[3],
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		options := make([]model.Option, 0, 4)
		for i := 0; i < 4; i++ {
			optText := strings.TrimSpace(record[4+i])
			if optText == "" {
				return fmt.Errorf("option %c is empty", 'A'+i)
			}
			options = append(options, model.Option{
				QuestionID: question.ID,
				Text:       optText,
				IsCorrect:  i == correctIndex,
			})
		}
		return tx.Create(&options).Error
	})
}
