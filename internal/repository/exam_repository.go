package repository

import (
	"bitbybit_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.First(&exam, id).Error
	return &exam, err
}

// FindWithQuestions loads an exam together with its questions and options,
// the shape handed to clients when an attempt starts.
func (r *ExamRepository) FindWithQuestions(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.
		Preload("Questions").
		Preload("Questions.Options").
		First(&exam, id).Error
	return &exam, err
}

func (r *ExamRepository) FindByOwner(ownerType model.ExamOwnerType, ownerID uint) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Exam{}, id).Error
}

// QuestionsByExam returns the exam's questions keyed by ID for the grading
// fold.
func (r *ExamRepository) QuestionsByExam(examID uint) (map[uint]model.Question, error) {
	var questions []model.Question
	if err := r.DB.Where("exam_id = ?", examID).Find(&questions).Error; err != nil {
		return nil, err
	}
	qMap := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		qMap[q.ID] = q
	}
	return qMap, nil
}

func (r *ExamRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Options").First(&question, id).Error
	return &question, err
}

// FindOptionOfQuestion resolves an option only when it belongs to the given
// question; tampered (question, option) pairs come back as ErrRecordNotFound.
func (r *ExamRepository) FindOptionOfQuestion(optionID, questionID uint) (*model.Option, error) {
	var option model.Option
	err := r.DB.Where("id = ? AND question_id = ?", optionID, questionID).First(&option).Error
	return &option, err
}

func (r *ExamRepository) CorrectOption(questionID uint) (*model.Option, error) {
	var option model.Option
	err := r.DB.Where("question_id = ? AND is_correct = ?", questionID, true).First(&option).Error
	return &option, err
}

func (r *ExamRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *ExamRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}
