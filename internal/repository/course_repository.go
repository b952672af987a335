package repository

import (
	"bitbybit_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Find(&courses).Error
	return courses, err
}

// FindTree loads a course with its full subject/chapter/topic tree, each
// level in display order.
func (r *CourseRepository) FindTree(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Subjects", orderBySort).
		Preload("Subjects.Chapters", orderBySort).
		Preload("Subjects.Chapters.Topics", orderBySort).
		First(&course, id).Error
	return &course, err
}

func orderBySort(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) FindSubjectByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, id).Error
	return &subject, err
}

func (r *CourseRepository) FindChapterByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, id).Error
	return &chapter, err
}

func (r *CourseRepository) FindTopicByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, id).Error
	return &topic, err
}

func (r *CourseRepository) CreateSubject(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *CourseRepository) CreateChapter(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *CourseRepository) CreateTopic(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *CourseRepository) UpdateTopic(topic *model.Topic) error {
	return r.DB.Save(topic).Error
}

// FirstSubjectByTitle is used by the CSV importer to upsert hierarchy rows.
func (r *CourseRepository) FirstSubjectByTitle(courseID uint, title string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("course_id = ? AND title = ?", courseID, title).First(&subject).Error
	return &subject, err
}

func (r *CourseRepository) FirstChapterByTitle(subjectID uint, title string) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.Where("subject_id = ? AND title = ?", subjectID, title).First(&chapter).Error
	return &chapter, err
}

func (r *CourseRepository) FirstTopicByTitle(chapterID uint, title string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Where("chapter_id = ? AND title = ?", chapterID, title).First(&topic).Error
	return &topic, err
}

func (r *CourseRepository) FirstCourseByTitle(title string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("title = ?", title).First(&course).Error
	return &course, err
}
