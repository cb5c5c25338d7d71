package repository

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

// CatalogRepository 课程目录的只读访问。结业校验每次都从这里重新读取，不做缓存
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) FindCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindLessons 返回课程下的全部课时，不按发布状态过滤
func (r *CatalogRepository) FindLessons(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("`order` ASC").
		Order("id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *CatalogRepository) FindLesson(ctx context.Context, lessonID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).First(&lesson, lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CatalogRepository) FindPublishedQuizzes(ctx context.Context, courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *CatalogRepository) FindQuizWithQuestions(ctx context.Context, quizID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC").Order("id ASC")
		}).
		First(&quiz, quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindQuestionsByIDs 批量读取题库中的题目，已删除的题目不会出现在结果中
func (r *CatalogRepository) FindQuestionsByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}

	var questions []model.Question
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}
