package repository

import (
	"access_edu_backend/internal/model"
	"context"
)

// QuizAttemptStore 测验作答记录（只追加）
type QuizAttemptStore interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	FindRecentByUserAndCourse(ctx context.Context, userID, courseID uint, limit int) ([]model.QuizAttempt, error)
	FindPrevious(ctx context.Context, userID, quizID, excludeAttemptID uint) (*model.QuizAttempt, error)
	NextAttemptNumber(ctx context.Context, userID, quizID uint) (int, error)
	DistinctPassedQuizIDs(ctx context.Context, userID uint, quizIDs []uint) ([]uint, error)
	ListByUserAndQuiz(ctx context.Context, userID, quizID uint) ([]model.QuizAttempt, error)
	DistinctUserIDsByCourse(ctx context.Context, courseID uint) ([]uint, error)
}

// LessonProgressStore 课时完成标记
type LessonProgressStore interface {
	Upsert(ctx context.Context, progress *model.LessonProgress) error
	CountCompleted(ctx context.Context, userID, courseID uint, lessonIDs []uint) (int, error)
	ListByUserAndCourse(ctx context.Context, userID, courseID uint) ([]model.LessonProgress, error)
	DistinctUserIDsByCourse(ctx context.Context, courseID uint) ([]uint, error)
}

// CatalogStore 课程目录（课程、课时、测验、题库）只读访问
type CatalogStore interface {
	FindCourse(ctx context.Context, courseID uint) (*model.Course, error)
	FindLessons(ctx context.Context, courseID uint) ([]model.Lesson, error)
	FindLesson(ctx context.Context, lessonID uint) (*model.Lesson, error)
	FindPublishedQuizzes(ctx context.Context, courseID uint) ([]model.Quiz, error)
	FindQuizWithQuestions(ctx context.Context, quizID uint) (*model.Quiz, error)
	FindQuestionsByIDs(ctx context.Context, ids []uint) ([]model.Question, error)
}

// CertificateStore 结业证书，(用户, 课程) 唯一
type CertificateStore interface {
	Upsert(ctx context.Context, cert *model.Certificate) error
	FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error)
	CountByUserAndCourse(ctx context.Context, userID, courseID uint) (int64, error)
}

var (
	_ QuizAttemptStore    = (*QuizAttemptRepository)(nil)
	_ LessonProgressStore = (*LessonProgressRepository)(nil)
	_ CatalogStore        = (*CatalogRepository)(nil)
	_ CertificateStore    = (*CertificateRepository)(nil)
)
