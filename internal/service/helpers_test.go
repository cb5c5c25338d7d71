package service_test

import (
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// engine wires every service against an in-memory database.
type engine struct {
	db           *gorm.DB
	attempts     *repository.QuizAttemptRepository
	progress     *repository.LessonProgressRepository
	catalog      *repository.CatalogRepository
	certificates *repository.CertificateRepository
	storageDir   string

	analytics      *service.QuizAnalyticsService
	quiz           *service.QuizService
	learning       *service.LearningService
	certificateSvc *service.CertificateService
}

func newEngine(t *testing.T, opts service.AnalyticsOptions) *engine {
	t.Helper()
	db := testutil.NewTestDB(t)
	e := &engine{
		db:           db,
		attempts:     repository.NewQuizAttemptRepository(db),
		progress:     repository.NewLessonProgressRepository(db),
		catalog:      repository.NewCatalogRepository(db),
		certificates: repository.NewCertificateRepository(db),
		storageDir:   t.TempDir(),
	}

	storage := service.NewStorageService(&config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: e.storageDir},
	})
	e.analytics = service.NewQuizAnalyticsService(e.attempts, e.progress, e.catalog, e.certificates, storage, nil, opts)
	e.quiz = service.NewQuizService(e.attempts, e.catalog, e.analytics)
	e.learning = service.NewLearningService(e.progress, e.catalog, e.certificates, e.analytics)
	e.certificateSvc = service.NewCertificateService(e.certificates, e.attempts, e.progress, e.catalog, e.analytics)
	return e
}

// recordAttempt stores an attempt directly; answers maps question ID to the selected option.
func (e *engine) recordAttempt(t *testing.T, userID uint, quiz model.Quiz, number int, at time.Time, score float64, answers map[uint]string) model.QuizAttempt {
	t.Helper()
	attempt := model.QuizAttempt{
		UserID:        userID,
		CourseID:      quiz.CourseID,
		QuizID:        quiz.ID,
		AttemptNumber: number,
		AttemptedAt:   at,
		Score:         score,
		Passed:        score >= quiz.PassingScore,
	}
	for questionID, option := range answers {
		attempt.Answers = append(attempt.Answers, model.AnswerRecord{QuestionID: questionID, SelectedOption: option})
	}
	require.NoError(t, e.attempts.Create(context.Background(), &attempt))
	return attempt
}

func (e *engine) completeLesson(t *testing.T, userID uint, lesson model.Lesson) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.progress.Upsert(context.Background(), &model.LessonProgress{
		UserID:      userID,
		CourseID:    lesson.CourseID,
		LessonID:    lesson.ID,
		Completed:   true,
		CompletedAt: &now,
	}))
}

func (e *engine) certificateCount(t *testing.T, userID, courseID uint) int64 {
	t.Helper()
	count, err := e.certificates.CountByUserAndCourse(context.Background(), userID, courseID)
	require.NoError(t, err)
	return count
}
