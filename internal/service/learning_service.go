package service

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/repository"
	"context"
	"fmt"
	"math"
	"time"
)

type LessonCompletionResult struct {
	Progress    *model.LessonProgress   `json:"progress"`
	Certificate model.CertificateResult `json:"certificate"`
}

type LearningService struct {
	ProgressRepo    repository.LessonProgressStore
	CatalogRepo     repository.CatalogStore
	CertificateRepo repository.CertificateStore
	Analytics       *QuizAnalyticsService
	Now             func() time.Time
}

func NewLearningService(
	progressRepo repository.LessonProgressStore,
	catalogRepo repository.CatalogStore,
	certificateRepo repository.CertificateStore,
	analytics *QuizAnalyticsService,
) *LearningService {
	return &LearningService{
		ProgressRepo:    progressRepo,
		CatalogRepo:     catalogRepo,
		CertificateRepo: certificateRepo,
		Analytics:       analytics,
		Now:             time.Now,
	}
}

// CompleteLesson 标记课时完成，然后重新校验结业条件
func (s *LearningService) CompleteLesson(ctx context.Context, userID, lessonID uint) (*LessonCompletionResult, error) {
	lesson, err := s.CatalogRepo.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	progress := &model.LessonProgress{
		UserID:      userID,
		CourseID:    lesson.CourseID,
		LessonID:    lesson.ID,
		Completed:   true,
		CompletedAt: &now,
	}
	if err := s.ProgressRepo.Upsert(ctx, progress); err != nil {
		return nil, fmt.Errorf("save lesson progress: %w", err)
	}

	cert, err := s.Analytics.CheckAndIssueCertificate(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	return &LessonCompletionResult{
		Progress:    progress,
		Certificate: cert,
	}, nil
}

// GetCourseProgress 课程进度概览，不会触发证书颁发
func (s *LearningService) GetCourseProgress(ctx context.Context, userID, courseID uint) (*model.CourseProgress, error) {
	if _, err := s.CatalogRepo.FindCourse(ctx, courseID); err != nil {
		return nil, err
	}

	status, err := s.Analytics.EvaluateCompletion(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	cert, err := s.CertificateRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}

	return &model.CourseProgress{
		CourseID:    courseID,
		Completion:  status,
		Percent:     completionPercent(status),
		Certificate: cert,
	}, nil
}

func completionPercent(status model.CompletionStatus) float64 {
	required := status.RequiredLessons + status.RequiredQuizzes
	if required == 0 {
		return 0
	}
	done := min(status.CompletedLessons, status.RequiredLessons) + min(status.PassedQuizzes, status.RequiredQuizzes)
	return math.Round(float64(done)*10000/float64(required)) / 100
}
