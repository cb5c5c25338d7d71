package service

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/util"
	"access_edu_backend/pkg/logger"
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

type CertificateService struct {
	CertificateRepo repository.CertificateStore
	AttemptRepo     repository.QuizAttemptStore
	ProgressRepo    repository.LessonProgressStore
	CatalogRepo     repository.CatalogStore
	Analytics       *QuizAnalyticsService
}

func NewCertificateService(
	certificateRepo repository.CertificateStore,
	attemptRepo repository.QuizAttemptStore,
	progressRepo repository.LessonProgressStore,
	catalogRepo repository.CatalogStore,
	analytics *QuizAnalyticsService,
) *CertificateService {
	return &CertificateService{
		CertificateRepo: certificateRepo,
		AttemptRepo:     attemptRepo,
		ProgressRepo:    progressRepo,
		CatalogRepo:     catalogRepo,
		Analytics:       analytics,
	}
}

func (s *CertificateService) GetCertificate(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	cert, err := s.CertificateRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, util.ErrCertificateNotFound
	}
	return cert, nil
}

func (s *CertificateService) ListCertificates(ctx context.Context, userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(ctx, userID)
}

// ReconcileSummary 一次批量校验的统计
type ReconcileSummary struct {
	CourseID          uint `json:"courseId" yaml:"course_id"`
	Checked           int  `json:"checked" yaml:"checked"`
	Issued            int  `json:"issued" yaml:"issued"`
	NotEligible       int  `json:"notEligible" yaml:"not_eligible"`
	PersistenceFailed int  `json:"persistenceFailed" yaml:"persistence_failed"`
}

// ReconcileCourse 对课程下所有有学习记录的用户重新执行结业校验，用于课程目录调整之后补发证书
func (s *CertificateService) ReconcileCourse(ctx context.Context, courseID uint) (*ReconcileSummary, error) {
	if _, err := s.CatalogRepo.FindCourse(ctx, courseID); err != nil {
		return nil, err
	}

	progressUsers, err := s.ProgressRepo.DistinctUserIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load learners with progress: %w", err)
	}
	attemptUsers, err := s.AttemptRepo.DistinctUserIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load learners with attempts: %w", err)
	}

	userIDs := mergeUserIDs(progressUsers, attemptUsers)
	summary := &ReconcileSummary{CourseID: courseID}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := s.Analytics.CheckAndIssueCertificate(ctx, userID, courseID)
		if err != nil {
			return summary, fmt.Errorf("check user %d: %w", userID, err)
		}

		summary.Checked++
		switch result.Status {
		case model.CertificateIssued:
			summary.Issued++
		case model.CertificatePersistenceFailed:
			summary.PersistenceFailed++
		default:
			summary.NotEligible++
		}
	}

	logger.Log.Info("Certificate reconciliation finished",
		zap.Uint("courseID", courseID),
		zap.Int("checked", summary.Checked),
		zap.Int("issued", summary.Issued),
		zap.Int("persistenceFailed", summary.PersistenceFailed),
	)
	return summary, nil
}

func mergeUserIDs(lists ...[]uint) []uint {
	seen := make(map[uint]struct{})
	var merged []uint
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return merged
}
