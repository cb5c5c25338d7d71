package service

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/util"
	"access_edu_backend/pkg/logger"
	"access_edu_backend/pkg/monitoring"
	"access_edu_backend/pkg/tracing"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultWeakTopicWindow 统计薄弱知识点时回看的最近作答次数
const DefaultWeakTopicWindow = 5

// CertificateStorage 证书文件的存放位置
type CertificateStorage interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetURL(filename string) string
}

type AnalyticsOptions struct {
	WeakTopicWindow int
	// RenderDocuments 为 true 时颁发证书后生成 HTML 证书文件并上传
	RenderDocuments bool
}

// QuizAnalyticsService 测验分析与结业校验
type QuizAnalyticsService struct {
	AttemptRepo     repository.QuizAttemptStore
	ProgressRepo    repository.LessonProgressStore
	CatalogRepo     repository.CatalogStore
	CertificateRepo repository.CertificateStore
	Storage         CertificateStorage
	Notifier        CertificateNotifier
	Now             func() time.Time

	weakTopicWindow atomic.Int64
	renderDocuments atomic.Bool
}

func NewQuizAnalyticsService(
	attemptRepo repository.QuizAttemptStore,
	progressRepo repository.LessonProgressStore,
	catalogRepo repository.CatalogStore,
	certificateRepo repository.CertificateStore,
	storage CertificateStorage,
	notifier CertificateNotifier,
	opts AnalyticsOptions,
) *QuizAnalyticsService {
	if notifier == nil {
		notifier = NopCertificateNotifier{}
	}
	s := &QuizAnalyticsService{
		AttemptRepo:     attemptRepo,
		ProgressRepo:    progressRepo,
		CatalogRepo:     catalogRepo,
		CertificateRepo: certificateRepo,
		Storage:         storage,
		Notifier:        notifier,
		Now:             time.Now,
	}
	s.ApplyOptions(opts)
	return s
}

// ApplyOptions 更新可热加载的分析参数
func (s *QuizAnalyticsService) ApplyOptions(opts AnalyticsOptions) {
	window := opts.WeakTopicWindow
	if window <= 0 {
		window = DefaultWeakTopicWindow
	}
	s.weakTopicWindow.Store(int64(window))
	s.renderDocuments.Store(opts.RenderDocuments)
}

func (s *QuizAnalyticsService) WeakTopicWindow() int {
	return int(s.weakTopicWindow.Load())
}

// DetectWeakTopics 统计用户在课程内最近几次作答中各知识点的错误次数。
// 按错误次数倒序、知识点名称正序返回；题库中已不存在的题目直接跳过
func (s *QuizAnalyticsService) DetectWeakTopics(ctx context.Context, userID, courseID uint) ([]model.WeakTopic, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizAnalyticsService.DetectWeakTopics", trace.WithAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("course.id", int64(courseID)),
	))
	defer span.End()

	timer := prometheus.NewTimer(monitoring.WeakTopicDuration)
	defer timer.ObserveDuration()

	attempts, err := s.AttemptRepo.FindRecentByUserAndCourse(ctx, userID, courseID, s.WeakTopicWindow())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load recent attempts: %w", err)
	}
	if len(attempts) == 0 {
		return []model.WeakTopic{}, nil
	}

	seen := make(map[uint]struct{})
	var questionIDs []uint
	for _, attempt := range attempts {
		for _, answer := range attempt.Answers {
			if _, ok := seen[answer.QuestionID]; ok {
				continue
			}
			seen[answer.QuestionID] = struct{}{}
			questionIDs = append(questionIDs, answer.QuestionID)
		}
	}

	questions, err := s.CatalogRepo.FindQuestionsByIDs(ctx, questionIDs)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load questions: %w", err)
	}

	bank := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		bank[q.ID] = q
	}

	errorsByTopic := make(map[string]int)
	for _, attempt := range attempts {
		for _, answer := range attempt.Answers {
			q, ok := bank[answer.QuestionID]
			if !ok {
				continue
			}
			if answer.SelectedOption != q.CorrectOption {
				errorsByTopic[q.Topic()]++
			}
		}
	}

	return rankWeakTopics(errorsByTopic), nil
}

func rankWeakTopics(errorsByTopic map[string]int) []model.WeakTopic {
	topics := make([]model.WeakTopic, 0, len(errorsByTopic))
	for topic, count := range errorsByTopic {
		topics = append(topics, model.WeakTopic{Topic: topic, ErrorCount: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].ErrorCount != topics[j].ErrorCount {
			return topics[i].ErrorCount > topics[j].ErrorCount
		}
		return topics[i].Topic < topics[j].Topic
	})
	return topics
}

// AnalyzeWeakTopics 薄弱知识点及对应的学习建议
func (s *QuizAnalyticsService) AnalyzeWeakTopics(ctx context.Context, userID, courseID uint) (*model.WeakTopicReport, error) {
	topics, err := s.DetectWeakTopics(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &model.WeakTopicReport{
		CourseID:   courseID,
		WeakTopics: topics,
		Feedback:   GenerateFeedback(topics),
	}, nil
}

// GetImprovementTrend 返回 currentScore 与上一次作答分数之差，没有上一次作答时返回 nil。
// excludeAttemptID 是正在计分的作答，保证"上一次"不会解析到它自己；尚未写入时传 0
func (s *QuizAnalyticsService) GetImprovementTrend(ctx context.Context, userID, quizID uint, currentScore float64, excludeAttemptID uint) (*float64, error) {
	trend, err := s.DescribeTrend(ctx, userID, quizID, currentScore, excludeAttemptID)
	if err != nil {
		return nil, err
	}
	return trend.Delta, nil
}

// DescribeTrend 同 GetImprovementTrend，额外带上上一次的分数
func (s *QuizAnalyticsService) DescribeTrend(ctx context.Context, userID, quizID uint, currentScore float64, excludeAttemptID uint) (*model.ImprovementTrend, error) {
	if math.IsNaN(currentScore) || currentScore < 0 || currentScore > 100 {
		return nil, util.ErrInvalidScore
	}

	previous, err := s.AttemptRepo.FindPrevious(ctx, userID, quizID, excludeAttemptID)
	if err != nil {
		return nil, fmt.Errorf("load previous attempt: %w", err)
	}

	trend := &model.ImprovementTrend{QuizID: quizID, CurrentScore: currentScore}
	if previous == nil {
		return trend, nil
	}

	prevScore := previous.Score
	delta := currentScore - prevScore
	trend.PreviousScore = &prevScore
	trend.Delta = &delta
	return trend, nil
}

// EvaluateCompletion 按当前课程目录计算完成情况（不写入任何数据）
func (s *QuizAnalyticsService) EvaluateCompletion(ctx context.Context, userID, courseID uint) (model.CompletionStatus, error) {
	return s.evaluateCompletion(ctx, userID, courseID, false)
}

// evaluateCompletion failFast 为 true 时课时未全部完成即返回，不再读取测验记录
func (s *QuizAnalyticsService) evaluateCompletion(ctx context.Context, userID, courseID uint, failFast bool) (model.CompletionStatus, error) {
	var status model.CompletionStatus

	lessons, err := s.CatalogRepo.FindLessons(ctx, courseID)
	if err != nil {
		return status, fmt.Errorf("load lessons: %w", err)
	}
	quizzes, err := s.CatalogRepo.FindPublishedQuizzes(ctx, courseID)
	if err != nil {
		return status, fmt.Errorf("load published quizzes: %w", err)
	}

	status.RequiredLessons = len(lessons)
	status.RequiredQuizzes = len(quizzes)

	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}
	completed, err := s.ProgressRepo.CountCompleted(ctx, userID, courseID, lessonIDs)
	if err != nil {
		return status, fmt.Errorf("count completed lessons: %w", err)
	}
	status.CompletedLessons = completed

	if failFast && !status.LessonsDone() {
		return status, nil
	}

	status.QuizzesChecked = true
	if len(quizzes) == 0 {
		return status, nil
	}

	quizIDs := make([]uint, len(quizzes))
	for i, q := range quizzes {
		quizIDs[i] = q.ID
	}
	passed, err := s.AttemptRepo.DistinctPassedQuizIDs(ctx, userID, quizIDs)
	if err != nil {
		return status, fmt.Errorf("load passed quizzes: %w", err)
	}
	status.PassedQuizzes = len(passed)

	return status, nil
}

// CheckAndIssueCertificate 校验用户是否已完成课程全部课时并通过全部已发布测验，满足时颁发证书。
// 每次调用都从当前数据重新计算，可在每次课时完成、测验提交后重复调用。
// 证书写入失败不会返回 error，而是记录日志并返回 CertificatePersistenceFailed
func (s *QuizAnalyticsService) CheckAndIssueCertificate(ctx context.Context, userID, courseID uint) (model.CertificateResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizAnalyticsService.CheckAndIssueCertificate", trace.WithAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("course.id", int64(courseID)),
	))
	defer span.End()

	status, err := s.evaluateCompletion(ctx, userID, courseID, true)
	if err != nil {
		span.RecordError(err)
		return model.CertificateResult{}, err
	}

	result := model.CertificateResult{
		Status:     model.CertificateNotEligible,
		Completion: status,
	}
	if !status.Eligible() {
		monitoring.CertificateChecks.WithLabelValues(string(result.Status)).Inc()
		return result, nil
	}

	cert := &model.Certificate{
		UserID:         userID,
		CourseID:       courseID,
		IssuedAt:       s.Now(),
		CertificateURL: s.Storage.GetURL(CertificateKey(courseID, userID)),
	}
	if err := s.CertificateRepo.Upsert(ctx, cert); err != nil {
		logger.Log.Error("Failed to persist certificate",
			zap.Uint("userID", userID),
			zap.Uint("courseID", courseID),
			zap.Error(err),
		)
		span.RecordError(err)
		result.Status = model.CertificatePersistenceFailed
		monitoring.CertificateChecks.WithLabelValues(string(result.Status)).Inc()
		return result, nil
	}

	result.Status = model.CertificateIssued
	result.Certificate = cert
	monitoring.CertificateChecks.WithLabelValues(string(result.Status)).Inc()
	logger.Log.Info("Certificate issued",
		zap.Uint("userID", userID),
		zap.Uint("courseID", courseID),
		zap.String("certificateID", cert.ID),
	)

	s.afterIssue(ctx, cert)
	return result, nil
}

// afterIssue 证书文件与颁发通知，失败只记录日志
func (s *QuizAnalyticsService) afterIssue(ctx context.Context, cert *model.Certificate) {
	if s.renderDocuments.Load() {
		if err := s.publishDocument(ctx, cert); err != nil {
			logger.Log.Warn("Failed to publish certificate document",
				zap.String("certificateID", cert.ID),
				zap.Error(err),
			)
		}
	}

	if err := s.Notifier.NotifyIssued(ctx, cert); err != nil {
		logger.Log.Warn("Failed to publish certificate event",
			zap.String("certificateID", cert.ID),
			zap.Error(err),
		)
	}
}

func (s *QuizAnalyticsService) publishDocument(ctx context.Context, cert *model.Certificate) error {
	courseTitle := fmt.Sprintf("Course #%d", cert.CourseID)
	if course, err := s.CatalogRepo.FindCourse(ctx, cert.CourseID); err == nil {
		courseTitle = course.Title
	}

	doc, err := RenderCertificateDocument(cert, courseTitle)
	if err != nil {
		return err
	}
	_, err = s.Storage.Upload(ctx, CertificateKey(cert.CourseID, cert.UserID), doc, int64(doc.Len()), util.MimeHTML)
	return err
}

// CertificateKey 证书文件在存储中的固定路径，只由课程和用户决定
func CertificateKey(courseID, userID uint) string {
	return fmt.Sprintf("%s/%d/%d.html", util.CertificateKeyPrefix, courseID, userID)
}
