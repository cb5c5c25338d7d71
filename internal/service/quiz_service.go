package service

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/util"
	"access_edu_backend/pkg/logger"
	"access_edu_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// 并发提交时次序号冲突的重试次数
const maxAttemptNumberRetries = 3

type AnswerInput struct {
	QuestionID     uint   `json:"questionId" binding:"required"`
	SelectedOption string `json:"selectedOption"`
}

type QuizSubmission struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

type QuizSubmissionResult struct {
	Attempt     *model.QuizAttempt      `json:"attempt"`
	Correct     int                     `json:"correct"`
	Total       int                     `json:"total"`
	Trend       *model.ImprovementTrend `json:"trend,omitempty"`
	Analysis    *model.WeakTopicReport  `json:"analysis,omitempty"`
	Certificate model.CertificateResult `json:"certificate"`
}

type QuizService struct {
	AttemptRepo repository.QuizAttemptStore
	CatalogRepo repository.CatalogStore
	Analytics   *QuizAnalyticsService
	Now         func() time.Time
}

func NewQuizService(
	attemptRepo repository.QuizAttemptStore,
	catalogRepo repository.CatalogStore,
	analytics *QuizAnalyticsService,
) *QuizService {
	return &QuizService{
		AttemptRepo: attemptRepo,
		CatalogRepo: catalogRepo,
		Analytics:   analytics,
		Now:         time.Now,
	}
}

// SubmitAttempt 计分并追加一条作答记录，随后计算分数趋势、薄弱知识点并尝试颁发证书。
// 作答写入成功后，后续分析失败只记录日志，不影响本次提交
func (s *QuizService) SubmitAttempt(ctx context.Context, userID, quizID uint, submission QuizSubmission) (*QuizSubmissionResult, error) {
	if len(submission.Answers) == 0 {
		return nil, util.ErrEmptySubmission
	}

	quiz, err := s.CatalogRepo.FindQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}
	if len(quiz.Questions) == 0 {
		return nil, util.ErrQuizHasNoQuestions
	}

	selected := make(map[uint]string, len(submission.Answers))
	for _, a := range submission.Answers {
		selected[a.QuestionID] = a.SelectedOption
	}

	// 每道展示过的题目记录一条作答，未作答的题目记为空选项
	answers := make([]model.AnswerRecord, 0, len(quiz.Questions))
	snapshot := make([]model.QuestionSnapshot, 0, len(quiz.Questions))
	correct := 0
	for _, q := range quiz.Questions {
		choice := selected[q.ID]
		if choice == q.CorrectOption {
			correct++
		}
		answers = append(answers, model.AnswerRecord{QuestionID: q.ID, SelectedOption: choice})
		snapshot = append(snapshot, model.QuestionSnapshot{
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			Options:       append([]string(nil), q.Options...),
			CorrectOption: q.CorrectOption,
			TopicTag:      q.TopicTag,
		})
	}

	score := ScorePercent(correct, len(quiz.Questions))
	attempt := &model.QuizAttempt{
		UserID:            userID,
		CourseID:          quiz.CourseID,
		QuizID:            quiz.ID,
		AttemptedAt:       s.Now(),
		Score:             score,
		Passed:            score >= quiz.PassingScore,
		Answers:           answers,
		QuestionsSnapshot: snapshot,
	}
	if err := s.createWithNextNumber(ctx, attempt); err != nil {
		return nil, err
	}

	result := &QuizSubmissionResult{
		Attempt: attempt,
		Correct: correct,
		Total:   len(quiz.Questions),
	}

	trend, err := s.Analytics.DescribeTrend(ctx, userID, quiz.ID, score, attempt.ID)
	if err != nil {
		logger.Log.Warn("Failed to compute improvement trend", zap.Uint("attemptID", attempt.ID), zap.Error(err))
	} else {
		result.Trend = trend
	}

	analysis, err := s.Analytics.AnalyzeWeakTopics(ctx, userID, quiz.CourseID)
	if err != nil {
		logger.Log.Warn("Failed to analyze weak topics", zap.Uint("attemptID", attempt.ID), zap.Error(err))
	} else {
		result.Analysis = analysis
	}

	cert, err := s.Analytics.CheckAndIssueCertificate(ctx, userID, quiz.CourseID)
	if err != nil {
		logger.Log.Warn("Failed to check certificate eligibility", zap.Uint("attemptID", attempt.ID), zap.Error(err))
		cert = model.CertificateResult{Status: model.CertificateNotEligible}
	}
	result.Certificate = cert

	return result, nil
}

func (s *QuizService) createWithNextNumber(ctx context.Context, attempt *model.QuizAttempt) error {
	var err error
	for i := 0; i < maxAttemptNumberRetries; i++ {
		var number int
		number, err = s.AttemptRepo.NextAttemptNumber(ctx, attempt.UserID, attempt.QuizID)
		if err != nil {
			return fmt.Errorf("next attempt number: %w", err)
		}
		attempt.AttemptNumber = number
		attempt.ID = 0

		err = s.AttemptRepo.Create(ctx, attempt)
		if err == nil {
			monitoring.ObserveAttempt(attempt.Passed)
			return nil
		}
		if !errors.Is(err, util.ErrAttemptNumberTaken) {
			return err
		}
		logger.Log.Debug("Attempt number taken, retrying",
			zap.Uint("userID", attempt.UserID),
			zap.Uint("quizID", attempt.QuizID),
			zap.Int("attemptNumber", number),
		)
	}
	return err
}

// ListAttempts 用户在某个测验上的全部作答，按次序号升序
func (s *QuizService) ListAttempts(ctx context.Context, userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUserAndQuiz(ctx, userID, quizID)
}

// ScorePercent 百分制得分，保留两位小数
func ScorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)*10000/float64(total)) / 100
}
