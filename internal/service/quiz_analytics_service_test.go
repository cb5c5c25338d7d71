package service_test

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/testutil"
	"access_edu_backend/internal/util"
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type QuizAnalyticsSuite struct {
	suite.Suite
	e   *engine
	ctx context.Context
}

func (s *QuizAnalyticsSuite) SetupTest() {
	s.e = newEngine(s.T(), service.AnalyticsOptions{})
	s.ctx = context.Background()
}

func TestQuizAnalyticsSuite(t *testing.T) {
	suite.Run(t, new(QuizAnalyticsSuite))
}

// --- weak topics ---

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_NoAttempts() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1, []string{"aria"})

	topics, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Empty(topics)
	s.Assert().NotNil(topics)
}

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_RanksByErrorsThenTopic() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"contrast", "aria", "captions", "focus"})
	quiz := f.Quizzes[0]
	qs := f.Questions[quiz.ID]
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// contrast wrong twice; aria and captions wrong once; focus always right
	s.e.recordAttempt(s.T(), 1, quiz, 1, base, 25, map[uint]string{
		qs[0].ID: "B", qs[1].ID: "C", qs[2].ID: "A", qs[3].ID: "A",
	})
	s.e.recordAttempt(s.T(), 1, quiz, 2, base.Add(time.Hour), 50, map[uint]string{
		qs[0].ID: "D", qs[1].ID: "A", qs[2].ID: "B", qs[3].ID: "A",
	})

	topics, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]model.WeakTopic{
		{Topic: "contrast", ErrorCount: 2},
		{Topic: "aria", ErrorCount: 1},
		{Topic: "captions", ErrorCount: 1},
	}, topics)
}

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_Deterministic() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"b-topic", "a-topic", "c-topic"})
	quiz := f.Quizzes[0]
	qs := f.Questions[quiz.ID]
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// identical timestamps and equal error counts exercise both tie breakers
	for i := 1; i <= 3; i++ {
		s.e.recordAttempt(s.T(), 1, quiz, i, at, 0, map[uint]string{
			qs[0].ID: "B", qs[1].ID: "B", qs[2].ID: "B",
		})
	}

	first, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	for i := 0; i < 10; i++ {
		again, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
		s.Require().NoError(err)
		s.Assert().Equal(first, again)
	}
	s.Assert().Equal("a-topic", first[0].Topic)
}

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_OnlyFiveMostRecent() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"old-topic", "recent-topic"})
	quiz := f.Quizzes[0]
	qs := f.Questions[quiz.ID]
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// the two oldest attempts miss only old-topic
	for i := 1; i <= 2; i++ {
		s.e.recordAttempt(s.T(), 1, quiz, i, base.Add(time.Duration(i)*time.Minute), 50, map[uint]string{
			qs[0].ID: "C", qs[1].ID: "A",
		})
	}
	// the five newest miss only recent-topic
	for i := 3; i <= 7; i++ {
		s.e.recordAttempt(s.T(), 1, quiz, i, base.Add(time.Duration(i)*time.Minute), 50, map[uint]string{
			qs[0].ID: "A", qs[1].ID: "D",
		})
	}

	topics, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]model.WeakTopic{{Topic: "recent-topic", ErrorCount: 5}}, topics)
}

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_WindowFollowsOptions() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"aria"})
	quiz := f.Quizzes[0]
	q := f.Questions[quiz.ID][0]
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		s.e.recordAttempt(s.T(), 1, quiz, i, base.Add(time.Duration(i)*time.Minute), 0, map[uint]string{q.ID: "B"})
	}

	s.e.analytics.ApplyOptions(service.AnalyticsOptions{WeakTopicWindow: 2})
	topics, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal(2, topics[0].ErrorCount)

	s.e.analytics.ApplyOptions(service.AnalyticsOptions{})
	s.Assert().Equal(service.DefaultWeakTopicWindow, s.e.analytics.WeakTopicWindow())
}

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_SkipsDeletedQuestions() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"aria", "contrast"})
	quiz := f.Quizzes[0]
	qs := f.Questions[quiz.ID]
	s.e.recordAttempt(s.T(), 1, quiz, 1, time.Now(), 0, map[uint]string{
		qs[0].ID: "B", qs[1].ID: "B", 9999: "B",
	})
	s.Require().NoError(s.e.db.Delete(&qs[1]).Error)

	topics, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]model.WeakTopic{{Topic: "aria", ErrorCount: 1}}, topics)
}

func (s *QuizAnalyticsSuite) TestDetectWeakTopics_UsesLiveTopicTag() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"aria"})
	quiz := f.Quizzes[0]
	q := f.Questions[quiz.ID][0]
	s.e.recordAttempt(s.T(), 1, quiz, 1, time.Now(), 0, map[uint]string{q.ID: "B"})

	s.Require().NoError(s.e.db.Model(&q).Update("topic_tag", "").Error)

	topics, err := s.e.analytics.DetectWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]model.WeakTopic{{Topic: model.UncategorizedTopic, ErrorCount: 1}}, topics)
}

func (s *QuizAnalyticsSuite) TestAnalyzeWeakTopics_IncludesFeedback() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"captions"})
	quiz := f.Quizzes[0]
	q := f.Questions[quiz.ID][0]
	s.e.recordAttempt(s.T(), 1, quiz, 1, time.Now(), 0, map[uint]string{q.ID: "C"})

	report, err := s.e.analytics.AnalyzeWeakTopics(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal(f.Course.ID, report.CourseID)
	s.Assert().Len(report.WeakTopics, 1)
	s.Assert().Contains(report.Feedback, "captions")
}

// --- trend ---

func (s *QuizAnalyticsSuite) TestImprovementTrend() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"aria"})
	quiz := f.Quizzes[0]

	delta, err := s.e.analytics.GetImprovementTrend(s.ctx, 1, quiz.ID, 80, 0)
	s.Require().NoError(err)
	s.Assert().Nil(delta)

	s.e.recordAttempt(s.T(), 1, quiz, 1, time.Now(), 70, nil)

	delta, err = s.e.analytics.GetImprovementTrend(s.ctx, 1, quiz.ID, 85, 0)
	s.Require().NoError(err)
	s.Require().NotNil(delta)
	s.Assert().InDelta(15, *delta, 1e-9)

	delta, err = s.e.analytics.GetImprovementTrend(s.ctx, 1, quiz.ID, 60, 0)
	s.Require().NoError(err)
	s.Require().NotNil(delta)
	s.Assert().InDelta(-10, *delta, 1e-9)
}

func (s *QuizAnalyticsSuite) TestImprovementTrend_ZeroDeltaIsNotAbsent() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"aria"})
	quiz := f.Quizzes[0]
	s.e.recordAttempt(s.T(), 1, quiz, 1, time.Now(), 70, nil)

	delta, err := s.e.analytics.GetImprovementTrend(s.ctx, 1, quiz.ID, 70, 0)
	s.Require().NoError(err)
	s.Require().NotNil(delta)
	s.Assert().Zero(*delta)
}

func (s *QuizAnalyticsSuite) TestImprovementTrend_ExcludesAttemptBeingScored() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0, []string{"aria"})
	quiz := f.Quizzes[0]
	s.e.recordAttempt(s.T(), 1, quiz, 1, time.Now(), 40, nil)
	current := s.e.recordAttempt(s.T(), 1, quiz, 2, time.Now(), 90, nil)

	trend, err := s.e.analytics.DescribeTrend(s.ctx, 1, quiz.ID, 90, current.ID)
	s.Require().NoError(err)
	s.Require().NotNil(trend.PreviousScore)
	s.Assert().InDelta(40, *trend.PreviousScore, 1e-9)
	s.Assert().InDelta(50, *trend.Delta, 1e-9)
}

func (s *QuizAnalyticsSuite) TestImprovementTrend_RejectsOutOfRangeScore() {
	_, err := s.e.analytics.GetImprovementTrend(s.ctx, 1, 1, 101, 0)
	s.Assert().ErrorIs(err, util.ErrInvalidScore)

	_, err = s.e.analytics.GetImprovementTrend(s.ctx, 1, 1, -1, 0)
	s.Assert().ErrorIs(err, util.ErrInvalidScore)

	_, err = s.e.analytics.DescribeTrend(s.ctx, 1, 1, math.NaN(), 0)
	s.Assert().ErrorIs(err, util.ErrInvalidScore)
}

// --- completion gate ---

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_IssuesOnceAndIsIdempotent() {
	f := testutil.SeedCourse(s.T(), s.e.db, 2, []string{"aria"})
	s.e.completeLesson(s.T(), 1, f.Lessons[0])
	s.e.completeLesson(s.T(), 1, f.Lessons[1])
	s.e.recordAttempt(s.T(), 1, f.Quizzes[0], 1, time.Now(), 100, nil)

	first, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().True(first.Issued())
	s.Require().NotNil(first.Certificate)
	s.Assert().Equal("/uploads/"+service.CertificateKey(f.Course.ID, 1), first.Certificate.CertificateURL)
	s.Assert().EqualValues(1, s.e.certificateCount(s.T(), 1, f.Course.ID))

	second, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().True(second.Issued())
	s.Assert().Equal(first.Certificate.ID, second.Certificate.ID)
	s.Assert().EqualValues(1, s.e.certificateCount(s.T(), 1, f.Course.ID))
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_RefreshesIssuedAt() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1, []string{"aria"})
	s.e.completeLesson(s.T(), 1, f.Lessons[0])
	s.e.recordAttempt(s.T(), 1, f.Quizzes[0], 1, time.Now(), 100, nil)

	first := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.e.analytics.Now = func() time.Time { return first }
	_, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)

	later := first.Add(48 * time.Hour)
	s.e.analytics.Now = func() time.Time { return later }
	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().True(result.Certificate.IssuedAt.Equal(later))
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_PartialLessons() {
	f := testutil.SeedCourse(s.T(), s.e.db, 2, []string{"aria"})
	s.e.completeLesson(s.T(), 1, f.Lessons[0])
	s.e.recordAttempt(s.T(), 1, f.Quizzes[0], 1, time.Now(), 100, nil)

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal(model.CertificateNotEligible, result.Status)
	s.Assert().False(result.Completion.QuizzesChecked)
	s.Assert().Equal(1, result.Completion.CompletedLessons)
	s.Assert().Nil(result.Certificate)
	s.Assert().Zero(s.e.certificateCount(s.T(), 1, f.Course.ID))
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_QuizNotPassed() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1, []string{"aria"}, []string{"contrast"})
	s.e.completeLesson(s.T(), 1, f.Lessons[0])
	s.e.recordAttempt(s.T(), 1, f.Quizzes[0], 1, time.Now(), 100, nil)
	s.e.recordAttempt(s.T(), 1, f.Quizzes[1], 1, time.Now(), 40, nil)

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().False(result.Issued())
	s.Assert().Equal(1, result.Completion.PassedQuizzes)
	s.Assert().Equal(2, result.Completion.RequiredQuizzes)
	s.Assert().Zero(s.e.certificateCount(s.T(), 1, f.Course.ID))
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_NoPublishedQuizzes() {
	f := testutil.SeedCourse(s.T(), s.e.db, 2)
	// unpublished quizzes are not required
	s.Require().NoError(s.e.db.Create(&model.Quiz{CourseID: f.Course.ID, Title: "Draft", PassingScore: 70}).Error)
	s.e.completeLesson(s.T(), 1, f.Lessons[0])
	s.e.completeLesson(s.T(), 1, f.Lessons[1])

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().True(result.Issued())
	s.Assert().Zero(result.Completion.RequiredQuizzes)
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_EmptyCourseIsVacuouslyComplete() {
	f := testutil.SeedCourse(s.T(), s.e.db, 0)

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal(model.CertificateIssued, result.Status)
	s.Assert().Zero(result.Completion.RequiredLessons)
	s.Assert().Zero(result.Completion.RequiredQuizzes)
	s.Assert().EqualValues(1, s.e.certificateCount(s.T(), 1, f.Course.ID))
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_RecomputesAfterCatalogChange() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1)
	s.e.completeLesson(s.T(), 1, f.Lessons[0])

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Require().True(result.Issued())

	// a newly added lesson is required on the next check
	extra := model.Lesson{CourseID: f.Course.ID, Title: "New lesson", Order: 2}
	s.Require().NoError(s.e.db.Create(&extra).Error)

	result, err = s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().Equal(model.CertificateNotEligible, result.Status)
	s.Assert().Equal(2, result.Completion.RequiredLessons)
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_OtherLearnersDoNotCount() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1, []string{"aria"})
	s.e.completeLesson(s.T(), 2, f.Lessons[0])
	s.e.recordAttempt(s.T(), 2, f.Quizzes[0], 1, time.Now(), 100, nil)

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().False(result.Issued())
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_ConcurrentCallsConverge() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1, []string{"aria"})
	s.e.completeLesson(s.T(), 1, f.Lessons[0])
	s.e.recordAttempt(s.T(), 1, f.Quizzes[0], 1, time.Now(), 100, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]model.CertificateResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		s.Require().NoError(errs[i])
		s.Assert().True(results[i].Issued())
	}
	s.Assert().EqualValues(1, s.e.certificateCount(s.T(), 1, f.Course.ID))
}

func (s *QuizAnalyticsSuite) TestCheckAndIssueCertificate_RendersDocument() {
	s.e.analytics.ApplyOptions(service.AnalyticsOptions{RenderDocuments: true})
	f := testutil.SeedCourse(s.T(), s.e.db, 1)
	s.e.completeLesson(s.T(), 1, f.Lessons[0])

	result, err := s.e.analytics.CheckAndIssueCertificate(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Require().True(result.Issued())
	s.Assert().FileExists(s.e.storageDir + "/" + service.CertificateKey(f.Course.ID, 1))
}

func (s *QuizAnalyticsSuite) TestEvaluateCompletion_DoesNotIssue() {
	f := testutil.SeedCourse(s.T(), s.e.db, 1)
	s.e.completeLesson(s.T(), 1, f.Lessons[0])

	status, err := s.e.analytics.EvaluateCompletion(s.ctx, 1, f.Course.ID)
	s.Require().NoError(err)
	s.Assert().True(status.Eligible())
	s.Assert().Zero(s.e.certificateCount(s.T(), 1, f.Course.ID))
}
