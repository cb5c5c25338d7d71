package service_test

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/service"
	"access_edu_backend/internal/testutil"
	"access_edu_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteLesson_IdempotentAndIssuesOnLastLesson(t *testing.T) {
	e := newEngine(t, service.AnalyticsOptions{})
	ctx := context.Background()
	f := testutil.SeedCourse(t, e.db, 2)

	first, err := e.learning.CompleteLesson(ctx, 1, f.Lessons[0].ID)
	require.NoError(t, err)
	assert.True(t, first.Progress.Completed)
	assert.Equal(t, model.CertificateNotEligible, first.Certificate.Status)

	again, err := e.learning.CompleteLesson(ctx, 1, f.Lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.Progress.ID, again.Progress.ID)

	last, err := e.learning.CompleteLesson(ctx, 1, f.Lessons[1].ID)
	require.NoError(t, err)
	assert.True(t, last.Certificate.Issued())
	assert.Equal(t, 2, last.Certificate.Completion.CompletedLessons)
	assert.EqualValues(t, 1, e.certificateCount(t, 1, f.Course.ID))
}

func TestCompleteLesson_UnknownLesson(t *testing.T) {
	e := newEngine(t, service.AnalyticsOptions{})

	_, err := e.learning.CompleteLesson(context.Background(), 1, 9999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestGetCourseProgress(t *testing.T) {
	e := newEngine(t, service.AnalyticsOptions{})
	ctx := context.Background()
	f := testutil.SeedCourse(t, e.db, 3, []string{"aria"})
	e.completeLesson(t, 1, f.Lessons[0])
	e.completeLesson(t, 1, f.Lessons[1])
	e.recordAttempt(t, 1, f.Quizzes[0], 1, time.Now(), 90, nil)

	progress, err := e.learning.GetCourseProgress(ctx, 1, f.Course.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, progress.Completion.RequiredLessons)
	assert.Equal(t, 2, progress.Completion.CompletedLessons)
	assert.Equal(t, 1, progress.Completion.PassedQuizzes)
	assert.True(t, progress.Completion.QuizzesChecked)
	assert.InDelta(t, 75, progress.Percent, 1e-9)
	assert.Nil(t, progress.Certificate)
	assert.Zero(t, e.certificateCount(t, 1, f.Course.ID))
}

func TestGetCourseProgress_ShowsIssuedCertificate(t *testing.T) {
	e := newEngine(t, service.AnalyticsOptions{})
	ctx := context.Background()
	f := testutil.SeedCourse(t, e.db, 1)

	_, err := e.learning.CompleteLesson(ctx, 1, f.Lessons[0].ID)
	require.NoError(t, err)

	progress, err := e.learning.GetCourseProgress(ctx, 1, f.Course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, progress.Percent, 1e-9)
	require.NotNil(t, progress.Certificate)
	assert.Equal(t, f.Course.ID, progress.Certificate.CourseID)
}

func TestGetCourseProgress_UnknownCourse(t *testing.T) {
	e := newEngine(t, service.AnalyticsOptions{})

	_, err := e.learning.GetCourseProgress(context.Background(), 1, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
