package mocks

import (
	"access_edu_backend/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLessonProgressStore is a mock implementation of repository.LessonProgressStore
type MockLessonProgressStore struct {
	mock.Mock
}

func (m *MockLessonProgressStore) Upsert(ctx context.Context, progress *model.LessonProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockLessonProgressStore) CountCompleted(ctx context.Context, userID, courseID uint, lessonIDs []uint) (int, error) {
	args := m.Called(ctx, userID, courseID, lessonIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockLessonProgressStore) ListByUserAndCourse(ctx context.Context, userID, courseID uint) ([]model.LessonProgress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LessonProgress), args.Error(1)
}

func (m *MockLessonProgressStore) DistinctUserIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}
