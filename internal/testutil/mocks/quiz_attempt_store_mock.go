package mocks

import (
	"access_edu_backend/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockQuizAttemptStore is a mock implementation of repository.QuizAttemptStore
type MockQuizAttemptStore struct {
	mock.Mock
}

func (m *MockQuizAttemptStore) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockQuizAttemptStore) FindRecentByUserAndCourse(ctx context.Context, userID, courseID uint, limit int) ([]model.QuizAttempt, error) {
	args := m.Called(ctx, userID, courseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptStore) FindPrevious(ctx context.Context, userID, quizID, excludeAttemptID uint) (*model.QuizAttempt, error) {
	args := m.Called(ctx, userID, quizID, excludeAttemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptStore) NextAttemptNumber(ctx context.Context, userID, quizID uint) (int, error) {
	args := m.Called(ctx, userID, quizID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuizAttemptStore) DistinctPassedQuizIDs(ctx context.Context, userID uint, quizIDs []uint) ([]uint, error) {
	args := m.Called(ctx, userID, quizIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuizAttemptStore) ListByUserAndQuiz(ctx context.Context, userID, quizID uint) ([]model.QuizAttempt, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptStore) DistinctUserIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}
