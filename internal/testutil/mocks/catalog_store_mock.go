package mocks

import (
	"access_edu_backend/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCatalogStore is a mock implementation of repository.CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) FindCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCatalogStore) FindLessons(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lesson), args.Error(1)
}

func (m *MockCatalogStore) FindLesson(ctx context.Context, lessonID uint) (*model.Lesson, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lesson), args.Error(1)
}

func (m *MockCatalogStore) FindPublishedQuizzes(ctx context.Context, courseID uint) ([]model.Quiz, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quiz), args.Error(1)
}

func (m *MockCatalogStore) FindQuizWithQuestions(ctx context.Context, quizID uint) (*model.Quiz, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quiz), args.Error(1)
}

func (m *MockCatalogStore) FindQuestionsByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}
