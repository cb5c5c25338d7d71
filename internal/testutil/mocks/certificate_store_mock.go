package mocks

import (
	"access_edu_backend/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCertificateStore is a mock implementation of repository.CertificateStore
type MockCertificateStore struct {
	mock.Mock
}

func (m *MockCertificateStore) Upsert(ctx context.Context, cert *model.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *MockCertificateStore) FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Certificate), args.Error(1)
}

func (m *MockCertificateStore) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Certificate), args.Error(1)
}

func (m *MockCertificateStore) CountByUserAndCourse(ctx context.Context, userID, courseID uint) (int64, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Get(0).(int64), args.Error(1)
}
