package mocks

import (
	"access_edu_backend/internal/model"
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockCertificateStorage is a mock implementation of service.CertificateStorage
type MockCertificateStorage struct {
	mock.Mock
}

func (m *MockCertificateStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, filename, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockCertificateStorage) GetURL(filename string) string {
	args := m.Called(filename)
	return args.String(0)
}

// MockCertificateNotifier is a mock implementation of service.CertificateNotifier
type MockCertificateNotifier struct {
	mock.Mock
}

func (m *MockCertificateNotifier) NotifyIssued(ctx context.Context, cert *model.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}
