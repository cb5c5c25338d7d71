package repository_test

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRepository_UpsertIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewCertificateRepository(db)
	ctx := context.Background()

	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := &model.Certificate{UserID: 1, CourseID: 2, IssuedAt: issued, CertificateURL: "/uploads/certificates/2/1.html"}
	require.NoError(t, repo.Upsert(ctx, first))
	require.NotEmpty(t, first.ID)

	again := &model.Certificate{UserID: 1, CourseID: 2, IssuedAt: issued.Add(time.Hour), CertificateURL: "/uploads/certificates/2/1.html"}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.IssuedAt.Equal(issued.Add(time.Hour)))

	count, err := repo.CountByUserAndCourse(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCertificateRepository_FindByUserAndCourse(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewCertificateRepository(db)
	ctx := context.Background()

	cert, err := repo.FindByUserAndCourse(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, cert)

	require.NoError(t, repo.Upsert(ctx, &model.Certificate{UserID: 1, CourseID: 2, IssuedAt: time.Now(), CertificateURL: "u"}))
	require.NoError(t, repo.Upsert(ctx, &model.Certificate{UserID: 1, CourseID: 3, IssuedAt: time.Now(), CertificateURL: "v"}))

	cert, err = repo.FindByUserAndCourse(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, "u", cert.CertificateURL)

	certs, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, certs, 2)
}
