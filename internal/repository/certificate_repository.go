package repository

import (
	"access_edu_backend/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// Upsert 以 (用户, 课程) 唯一索引为串行化点写入证书：不存在则插入，存在则原地更新
// 颁发时间与证书地址。并发调用最终只会留下一条记录。写入成功后 cert 回填为库中的记录
func (r *CertificateRepository) Upsert(ctx context.Context, cert *model.Certificate) error {
	db := r.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"issued_at":       cert.IssuedAt,
			"certificate_url": cert.CertificateURL,
			"updated_at":      time.Now(),
			"deleted_at":      nil,
		}),
	}).Create(cert).Error
	if err != nil {
		return err
	}

	// 冲突更新时主键以库中已有记录为准，重新读取而不是沿用本次生成的值
	var stored model.Certificate
	if err := db.Where("user_id = ? AND course_id = ?", cert.UserID, cert.CourseID).First(&stored).Error; err != nil {
		return err
	}
	*cert = stored
	return nil
}

// FindByUserAndCourse 未颁发时返回 nil, nil
func (r *CertificateRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) CountByUserAndCourse(ctx context.Context, userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Unscoped().
		Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}
