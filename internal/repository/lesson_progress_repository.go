package repository

import (
	"access_edu_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonProgressRepository struct {
	DB *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) *LessonProgressRepository {
	return &LessonProgressRepository{DB: db}
}

// Upsert 按 (用户, 课时) 写入完成标记，写入后 progress 会被回填为库中的最新记录
func (r *LessonProgressRepository) Upsert(ctx context.Context, progress *model.LessonProgress) error {
	db := r.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"course_id":    progress.CourseID,
			"completed":    progress.Completed,
			"completed_at": progress.CompletedAt,
			"updated_at":   time.Now(),
			"deleted_at":   nil,
		}),
	}).Create(progress).Error
	if err != nil {
		return err
	}

	// 冲突更新时主键以库中已有记录为准，重新读取而不是沿用本次生成的值
	var stored model.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", progress.UserID, progress.LessonID).First(&stored).Error; err != nil {
		return err
	}
	*progress = stored
	return nil
}

// CountCompleted 统计 lessonIDs 中已完成的不同课时数
func (r *LessonProgressRepository) CountCompleted(ctx context.Context, userID, courseID uint, lessonIDs []uint) (int, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ? AND lesson_id IN ?", userID, courseID, true, lessonIDs).
		Distinct("lesson_id").
		Count(&count).Error
	return int(count), err
}

func (r *LessonProgressRepository) ListByUserAndCourse(ctx context.Context, userID, courseID uint) ([]model.LessonProgress, error) {
	var progress []model.LessonProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("lesson_id ASC").
		Find(&progress).Error
	return progress, err
}

func (r *LessonProgressRepository) DistinctUserIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Where("course_id = ?", courseID).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
