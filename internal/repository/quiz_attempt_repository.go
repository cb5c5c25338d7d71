package repository

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

// Create 写入一次作答。(用户, 测验, 次序号) 冲突时返回 util.ErrAttemptNumberTaken
func (r *QuizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	err := r.DB.WithContext(ctx).Create(attempt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrAttemptNumberTaken
	}
	return err
}

// FindRecentByUserAndCourse 按作答时间倒序取最近 limit 次作答，时间相同时按 ID 倒序
func (r *QuizAttemptRepository) FindRecentByUserAndCourse(ctx context.Context, userID, courseID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("attempted_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// FindPrevious 返回次序号最大的一次历史作答，excludeAttemptID 为正在计分的作答（0 表示尚未写入）。
// 没有历史记录时返回 nil, nil
func (r *QuizAttemptRepository) FindPrevious(ctx context.Context, userID, quizID, excludeAttemptID uint) (*model.QuizAttempt, error) {
	query := r.DB.WithContext(ctx).Where("user_id = ? AND quiz_id = ?", userID, quizID)
	if excludeAttemptID != 0 {
		query = query.Where("id <> ?", excludeAttemptID)
	}

	var attempt model.QuizAttempt
	err := query.Order("attempt_number DESC").Order("id DESC").First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// NextAttemptNumber 计算下一次作答的次序号。软删除的记录仍占用唯一索引，因此一并计入
func (r *QuizAttemptRepository) NextAttemptNumber(ctx context.Context, userID, quizID uint) (int, error) {
	var maxNumber int
	err := r.DB.WithContext(ctx).Unscoped().
		Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&maxNumber).Error
	if err != nil {
		return 0, err
	}
	return maxNumber + 1, nil
}

// DistinctPassedQuizIDs 返回 quizIDs 中用户至少通过过一次的测验
func (r *QuizAttemptRepository) DistinctPassedQuizIDs(ctx context.Context, userID uint, quizIDs []uint) ([]uint, error) {
	if len(quizIDs) == 0 {
		return []uint{}, nil
	}

	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("user_id = ? AND passed = ? AND quiz_id IN ?", userID, true, quizIDs).
		Distinct("quiz_id").
		Pluck("quiz_id", &ids).Error
	return ids, err
}

func (r *QuizAttemptRepository) ListByUserAndQuiz(ctx context.Context, userID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizAttemptRepository) DistinctUserIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("course_id = ?", courseID).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
