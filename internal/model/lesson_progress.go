package model

import (
	"time"
)

// LessonProgress 学员对课时的完成标记，每个 (用户, 课时) 最多一条
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson;index:idx_progress_user_course" json:"userId"`
	CourseID    uint       `gorm:"not null;index:idx_progress_user_course" json:"courseId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
