package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 自增主键的课程目录与学习记录
// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UUIDBase 对外暴露的记录使用随机主键，避免 ID 被遍历
// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate 生成主键，随机源不可用时中止写入而不是 panic
func (b *UUIDBase) BeforeCreate(*gorm.DB) error {
	if b.ID != "" {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	b.ID = id.String()
	return nil
}

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&Course{},
		&Lesson{},
		&Quiz{},
		&Question{},
		&QuizAttempt{},
		&LessonProgress{},
		&Certificate{},
	}
}
