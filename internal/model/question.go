package model

import "gorm.io/datatypes"

// UncategorizedTopic 题目未设置知识点标签时使用的归类
const UncategorizedTopic = "general"

// Question 题库中的实时题目。历史作答统计薄弱知识点时按 ID 回查此表，
// 因此标签可能与作答时展示的内容不同
// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint                        `gorm:"index;not null" json:"quizId"`
	Prompt        string                      `gorm:"type:text;not null" json:"prompt"`
	Options       datatypes.JSONSlice[string] `gorm:"type:json" json:"options"`
	CorrectOption string                      `gorm:"size:255;not null" json:"-"`
	TopicTag      string                      `gorm:"size:100;index" json:"topicTag"`
	Order         int                         `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// Topic 返回用于统计的知识点名称
func (q *Question) Topic() string {
	if q.TopicTag == "" {
		return UncategorizedTopic
	}
	return q.TopicTag
}
