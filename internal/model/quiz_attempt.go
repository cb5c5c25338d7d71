package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerRecord 学员对单道题的选择
type AnswerRecord struct {
	QuestionID     uint   `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
}

// QuestionSnapshot 作答时展示给学员的题目内容，与题库后续修改解耦
type QuestionSnapshot struct {
	QuestionID    uint     `json:"questionId"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"`
	TopicTag      string   `json:"topicTag"`
}

// QuizAttempt 一次测验提交记录，只追加不修改
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID            uint                                  `gorm:"not null;index:idx_attempt_user_course;uniqueIndex:idx_attempt_user_quiz_number" json:"userId"`
	CourseID          uint                                  `gorm:"not null;index:idx_attempt_user_course" json:"courseId"`
	QuizID            uint                                  `gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number" json:"quizId"`
	AttemptNumber     int                                   `gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number" json:"attemptNumber"`
	AttemptedAt       time.Time                             `gorm:"not null;index" json:"attemptedAt"`
	Score             float64                               `gorm:"not null" json:"score"`
	Passed            bool                                  `gorm:"index;default:false" json:"passed"`
	Answers           datatypes.JSONSlice[AnswerRecord]     `gorm:"type:json" json:"answers"`
	QuestionsSnapshot datatypes.JSONSlice[QuestionSnapshot] `gorm:"type:json" json:"questionsSnapshot"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
