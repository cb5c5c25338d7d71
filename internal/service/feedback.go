package service

import (
	"access_edu_backend/internal/model"
	"fmt"
)

const noWeakTopicsFeedback = "Great work! Your recent quizzes show no weak topics. Keep up the steady progress."

// GenerateFeedback 根据薄弱知识点生成学习建议。
// weakTopics 需已按错误次数倒序排列，多于两个时只提及前两个
func GenerateFeedback(weakTopics []model.WeakTopic) string {
	switch len(weakTopics) {
	case 0:
		return noWeakTopicsFeedback
	case 1:
		return fmt.Sprintf("Consider reviewing %s. Revisit the related lessons and try the practice questions again.",
			weakTopics[0].Topic)
	default:
		return fmt.Sprintf("Focus on %s and %s next. These topics had the most mistakes in your recent attempts.",
			weakTopics[0].Topic, weakTopics[1].Topic)
	}
}
