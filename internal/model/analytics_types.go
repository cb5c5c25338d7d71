package model

// WeakTopic 薄弱知识点及其在统计窗口内的错误次数
type WeakTopic struct {
	Topic      string `json:"topic"`
	ErrorCount int    `json:"errorCount"`
}

// WeakTopicReport 薄弱知识点分析结果
type WeakTopicReport struct {
	CourseID   uint        `json:"courseId"`
	WeakTopics []WeakTopic `json:"weakTopics"`
	Feedback   string      `json:"feedback"`
}

// ImprovementTrend 与上一次作答相比的分数变化，Delta 为空表示没有可比较的历史记录
type ImprovementTrend struct {
	QuizID        uint     `json:"quizId"`
	CurrentScore  float64  `json:"currentScore"`
	PreviousScore *float64 `json:"previousScore"`
	Delta         *float64 `json:"delta"`
}

// CompletionStatus 课程完成情况的一次快照，每次都根据当前课程目录重新计算
type CompletionStatus struct {
	RequiredLessons  int `json:"requiredLessons"`
	CompletedLessons int `json:"completedLessons"`
	RequiredQuizzes  int `json:"requiredQuizzes"`
	PassedQuizzes    int `json:"passedQuizzes"`
	// QuizzesChecked 为 false 表示课时未全部完成，测验条件没有被评估
	QuizzesChecked bool `json:"quizzesChecked"`
}

// LessonsDone 所有课时均已完成
func (s CompletionStatus) LessonsDone() bool {
	return s.CompletedLessons >= s.RequiredLessons
}

// QuizzesDone 所有已发布测验均至少通过一次
func (s CompletionStatus) QuizzesDone() bool {
	return s.QuizzesChecked && s.PassedQuizzes >= s.RequiredQuizzes
}

// Eligible 满足结业条件，没有课时或已发布测验时对应条件视为已满足
func (s CompletionStatus) Eligible() bool {
	return s.LessonsDone() && s.QuizzesDone()
}

type CertificateStatus string

const (
	CertificateNotEligible       CertificateStatus = "not_eligible"
	CertificateIssued            CertificateStatus = "issued"
	CertificatePersistenceFailed CertificateStatus = "persistence_failed"
)

// CertificateResult 结业校验结果
type CertificateResult struct {
	Status      CertificateStatus `json:"status"`
	Completion  CompletionStatus  `json:"completion"`
	Certificate *Certificate      `json:"certificate,omitempty"`
}

// Issued 证书已确定存在
func (r CertificateResult) Issued() bool {
	return r.Status == CertificateIssued
}

// CourseProgress 课程进度概览
type CourseProgress struct {
	CourseID    uint             `json:"courseId"`
	Completion  CompletionStatus `json:"completion"`
	Percent     float64          `json:"percent"`
	Certificate *Certificate     `json:"certificate,omitempty"`
}
