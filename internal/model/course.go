package model

// Course 课程目录。课程下的课时与测验是"需要完成什么"的唯一依据
// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Published   bool     `gorm:"default:false" json:"published"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	Quizzes     []Quiz   `gorm:"foreignKey:CourseID" json:"quizzes,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID  uint   `gorm:"index;not null" json:"courseId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	VideoURL  string `gorm:"size:512" json:"videoUrl"`
	Order     int    `gorm:"default:0" json:"order"`
	Published bool   `gorm:"default:true" json:"published"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID     uint       `gorm:"index;not null" json:"courseId"`
	LessonID     *uint      `gorm:"index" json:"lessonId,omitempty"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	IsPublished  bool       `gorm:"index;default:false" json:"isPublished"`
	PassingScore float64    `gorm:"default:70" json:"passingScore"`
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
