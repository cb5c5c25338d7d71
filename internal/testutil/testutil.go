package testutil

import (
	"access_edu_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory SQLite database with every table migrated.
// A single connection is used so all queries see the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CourseFixture describes the catalog rows created by SeedCourse.
type CourseFixture struct {
	Course    model.Course
	Lessons   []model.Lesson
	Quizzes   []model.Quiz
	Questions map[uint][]model.Question // quiz ID -> questions
}

// SeedCourse creates a course with the given number of lessons and one published quiz
// per entry in quizTopics. Each quiz gets one question per topic, correct option "A".
func SeedCourse(t *testing.T, db *gorm.DB, lessons int, quizTopics ...[]string) *CourseFixture {
	f := &CourseFixture{
		Course:    model.Course{Title: "Accessible Web Basics", Published: true},
		Questions: make(map[uint][]model.Question),
	}
	require.NoError(t, db.Create(&f.Course).Error)

	for i := 0; i < lessons; i++ {
		lesson := model.Lesson{CourseID: f.Course.ID, Title: "Lesson", Order: i + 1, Published: true}
		require.NoError(t, db.Create(&lesson).Error)
		f.Lessons = append(f.Lessons, lesson)
	}

	for _, topics := range quizTopics {
		quiz := model.Quiz{CourseID: f.Course.ID, Title: "Quiz", IsPublished: true, PassingScore: 70}
		require.NoError(t, db.Create(&quiz).Error)
		for i, topic := range topics {
			q := model.Question{
				QuizID:        quiz.ID,
				Prompt:        "Question about " + topic,
				Options:       []string{"A", "B", "C", "D"},
				CorrectOption: "A",
				TopicTag:      topic,
				Order:         i + 1,
			}
			require.NoError(t, db.Create(&q).Error)
			f.Questions[quiz.ID] = append(f.Questions[quiz.ID], q)
		}
		f.Quizzes = append(f.Quizzes, quiz)
	}

	return f
}
