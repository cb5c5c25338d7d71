package util

import "errors"

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizNotPublished    = errors.New("quiz not published")
	ErrEmptySubmission     = errors.New("submission contains no answers")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrAttemptNumberTaken  = errors.New("attempt number already taken")
	ErrInvalidScore        = errors.New("score must be between 0 and 100")
	ErrQuizHasNoQuestions  = errors.New("quiz has no questions")
)
