package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizNotPublished     = errors.New("quiz not published or not accessible")
	ErrQuizAlreadyTaken     = errors.New("quiz already submitted")
	ErrQuizNotStarted       = errors.New("quiz attempt not started")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrNoFileSelected       = errors.New("no file selected")
	ErrBadFileFormat        = errors.New("file format not accepted for this assignment")
	ErrDeadlinePassed       = errors.New("deadline passed and no prior submission to replace")
	ErrGradeOutOfRange      = errors.New("grade must be between 0 and 10")
	ErrInvalidTimeLimit     = errors.New("time limit must be HH:mm:ss or mm:ss")
	ErrQuestionNeedsOptions = errors.New("question needs at least two options")
	ErrCorrectIndexInvalid  = errors.New("correct option index out of range")
)
