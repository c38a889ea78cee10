package util

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrNoLearningPath       = errors.New("no learning path found for the user")
	ErrLearningPathExists   = errors.New("learning path already exists for the user")
	ErrSubjectExists        = errors.New("subject already exists")
	ErrNoQuestionsAvailable = errors.New("no new questions found for the current level")
	ErrValidation           = errors.New("validation failed")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
)
