package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrTestNotFound         = errors.New("test not found")
	ErrTestNotPublished     = errors.New("test not published or not accessible")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptCompleted     = errors.New("attempt already completed")
	ErrQuestionNotInAttempt = errors.New("question does not belong to this attempt")
	ErrNoAnswerSelected     = errors.New("no answer selected")
	ErrAnswerSetIncomplete  = errors.New("answer set incomplete")
	ErrCourseNotFound       = errors.New("course not found")
	ErrProblemNotFound      = errors.New("practice problem not found")
	ErrVideoNotFound        = errors.New("video not found")
)
