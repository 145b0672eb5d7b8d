package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers. Not-found errors
// cover both true absence and rows owned by another user, so ownership can
// never be probed through status codes.
var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrSessionExpired     = errors.New("会话已过期")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrTodoNotFound       = errors.New("待办事项不存在")
	ErrCategoryNotFound   = errors.New("分类不存在")
	ErrCategoryNameTaken  = errors.New("分类名称已存在")
	ErrReportNotFound     = errors.New("报告不存在")
)

// ValidationError carries the first failed-check message for a 400 response,
// in the application's display language.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
