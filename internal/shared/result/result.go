package result

import (
	"library-backend/internal/shared/apperror"
)

// Result là outcome của một workflow: data khi thành công,
// hoặc error kind + message khi bị từ chối
type Result[T any] struct {
	Success      bool           `json:"success"`
	Data         T              `json:"data,omitempty"`
	ErrorKind    apperror.Kind  `json:"error_kind,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail[T any](kind apperror.Kind, message string) Result[T] {
	return Result[T]{ErrorKind: kind, ErrorMessage: message}
}

// FromError chuyển business rejection thành Result
// ok = false nếu err là infrastructure error, caller phải trả err lên
func FromError[T any](err error) (Result[T], bool) {
	appErr, ok := apperror.As(err)
	if !ok {
		return Result[T]{}, false
	}
	r := Fail[T](appErr.Kind, appErr.Message)
	r.Details = appErr.Details
	return r, true
}

// Err trả về rejection dưới dạng *apperror.Error, nil nếu thành công
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &apperror.Error{Kind: r.ErrorKind, Message: r.ErrorMessage, Details: r.Details}
}
