package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind phân loại lý do một operation bị từ chối
type Kind string

const (
	KindNotFound            Kind = "NotFound"
	KindAlreadyReturned     Kind = "AlreadyReturned"
	KindOverBorrowLimit     Kind = "OverBorrowLimit"
	KindBookUnavailable     Kind = "BookUnavailable"
	KindUniquenessViolation Kind = "UniquenessViolation"
	KindValidation          Kind = "ValidationError"
	KindRecordInUse         Kind = "RecordInUse"
)

// Error là business rejection có cấu trúc
// Err (optional) giữ lỗi gốc, ví dụ *pgconn.PgError
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is cho phép errors.Is(err, &Error{Kind: KindNotFound}) so khớp theo Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// WithDetail trả về bản copy có thêm một detail
func (e *Error) WithDetail(key string, value any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(entity string, id any) *Error {
	return Newf(KindNotFound, "%s with id %v not found", entity, id)
}

func Validation(message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// As trả về *Error nếu err (hoặc lỗi nó wrap) là business rejection
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf trả về Kind của err, rỗng nếu là infrastructure error
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// IsKind checks whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus converts kind to HTTP status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyReturned, KindBookUnavailable, KindUniquenessViolation, KindRecordInUse:
		return http.StatusConflict
	case KindOverBorrowLimit:
		return http.StatusUnprocessableEntity
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Code converts kind to API error code
func Code(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "NOT_FOUND"
	case KindAlreadyReturned:
		return "ALREADY_RETURNED"
	case KindOverBorrowLimit:
		return "OVER_BORROW_LIMIT"
	case KindBookUnavailable:
		return "BOOK_UNAVAILABLE"
	case KindUniquenessViolation:
		return "UNIQUENESS_VIOLATION"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindRecordInUse:
		return "RECORD_IN_USE"
	default:
		return "INTERNAL_ERROR"
	}
}
