package apperror

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation chuyển lỗi của ozzo-validation thành KindValidation với details theo field
// Lỗi không phải validation.Errors (vd. InternalError) được trả về nguyên vẹn
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return Validation(err.Error(), nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for field, fe := range fieldErrs {
		if fe != nil {
			details[field] = fe.Error()
		}
	}
	return Validation("Invalid input", details)
}
