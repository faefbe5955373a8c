package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates contract")
	ErrValidation      = errors.New("validation failed")
)
