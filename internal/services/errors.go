package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrEligibility  ErrorCode = "ELIGIBILITY_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrConflict     ErrorCode = "CONFLICT"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"
	ErrPayment      ErrorCode = "PAYMENT_ERROR"
	ErrGateway      ErrorCode = "GATEWAY_ERROR"
	ErrDatabase     ErrorCode = "DATABASE_ERROR"
)

// ServiceError is returned by every service method for failures the caller
// should see. Message is safe to show to the end user; Details is not.
type ServiceError struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
	Details error     `json:"-"`
}

func (e *ServiceError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Code)
}

func (e *ServiceError) Unwrap() error { return e.Details }

func NewServiceError(message string, code ErrorCode, details error) *ServiceError {
	return &ServiceError{
		Message: message,
		Code:    code,
		Details: details,
	}
}

func validation(format string, args ...any) *ServiceError {
	return NewServiceError(fmt.Sprintf(format, args...), ErrValidation, nil)
}

func dbError(message string, err error) *ServiceError {
	return NewServiceError(message, ErrDatabase, err)
}

// Helper functions for error checking
func IsServiceError(err error) bool {
	var serr *ServiceError
	return errors.As(err, &serr)
}

func GetErrorCode(err error) ErrorCode {
	var serr *ServiceError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ""
}
