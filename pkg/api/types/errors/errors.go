package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// error codes which MLflow server responds with.
const (
	CodeResourceDoesNotExist   = "RESOURCE_DOES_NOT_EXIST"
	CodeResourceAlreadyExists  = "RESOURCE_ALREADY_EXISTS"
	CodeInvalidParameterValue  = "INVALID_PARAMETER_VALUE"
	CodeInvalidState           = "INVALID_STATE"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeInternalError          = "INTERNAL_ERROR"
	CodeTemporarilyUnavailable = "TEMPORARILY_UNAVAILABLE"
	CodeRequestLimitExceeded   = "REQUEST_LIMIT_EXCEEDED"
	CodeBadRequest             = "BAD_REQUEST"
)

// ErrorMessage is the error payload of MLflow REST API.
type ErrorMessage struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`

	// http status code of the response carrying this message. Not on the wire.
	StatusCode int `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(bytes []byte) error {
	f := new(struct {
		ErrorCode *string `json:"error_code"`
		Message   *string `json:"message"`
	})
	if err := json.Unmarshal(bytes, f); err != nil {
		return err
	}

	if f.ErrorCode == nil {
		return fmt.Errorf(`required field missing: "error_code"`)
	}
	em.ErrorCode = *f.ErrorCode

	if f.Message != nil {
		em.Message = *f.Message
	}

	return nil
}

func (e *ErrorMessage) Error() string {
	if e.Message == "" {
		return e.ErrorCode
	}
	return e.ErrorCode + ": " + e.Message
}

// HasCode reports whether err is (or wraps) an ErrorMessage with the code.
func HasCode(err error, code string) bool {
	var em *ErrorMessage
	if !errors.As(err, &em) {
		return false
	}
	return em.ErrorCode == code
}

// IsNotFound reports whether err means a requested resource does not exist.
func IsNotFound(err error) bool {
	return HasCode(err, CodeResourceDoesNotExist)
}

// IsAlreadyExists reports whether err means a resource to be created exists already.
func IsAlreadyExists(err error) bool {
	return HasCode(err, CodeResourceAlreadyExists)
}
