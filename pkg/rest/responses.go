package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apierr "github.com/aesdk/mlflowsdk/pkg/api/types/errors"
	"github.com/aesdk/mlflowsdk/pkg/errors/cui"
)

// MessageFor gives summaries of errors for each range of status code.
type MessageFor map[StatusCodeRange]string

// unmarshal http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be.
//   - messageFor: title of error message for HTTP status code range.
//
// return:
//
//	error if...
//	- can not read response body
//	- response body is not shaped of v
//	- status code is in 4xx or 5xx
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr == Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			message := fmt.Sprintf("unexpected response: %s (status code = %d)", err.Error(), resp.StatusCode)
			return cui.New(message, cui.WithCause(err))
		}
		return nil
	}
	return errorResponse(resp, messageFor)
}

func unmarshalStreamResponse(resp *http.Response, messageFor MessageFor) (io.ReadCloser, error) {
	if StatusCodeRangeOf(resp) == Status2xx {
		return resp.Body, nil
	}
	return nil, errorResponse(resp, messageFor)
}

func unmarshalResponseDiscardingPayload(resp *http.Response, messageFor MessageFor) error {
	rc, err := unmarshalStreamResponse(resp, messageFor)
	if rc != nil {
		io.Copy(io.Discard, rc)
	}
	return err
}

// errorResponse builds an error from non-2xx response.
//
// The error wraps *apierr.ErrorMessage. When the body is not MLflow error payload,
// the error code is guessed from the status code.
func errorResponse(resp *http.Response, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	message, ok := messageFor[scr]
	if !ok {
		message = fmt.Sprintf("%s (status code = %d)", scr, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cui.ServerError(
			message,
			&apierr.ErrorMessage{ErrorCode: codeForStatus(resp.StatusCode), StatusCode: resp.StatusCode},
			cui.WithField("message", "cannot be read: "+err.Error()),
		)
	}

	em := parseErrorMessage(body)
	if em == nil {
		em = &apierr.ErrorMessage{
			ErrorCode: codeForStatus(resp.StatusCode),
			Message:   string(body),
		}
	}
	em.StatusCode = resp.StatusCode

	return cui.ServerError(message, em)
}

func parseErrorMessage(body []byte) *apierr.ErrorMessage {
	em := new(apierr.ErrorMessage)
	if err := json.Unmarshal(body, em); err != nil {
		return nil
	}
	return em
}

func codeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return apierr.CodeBadRequest
	case http.StatusUnauthorized:
		return apierr.CodeUnauthenticated
	case http.StatusForbidden:
		return apierr.CodePermissionDenied
	case http.StatusNotFound:
		return apierr.CodeResourceDoesNotExist
	case http.StatusConflict:
		return apierr.CodeResourceAlreadyExists
	case http.StatusTooManyRequests:
		return apierr.CodeRequestLimitExceeded
	case http.StatusServiceUnavailable:
		return apierr.CodeTemporarilyUnavailable
	default:
		return apierr.CodeInternalError
	}
}
