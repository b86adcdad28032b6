// Package cui provides errors presented to humans on the console.
//
// A CUI error has a short summary, labelled fields, an optional detail printer and a cause.
// Errors from MLflow server are built with ServerError, which shows the error code
// and the server message as fields.
package cui

import (
	"fmt"
	"net/http"
	"strings"

	apierr "github.com/aesdk/mlflowsdk/pkg/api/types/errors"
)

type Verbose interface {
	Verbose() string
}

type Error interface {
	error
	Verbose
}

type field struct {
	label string
	value string
}

type cuierror struct {
	summary     string
	verbose     string
	fields      []field
	printDetail func(summary string) (string, error)
	base        error
}

func (ce *cuierror) Unwrap() error {
	return ce.base
}

func (ce *cuierror) Error() string {
	message := ce.summary
	if ce.printDetail != nil {
		m, err := ce.printDetail(ce.summary)
		if err != nil {
			m = fmt.Sprintf(
				"%s\n(building detailed message causes error: %s)",
				ce.summary, err.Error(),
			)
		}
		message = m
	}
	if len(ce.fields) == 0 {
		return message
	}

	width := 0
	for _, f := range ce.fields {
		width = max(width, len(f.label))
	}
	lines := []string{message}
	for _, f := range ce.fields {
		lines = append(lines, fmt.Sprintf("    %-*s %s", width+1, f.label+":", f.value))
	}
	return strings.Join(lines, "\n")
}

func (ce *cuierror) Verbose() string {
	message := []string{ce.Error()}
	if ce.verbose != "" {
		message = append(message, " ("+ce.verbose+") ")
	}

	switch base := ce.base.(type) {
	case nil:
		// no-op
	case Verbose:
		message = append(message, "caused by: ", base.Verbose())
	default:
		message = append(message, "caused by: ", base.Error())
	}
	return strings.Join(message, "\n")
}

type Option func(cerr *cuierror) *cuierror

func New(summary string, options ...Option) Error {
	err := &cuierror{summary: summary}
	for _, o := range options {
		err = o(err)
	}
	return err
}

func WithVerbose(verbose string) Option {
	return func(cerr *cuierror) *cuierror {
		cerr.verbose = verbose
		return cerr
	}
}

func WithDetail(printer func(summary string) (string, error)) Option {
	return func(cerr *cuierror) *cuierror {
		cerr.printDetail = printer
		return cerr
	}
}

// WithDetailText appends detail below the summary.
func WithDetailText(detail string) Option {
	return WithDetail(func(summary string) (string, error) {
		return summary + "\n" + detail, nil
	})
}

func WithCause(err error) Option {
	return func(cerr *cuierror) *cuierror {
		cerr.base = err
		return cerr
	}
}

// WithField adds a line "<label>: <value>" below the summary and the detail.
//
// Fields are printed in the order they are given, with values aligned.
func WithField(label, value string) Option {
	return func(cerr *cuierror) *cuierror {
		cerr.fields = append(cerr.fields, field{label: label, value: value})
		return cerr
	}
}

// ServerError builds an error for an error response from MLflow server.
//
// The returned error wraps em, and prints its error code, http status and message as fields.
func ServerError(summary string, em *apierr.ErrorMessage, options ...Option) Error {
	opts := []Option{WithCause(em), WithField("error code", em.ErrorCode)}
	if em.StatusCode != 0 {
		opts = append(opts, WithField(
			"status", strings.TrimSpace(fmt.Sprintf("%d %s", em.StatusCode, http.StatusText(em.StatusCode))),
		))
	}
	if em.Message != "" {
		opts = append(opts, WithField("message", em.Message))
	}
	return New(summary, append(opts, options...)...)
}
