// Package try shortens handling of (value, error) pairs where an error is fatal,
// like setup steps of tests and commands.
package try

// Fataler has method `Fatal`.
//
// For example: *testing.T, *log.Logger or *zap.SugaredLogger
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of a value and an error.
//
// When the error is nil, the value is valid.
type Either[T any] interface {
	// Get returns the pair as it is.
	Get() (T, error)

	// OrFatal returns the value if there is no error.
	//
	// Otherwise, it calls ftl.Fatal(err) and returns the zero value.
	// If ftl has a "Helper()" method (like *testing.T), it is called before Fatal.
	OrFatal(ftl Fataler) T

	// OrDefault returns the value if there is no error, or d otherwise.
	OrDefault(d T) T
}

// To wraps a pair of (value, error), typically a return value of a function.
//
//	profile := try.To(profiles.LoadProfileStore(path)).OrFatal(t)
func To[T any](value T, err error) Either[T] {
	return either[T]{value: value, err: err}
}

type either[T any] struct {
	value T
	err   error
}

func (e either[T]) Get() (T, error) {
	if e.err != nil {
		return *new(T), e.err
	}
	return e.value, nil
}

func (e either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}

func (e either[T]) OrFatal(ftl Fataler) T {
	if e.err == nil {
		return e.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T)
}
