package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
)

var (
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrWildcardPosition = errors.New("wildcard position must be last")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
	ErrParamConflict    = errors.New("conflicting parameter name")
)

// Routing outcomes. Both report their status through StatusCode.
var (
	ErrNotFound         error = routeError(http.StatusNotFound)
	ErrMethodNotAllowed error = routeError(http.StatusMethodNotAllowed)
)

type routeError int

func (e routeError) Error() string   { return http.StatusText(int(e)) }
func (e routeError) StatusCode() int { return int(e) }

// defaultErrorHandler answers in plain text with the status reported by
// err's StatusCode method, or 500.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if Written(w) {
		return
	}

	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}

// PanicError is a recovered panic. Unwrap exposes the value when it is an error.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError wraps a recovered panic value and the stack captured at recovery.
func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
