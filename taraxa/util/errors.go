package util

import (
	"fmt"
)

type ErrorHandler = func(error)
type Predicate = func(caught Any) bool

// CatchAnyErr matches every recovered value. Non-error values are wrapped
// so that handlers always receive an error.
func CatchAnyErr(handlers ...ErrorHandler) Predicate {
	return func(caught Any) bool {
		err, is_err := caught.(error)
		if !is_err {
			err = fmt.Errorf("%v", caught)
		}
		for _, handler := range handlers {
			handler(err)
		}
		return true
	}
}

// Recover must be deferred directly. Without filters everything is swallowed,
// otherwise values no filter matches are re-panicked.
func Recover(filters ...Predicate) (caught Any) {
	if caught = recover(); caught == nil || len(filters) == 0 {
		return
	}
	for _, filter := range filters {
		if filter(caught) {
			return
		}
	}
	panic(caught)
}
