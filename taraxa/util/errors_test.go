package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	assert := assert.New(t)
	var caught error
	func() {
		defer Recover(CatchAnyErr(func(err error) { caught = err }))
		panic("boom")
	}()
	assert.EqualError(caught, "boom")

	sentinel := errors.New("sentinel")
	func() {
		defer Recover(CatchAnyErr(func(err error) { caught = err }))
		PanicIfNotNil(sentinel)
	}()
	assert.Equal(sentinel, caught)

	assert.NotPanics(func() {
		defer Recover()
		panic("swallowed")
	})
	assert.Panics(func() {
		defer Recover(func(Any) bool { return false })
		panic("not matched")
	})
}

func TestIsReallyNil(t *testing.T) {
	assert := assert.New(t)
	var nil_err *struct{ error }
	assert.True(IsReallyNil(nil))
	assert.True(IsReallyNil(nil_err))
	assert.True(IsReallyNil([]byte(nil)))
	assert.False(IsReallyNil(0))
	assert.NotPanics(func() { PanicIfNotNil(nil_err) })
}
