package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	base := New(CodeConflict, "duplicate email")
	wrapped := fmt.Errorf("create: %w", base)

	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeConflict))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "list consultants failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal: list consultants failed: connection reset", err.Error())
	assert.Equal(t, "not_found: gone", New(CodeNotFound, "gone").Error())
}

func TestIsMatchesSentinel(t *testing.T) {
	sentinel := New(CodeForbidden, "built-in records cannot be deleted")
	other := New(CodeForbidden, "built-in records cannot be deleted")

	assert.ErrorIs(t, fmt.Errorf("delete: %w", other), sentinel)
	assert.NotErrorIs(t, New(CodeForbidden, "something else"), sentinel)
}

func TestWithMetaCopies(t *testing.T) {
	sentinel := New(CodeInvalid, "missing required fields")
	withFields := sentinel.WithMeta("fields", []string{"firm"})

	assert.Nil(t, sentinel.Meta)
	assert.Equal(t, []string{"firm"}, withFields.Meta["fields"])

	ae, ok := As(fmt.Errorf("wrap: %w", withFields))
	assert.True(t, ok)
	assert.Same(t, withFields, ae)
}
