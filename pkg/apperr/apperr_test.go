package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfSeesThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "Lead not found")
	wrapped := fmt.Errorf("convert lead 7: %w", base)

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "Lead not found", MessageOf(wrapped))
}

func TestCodeOfPlainError(t *testing.T) {
	err := errors.New("connection reset")
	assert.Equal(t, Code(""), CodeOf(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "connection reset", MessageOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(CodeUnavailable, "database unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeUnavailable, CodeOf(err))
	assert.Contains(t, err.Error(), "database unreachable")
	assert.Contains(t, err.Error(), "dial tcp: refused")
}
