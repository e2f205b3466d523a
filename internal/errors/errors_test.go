package errors_test

import (
	"fmt"
	"testing"

	"floatview/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileError(t *testing.T) {
	base := fmt.Errorf("permission denied")
	err := errors.NewFileError("cannot read image", "/tmp/a.png", errors.FileAccessDenied, base)

	assert.Contains(t, err.Error(), "cannot read image")
	assert.Contains(t, err.Error(), "/tmp/a.png")
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, "/tmp/a.png", err.Path())
	assert.Equal(t, errors.FileAccessDenied, err.Kind())
	assert.Equal(t, base, errors.Unwrap(err))
}

func TestKindPredicates(t *testing.T) {
	notFound := errors.NewFileError("file not found", "/tmp/x.png", errors.FileNotFound, nil)
	malformed := errors.NewFileError("unparsable path list", "/tmp/image_paths.json", errors.MalformedData, nil)
	badInput := errors.NewInvalidInputError("expected a list of image paths", nil)

	assert.True(t, errors.IsFileNotFound(notFound))
	assert.False(t, errors.IsFileNotFound(malformed))

	assert.True(t, errors.IsMalformedData(malformed))
	assert.False(t, errors.IsMalformedData(notFound))

	assert.True(t, errors.IsInvalidInput(badInput))
	assert.False(t, errors.IsInvalidInput(notFound))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := errors.NewInvalidInputError("empty path at index 2", nil)
	wrapped := errors.Wrap(inner, "publish failed")

	require.Error(t, wrapped)
	assert.True(t, errors.IsInvalidInput(wrapped))
	assert.Contains(t, wrapped.Error(), "publish failed")
	assert.Contains(t, wrapped.Error(), "empty path at index 2")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, errors.Wrap(nil, "ignored"))
	assert.NoError(t, errors.Wrapf(nil, "ignored %d", 1))
}

func TestConfigError(t *testing.T) {
	err := errors.NewConfigError("invalid configuration", "poll_interval_ms", errors.InvalidConfig, nil)
	assert.True(t, errors.IsInvalidConfig(err))
	assert.Equal(t, "poll_interval_ms", err.Param())
	assert.Contains(t, err.Error(), "poll_interval_ms")
}
