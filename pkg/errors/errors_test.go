package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/campainly/campaigner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError(t *testing.T) {
	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := pkgerrors.WrapTransport("/chat", cause)
		assert.Contains(t, err.Error(), "/chat")
		assert.Contains(t, err.Error(), "connection refused")
		assert.True(t, errors.Is(err, cause))
		assert.True(t, pkgerrors.IsTransport(err))
		assert.True(t, pkgerrors.IsBackendFailure(err))
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapTransport("/chat", nil))
	})
}

func TestAPIError(t *testing.T) {
	err := pkgerrors.NewAPIError("/ads", 502, "bad gateway")
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "bad gateway")
	assert.True(t, pkgerrors.IsStatus(err))
	assert.False(t, pkgerrors.IsTransport(err))

	wrapped := fmt.Errorf("upload: %w", err)
	var apiErr *pkgerrors.APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, 502, apiErr.StatusCode)
}

func TestParseError(t *testing.T) {
	err := pkgerrors.WrapParse("json", "chat response", errors.New("unexpected EOF"))
	assert.Equal(t, "json parse error in chat response: unexpected EOF", err.Error())
	assert.True(t, pkgerrors.IsMalformed(err))
	assert.True(t, pkgerrors.IsBackendFailure(err))
}

func TestAuthRequiredError(t *testing.T) {
	err := &pkgerrors.AuthRequiredError{Operation: "campaign save"}
	assert.Contains(t, err.Error(), "campaign save")
	assert.True(t, pkgerrors.IsAuthRequired(err))
	assert.False(t, pkgerrors.IsBackendFailure(err))
}

func TestPopupBlockedError(t *testing.T) {
	cause := errors.New("no browser")
	err := &pkgerrors.PopupBlockedError{URL: "https://example.com", Err: cause}
	assert.True(t, pkgerrors.IsPopupBlocked(err))
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Equal(t, "could not open login window", (&pkgerrors.PopupBlockedError{}).Error())
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("email", "x", "invalid address")
		assert.Equal(t, "validation failed for field email: invalid address", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty form"}
		assert.Equal(t, "validation failed: empty form", err.Error())
	})
}

func TestIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "/tmp/state.yaml", cause)
	ioErr, ok := err.(*pkgerrors.IOError)
	require.True(t, ok)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Contains(t, err.Error(), "/tmp/state.yaml")
	assert.Equal(t, cause, ioErr.Unwrap())
}
