package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load record: %w", ErrNotFound)

	got := FromError(wrapped)
	require.Equal(t, http.StatusNotFound, got.Status)
	require.Equal(t, "Not found", got.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("disk full"))
	require.Equal(t, http.StatusInternalServerError, got.Status)
	require.Equal(t, ErrInternal.Code, got.Code)
	require.Contains(t, got.Error(), "disk full")
	require.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	clone := Clone(ErrValidation, "name is required")
	require.True(t, errors.Is(clone, ErrValidation))
	require.False(t, errors.Is(clone, ErrNotFound))

	wrapped := Wrap(errors.New("eof"), ErrInvalidJSON.Code, ErrInvalidJSON.Status, ErrInvalidJSON.Message)
	require.True(t, errors.Is(wrapped, ErrInvalidJSON))
	require.Equal(t, "Invalid JSON: eof", wrapped.Error())
}
