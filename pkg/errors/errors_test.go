package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOfUnwrapsChain(t *testing.T) {
	base := New(CodeNotFound, "project not found")
	wrapped := fmt.Errorf("handler: %w", base)

	require.True(t, IsCode(wrapped, CodeNotFound))
	require.Equal(t, CodeNotFound, CodeOf(wrapped))
	require.Equal(t, "project not found", MessageOf(wrapped, "fallback"))
}

func TestCodeOfPlainError(t *testing.T) {
	err := fmt.Errorf("boom")
	require.Equal(t, CodeUnknown, CodeOf(err))
	require.Equal(t, "fallback", MessageOf(err, "fallback"))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(cause, CodeUpstream, "upstream request failed").WithMeta("status", 502)

	require.ErrorIs(t, err, cause)
	require.Equal(t, 502, err.Meta["status"])
	require.Contains(t, err.Error(), "upstream: upstream request failed: dial tcp: refused")
}

func TestWrapNil(t *testing.T) {
	err := Wrap(nil, CodeInvalid, "bad input")
	require.Nil(t, err.Err)
	require.Equal(t, "invalid: bad input", err.Error())
}
