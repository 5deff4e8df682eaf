package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSessionIdUnique(t *testing.T) {
	a := NewSessionId()
	b := NewSessionId()
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestUserIdString(t *testing.T) {
	require.Equal(t, "user-42", UserId(42).String())
}
