package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoreError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CoreError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeContractViolation, "refine past max level"),
			expected: "[CONTRACT_VIOLATION] refine past max level",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeIOError, "checkpoint load failed", errors.New("connection refused")),
			expected: "[IO_ERROR] checkpoint load failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestCoreError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeIOError, "blob store failed", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestCoreError_Is(t *testing.T) {
	err1 := New(CodeContractViolation, "error 1")
	err2 := New(CodeContractViolation, "error 2")
	err3 := New(CodeIOError, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"not found", ErrNotFound, true},
		{"wrapped not found", Wrap(CodeNotFound, "snapshot missing", errors.New("pg: no rows")), true},
		{"other error", ErrIOError, false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestIsIOError(t *testing.T) {
	assert.True(t, IsIOError(ErrIOError))
	assert.False(t, IsIOError(ErrNotFound))
}

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"core error", New(CodeContractViolation, "bad face index"), CodeContractViolation},
		{"wrapped core error", Wrap(CodeIOError, "upload", errors.New("inner")), CodeIOError},
		{"standard error", errors.New("standard error"), CodeUnknown},
		{"nil error", nil, CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Code(tt.err))
		})
	}
}
