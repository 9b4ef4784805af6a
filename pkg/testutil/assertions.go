package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorContains checks that err is non-nil and mentions expected.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertErrorIs checks that err wraps target and mentions the wrapping step.
func AssertErrorIs(t *testing.T, err, target error, step string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %v to wrap %v", err, target)
	assert.Contains(t, err.Error(), step)
}
