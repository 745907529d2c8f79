package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(0)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := NewRefreshToken(16)
	require.NoError(t, err)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a[:32], b)
}

func TestNewPaymentReference(t *testing.T) {
	re := regexp.MustCompile(`^MC-[0-9A-F]{12}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewPaymentReference()
		assert.Regexp(t, re, ref)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
