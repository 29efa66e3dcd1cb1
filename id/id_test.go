package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUniqueAndSorted(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	prev := ""
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		got := New(ts)
		assert.True(t, Valid(got))
		assert.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-ulid"))
	assert.True(t, Valid(New(time.Now())))
}
