package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequenceContinuesAfterSeed(t *testing.T) {
	seq := NewSequence("CASE", 3, true).WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	})
	seq.Observe("CASE-2023-010", "CASE-2024-004", "EV-2024-099", "CASE-2024-x")

	assert.Equal(t, "CASE-2024-011", seq.Next())
	assert.Equal(t, "CASE-2024-012", seq.Next())
}

func TestSequenceWithoutYear(t *testing.T) {
	seq := NewSequence("USR", 3, false)
	seq.Observe("USR-008")
	assert.Equal(t, "USR-009", seq.Next())

	wide := NewSequence("AUD", 5, false)
	assert.Equal(t, "AUD-00001", wide.Next())
}
