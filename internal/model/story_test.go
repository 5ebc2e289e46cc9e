package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStory_ExpiryExactlyTwentyFourHours(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStory("s1", "alice", "a.jpg", "track.mp3", createdAt)

	assert.Equal(t, createdAt.UnixMilli(), s.Timestamp)
	assert.Equal(t, int64(86_400_000), s.ExpiryTime-s.Timestamp)
}

func TestStory_ActiveIsPureFunctionOfStoredFields(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStory("s1", "alice", "a.jpg", "", createdAt)

	assert.True(t, s.Active(createdAt))
	assert.True(t, s.Active(createdAt.Add(time.Hour)))
	assert.True(t, s.Active(createdAt.Add(24*time.Hour-time.Millisecond)))
	assert.False(t, s.Active(createdAt.Add(24*time.Hour)), "boundary instant is expired")
	assert.False(t, s.Active(createdAt.Add(25*time.Hour)))
}
