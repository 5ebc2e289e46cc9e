package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelvault/reelvault/internal/model"
)

var storyEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestStoryStore_AddPrependsAndPersists(t *testing.T) {
	kv := newFaultRW()
	s := NewStoryStore(kv)
	ctx := context.Background()

	s.Add(ctx, model.NewStory("s1", "alice", "a.jpg", "", storyEpoch))
	got := s.Add(ctx, model.NewStory("s2", "alice", "b.jpg", "", storyEpoch.Add(time.Minute)))

	require.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].ID)
	assert.Contains(t, kv.values[KeyStories], "s1")
	assert.Contains(t, kv.values[KeyStories], "s2")
}

func TestStoryStore_ActiveIsReadTimeFilter(t *testing.T) {
	kv := newFaultRW()
	s := NewStoryStore(kv)
	ctx := context.Background()

	s.Add(ctx, model.NewStory("s1", "alice", "a.jpg", "", storyEpoch))

	assert.Len(t, s.Active(ctx, storyEpoch.Add(time.Hour)), 1)
	assert.Empty(t, s.Active(ctx, storyEpoch.Add(25*time.Hour)))

	// Expiry excludes from active queries without deleting anything.
	assert.Len(t, s.Load(ctx), 1)
}

func TestStoryStore_PruneDropsExpired(t *testing.T) {
	kv := newFaultRW()
	s := NewStoryStore(kv)
	ctx := context.Background()

	s.Add(ctx, model.NewStory("old", "alice", "a.jpg", "", storyEpoch))
	s.Add(ctx, model.NewStory("new", "alice", "b.jpg", "", storyEpoch.Add(12*time.Hour)))

	kept := s.Prune(ctx, storyEpoch.Add(30*time.Hour))

	require.Len(t, kept, 1)
	assert.Equal(t, "new", kept[0].ID)
	assert.NotContains(t, kv.values[KeyStories], "old")
	assert.Len(t, s.Load(ctx), 1)
}

func TestStoryStore_CorruptCollectionYieldsEmpty(t *testing.T) {
	kv := newFaultRW()
	kv.values[KeyStories] = `broken`
	s := NewStoryStore(kv)

	assert.Empty(t, s.Load(context.Background()))
}

func TestStoryStore_FaultsDoNotEscape(t *testing.T) {
	kv := newFaultRW()
	kv.failReads = true
	kv.failWrites = true
	s := NewStoryStore(kv)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		assert.Empty(t, s.Load(ctx))
		s.Add(ctx, model.NewStory("s1", "alice", "a.jpg", "", storyEpoch))
	})
}
