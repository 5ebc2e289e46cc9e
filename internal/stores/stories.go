package stores

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/reelvault/reelvault/internal/kvstore"
	"github.com/reelvault/reelvault/internal/model"
)

// StoryStore manages the ephemeral story collection under KeyStories.
//
// Expiry is a read-time filter, not a background eviction: nothing deletes a
// story when it expires, Active simply stops returning it. Prune exists so
// expired entries can eventually be dropped without affecting invariants.
type StoryStore struct {
	kv kvstore.RW
}

// NewStoryStore creates a story store over the given medium.
func NewStoryStore(kv kvstore.RW) *StoryStore {
	return &StoryStore{kv: kv}
}

// Load returns every stored story, expired or not, in stored order
// (most-recent-first, since writes prepend). Never fails outward.
func (s *StoryStore) Load(ctx context.Context) []model.Story {
	raw, ok, err := s.kv.Get(ctx, KeyStories)
	if err != nil {
		slog.Error("story store: read failed, using empty collection", "error", err)
		return []model.Story{}
	}
	if !ok {
		return []model.Story{}
	}

	var stories []model.Story
	if err := json.Unmarshal([]byte(raw), &stories); err != nil {
		slog.Error("story store: corrupt collection, using empty collection", "error", err)
		return []model.Story{}
	}
	return stories
}

// Active returns the stories still live at the given instant.
func (s *StoryStore) Active(ctx context.Context, now time.Time) []model.Story {
	stored := s.Load(ctx)
	active := make([]model.Story, 0, len(stored))
	for _, st := range stored {
		if st.Active(now) {
			active = append(active, st)
		}
	}
	return active
}

// Add prepends st to the collection, persists, and returns the full stored
// collection (including any expired entries — filtering is Active's job).
func (s *StoryStore) Add(ctx context.Context, st model.Story) []model.Story {
	updated := append([]model.Story{st}, s.Load(ctx)...)
	s.persist(ctx, updated)
	return updated
}

// Prune drops stories expired at the given instant, persists the remainder,
// and returns it.
func (s *StoryStore) Prune(ctx context.Context, now time.Time) []model.Story {
	kept := s.Active(ctx, now)
	s.persist(ctx, kept)
	return kept
}

func (s *StoryStore) persist(ctx context.Context, stories []model.Story) {
	data, err := json.Marshal(stories)
	if err != nil {
		slog.Error("story store: marshal failed, collection not persisted", "error", err)
		return
	}
	if err := s.kv.Put(ctx, KeyStories, string(data)); err != nil {
		slog.Error("story store: write failed, collection not persisted", "error", err)
	}
}
