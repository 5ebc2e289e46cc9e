package model

import "time"

// StoryTTLMillis is the fixed story lifetime. ExpiryTime is always exactly
// Timestamp + StoryTTLMillis; there is no other expiry source.
const StoryTTLMillis int64 = 24 * 60 * 60 * 1000

// Story is an ephemeral post. Username is a weak reference to the owning
// profile, not ownership: deleting or renaming the profile does not touch
// stored stories.
type Story struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ImageURL   string `json:"imageUrl"`
	AudioURL   string `json:"audioUrl,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	ExpiryTime int64  `json:"expiryTime"`
}

// NewStory stamps a story created at the given instant. Expiry is derived
// from the creation timestamp, never from a running timer.
func NewStory(id, username, imageURL, audioURL string, createdAt time.Time) Story {
	ts := createdAt.UnixMilli()
	return Story{
		ID:         id,
		Username:   username,
		ImageURL:   imageURL,
		AudioURL:   audioURL,
		Timestamp:  ts,
		ExpiryTime: ts + StoryTTLMillis,
	}
}

// Active reports whether the story is still live at the given instant.
// Pure function of stored fields: correct even if no timer ever observed
// the story in the interim.
func (s Story) Active(now time.Time) bool {
	return now.UnixMilli() < s.ExpiryTime
}
