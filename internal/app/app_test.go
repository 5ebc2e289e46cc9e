package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelvault/reelvault/internal/caption"
	"github.com/reelvault/reelvault/internal/kvstore"
	"github.com/reelvault/reelvault/internal/model"
	"github.com/reelvault/reelvault/internal/stores"
	"github.com/reelvault/reelvault/internal/testutil"
)

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const seedProfileJSON = `{"id":"profile-1","username":"ana","bio":"","profilePicture":"me.png","displayId":"1234567","followersCount":0,"isFollowing":false}`

func newTestKV(t *testing.T) *kvstore.Store {
	t.Helper()
	kv, err := kvstore.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func seedProfile(t *testing.T, kv *kvstore.Store) {
	t.Helper()
	require.NoError(t, kv.Put(context.Background(), stores.KeyProfile, seedProfileJSON))
}

func seedVideos(t *testing.T, kv *kvstore.Store, videos ...model.Video) {
	t.Helper()
	require.NoError(t, stores.WriteVideos(context.Background(), kv, videos))
}

func TestLoad_EmptyDatabase(t *testing.T) {
	kv := newTestKV(t)
	a := New(kv, WithClock(testutil.NewFixedClock(testEpoch)))

	state := a.Load(context.Background())

	assert.Empty(t, state.Videos)
	assert.Empty(t, state.Stories)
	assert.Empty(t, state.Liked)
	assert.Equal(t, ViewFeed, state.View)
	// Profile was lazily synthesized.
	assert.NotEmpty(t, state.Profile.DisplayID)
	assert.Equal(t, model.DefaultUsername, state.Profile.Username)
}

func TestPublishVideo_StampsAndNavigates(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	a := New(kv,
		WithClock(testutil.NewFixedClock(testEpoch)),
		WithIDGenerator(NewFixedGenerator("video-0001")),
	)
	ctx := context.Background()
	a.Load(ctx)
	a.SetView(ViewUpload)

	state, err := a.PublishVideo(ctx, VideoDraft{
		Src:         "clip.mp4",
		Description: "first light",
		Thumbnail:   "thumb.jpg",
		Upload:      &model.UploadAsset{Name: "clip.mp4"},
	})
	require.NoError(t, err)

	require.Len(t, state.Videos, 1)
	v := state.Videos[0]
	assert.Equal(t, "video-0001", v.ID)
	assert.Equal(t, "ana", v.Artist, "attributed to the current profile")
	assert.Equal(t, "first light", v.Caption, "caption falls back to description")
	assert.Zero(t, v.LikesCount)
	assert.Zero(t, v.CommentsCount)
	assert.Zero(t, v.Shares)
	assert.Empty(t, v.CommentsData)
	assert.NotNil(t, v.Upload, "in-memory value keeps the transient handle")
	assert.Equal(t, ViewFeed, state.View, "publish navigates back to the feed")

	// A fresh session sees the persisted video, without the handle.
	b := New(kv, WithClock(testutil.NewFixedClock(testEpoch)))
	reloaded := b.Load(ctx)
	require.Len(t, reloaded.Videos, 1)
	assert.Equal(t, "video-0001", reloaded.Videos[0].ID)
	assert.Nil(t, reloaded.Videos[0].Upload)
}

func TestPublishVideo_Validation(t *testing.T) {
	kv := newTestKV(t)
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	_, err := a.PublishVideo(ctx, VideoDraft{Src: "clip.mp4"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = a.PublishVideo(ctx, VideoDraft{Description: "no media"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPublishVideo_ReservedDescriptionSilentlyDropped(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	a := New(kv, WithIDGenerator(NewFixedGenerator("video-0001")))
	ctx := context.Background()
	a.Load(ctx)

	state, err := a.PublishVideo(ctx, VideoDraft{Src: "clip.mp4", Description: "teste"})

	// A no-op, not an error: the feed simply does not gain the video.
	require.NoError(t, err)
	assert.Empty(t, state.Videos)
	assert.Equal(t, ViewFeed, state.View)

	_, ok, err := kv.Get(ctx, stores.KeyVideos)
	require.NoError(t, err)
	assert.False(t, ok, "nothing was persisted")
}

func TestToggleLike_DoubleToggleRestoresCount(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", LikesCount: 5, CommentsData: []model.Comment{}})
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	liked := a.ToggleLike(ctx, "v1")
	assert.Equal(t, 6, liked.Videos[0].LikesCount)
	assert.True(t, liked.HasLiked("v1"))

	unliked := a.ToggleLike(ctx, "v1")
	assert.Equal(t, 5, unliked.Videos[0].LikesCount)
	assert.False(t, unliked.HasLiked("v1"))

	// Durable state agrees after reload.
	b := New(kv)
	reloaded := b.Load(ctx)
	assert.Equal(t, 5, reloaded.Videos[0].LikesCount)
	assert.False(t, reloaded.HasLiked("v1"))
}

func TestToggleLike_CounterClampedAtZero(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})
	require.NoError(t, stores.WriteLikedSet(context.Background(), kv, map[string]struct{}{"v1": {}}))
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	// Unlike a video whose counter is already zero.
	state := a.ToggleLike(ctx, "v1")

	assert.Equal(t, 0, state.Videos[0].LikesCount, "never negative")
	assert.False(t, state.HasLiked("v1"))
}

func TestToggleLike_MembershipAndCounterPersistTogether(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	a.ToggleLike(ctx, "v1")

	likedRaw, ok, err := kv.Get(ctx, stores.KeyLikedVideos)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["v1"]`, likedRaw)

	videosRaw, ok, err := kv.Get(ctx, stores.KeyVideos)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, videosRaw, `"likesCount":1`)
}

func TestToggleLike_UnknownVideoIsNoOp(t *testing.T) {
	kv := newTestKV(t)
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	assert.NotPanics(t, func() {
		state := a.ToggleLike(ctx, "ghost")
		assert.Empty(t, state.Liked)
	})
}

func TestAddComment_AppendsAndKeepsCountInSync(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})
	clock := testutil.NewFixedClock(testEpoch)
	a := New(kv, WithClock(clock), WithIDGenerator(NewFixedGenerator("comment-0001", "comment-0002")))
	ctx := context.Background()
	a.Load(ctx)

	v, err := a.AddComment(ctx, "v1", "  so good  ")
	require.NoError(t, err)

	require.Len(t, v.CommentsData, 1)
	c := v.CommentsData[0]
	assert.Equal(t, "comment-0001", c.ID)
	assert.Equal(t, "ana", c.Username, "attributed to the local profile")
	assert.Equal(t, "so good", c.Text, "text is trimmed")
	assert.Equal(t, testEpoch.UnixMilli(), c.Timestamp)
	assert.Equal(t, 1, v.CommentsCount)
	assert.True(t, v.CountersConsistent())

	clock.Advance(time.Minute)
	v, err = a.AddComment(ctx, "v1", "again")
	require.NoError(t, err)
	assert.Equal(t, 2, v.CommentsCount)
	assert.True(t, v.CountersConsistent())
	assert.Equal(t, testEpoch.Add(time.Minute).UnixMilli(), v.CommentsData[1].Timestamp)

	// Insertion order survives a reload.
	b := New(kv)
	reloaded := b.Load(ctx)
	require.Len(t, reloaded.Videos[0].CommentsData, 2)
	assert.Equal(t, "comment-0001", reloaded.Videos[0].CommentsData[0].ID)
	assert.True(t, reloaded.Videos[0].CountersConsistent())
}

func TestAddComment_WhitespaceOnlyRejected(t *testing.T) {
	kv := newTestKV(t)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	_, err := a.AddComment(ctx, "v1", "   ")

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ErrCodeEmptyComment, ve.Code)

	// Nothing changed.
	state := a.State()
	assert.Zero(t, state.Videos[0].CommentsCount)
	assert.Empty(t, state.Videos[0].CommentsData)
}

func TestAddComment_UnknownVideo(t *testing.T) {
	kv := newTestKV(t)
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	_, err := a.AddComment(ctx, "ghost", "hello")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ErrCodeUnknownVideo, ve.Code)
}

func TestPublishStory_StampsExpiry(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	clock := testutil.NewFixedClock(testEpoch)
	a := New(kv, WithClock(clock), WithIDGenerator(NewFixedGenerator("story-0001")))
	ctx := context.Background()
	a.Load(ctx)

	state, err := a.PublishStory(ctx, StoryDraft{ImageURL: "story.jpg", AudioURL: "track.mp3"})
	require.NoError(t, err)

	require.Len(t, state.Stories, 1)
	st := state.Stories[0]
	assert.Equal(t, "story-0001", st.ID)
	assert.Equal(t, "ana", st.Username)
	assert.Equal(t, testEpoch.UnixMilli(), st.Timestamp)
	assert.Equal(t, model.StoryTTLMillis, st.ExpiryTime-st.Timestamp)
}

func TestPublishStory_RequiresImage(t *testing.T) {
	kv := newTestKV(t)
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	_, err := a.PublishStory(ctx, StoryDraft{AudioURL: "track.mp3"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ErrCodeMissingField, ve.Code)
}

func TestStories_ExpireOnReadAndPrune(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	clock := testutil.NewFixedClock(testEpoch)
	a := New(kv, WithClock(clock), WithIDGenerator(NewFixedGenerator("story-0001")))
	ctx := context.Background()
	a.Load(ctx)

	_, err := a.PublishStory(ctx, StoryDraft{ImageURL: "story.jpg"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	assert.Len(t, a.Load(ctx).Stories, 1, "active at +1h")

	clock.Advance(24 * time.Hour)
	assert.Empty(t, a.Load(ctx).Stories, "expired at +25h")

	// Expiry is read-side only: the entry is still stored until pruned.
	raw, ok, err := kv.Get(ctx, stores.KeyStories)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "story-0001")

	a.PruneStories(ctx)
	raw, _, err = kv.Get(ctx, stores.KeyStories)
	require.NoError(t, err)
	assert.NotContains(t, raw, "story-0001")
}

func TestProfile_ReadsThroughBeforeLoad(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	a := New(kv)

	p := a.Profile(context.Background())

	assert.Equal(t, "ana", p.Username)
	assert.Equal(t, "1234567", p.DisplayID)
}

func TestSaveProfile_IdentityFieldsStable(t *testing.T) {
	kv := newTestKV(t)
	seedProfile(t, kv)
	a := New(kv)
	ctx := context.Background()
	a.Load(ctx)

	edited := a.State().Profile
	edited.Username = "ana banana"
	edited.Bio = "filming things"
	edited.DisplayID = "" // identity fields are not editable
	edited.ID = ""

	state := a.SaveProfile(ctx, edited)

	assert.Equal(t, "ana banana", state.Profile.Username)
	assert.Equal(t, "filming things", state.Profile.Bio)
	assert.Equal(t, "1234567", state.Profile.DisplayID)
	assert.Equal(t, "profile-1", state.Profile.ID)

	b := New(kv)
	reloaded := b.Load(ctx)
	assert.Equal(t, "ana banana", reloaded.Profile.Username)
	assert.Equal(t, "1234567", reloaded.Profile.DisplayID)
}

func TestGenerateCaption(t *testing.T) {
	kv := newTestKV(t)
	a := New(kv, WithCaptionGenerator(caption.StaticGenerator{Caption: "city lights"}))
	ctx := context.Background()
	a.Load(ctx)

	got, err := a.GenerateCaption(ctx, "driving at night")
	require.NoError(t, err)
	assert.Equal(t, "city lights", got)

	_, err = a.GenerateCaption(ctx, "  ")
	assert.True(t, IsValidation(err))
}

func TestGenerateCaption_ServiceFailureLeavesStateUntouched(t *testing.T) {
	kv := newTestKV(t)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})
	a := New(kv, WithCaptionGenerator(caption.StaticGenerator{Err: assert.AnError}))
	ctx := context.Background()
	before := a.Load(ctx)

	_, err := a.GenerateCaption(ctx, "driving at night")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, before, a.State(), "failure affects only the draft")
}

func TestCorruptStorage_SelfHealsToDefaults(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, stores.KeyVideos, `{broken`))
	require.NoError(t, kv.Put(ctx, stores.KeyLikedVideos, `{broken`))
	require.NoError(t, kv.Put(ctx, stores.KeyProfile, `{broken`))
	require.NoError(t, kv.Put(ctx, stores.KeyStories, `{broken`))
	a := New(kv)

	assert.NotPanics(t, func() {
		state := a.Load(ctx)
		assert.Empty(t, state.Videos)
		assert.Empty(t, state.Stories)
		assert.Empty(t, state.Liked)
		assert.NotEmpty(t, state.Profile.DisplayID)
	})
}

func TestObserver_ReceivesEveryPublishedState(t *testing.T) {
	kv := newTestKV(t)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})

	var published []State
	a := New(kv, WithObserver(func(s State) { published = append(published, s) }))
	ctx := context.Background()

	a.Load(ctx)
	a.ToggleLike(ctx, "v1")

	require.Len(t, published, 2)
	assert.False(t, published[0].HasLiked("v1"))
	assert.True(t, published[1].HasLiked("v1"))
}

func TestSnapshot_IsolatedFromFacadeState(t *testing.T) {
	kv := newTestKV(t)
	seedVideos(t, kv, model.Video{ID: "v1", Description: "d", Artist: "alice", CommentsData: []model.Comment{}})
	a := New(kv)
	ctx := context.Background()

	snap := a.Load(ctx)
	snap.Videos[0].Description = "tampered"
	snap.Liked["v1"] = struct{}{}

	state := a.State()
	assert.Equal(t, "d", state.Videos[0].Description)
	assert.False(t, state.HasLiked("v1"))
}
