package stores

// Logical keys in the durable medium. Each key is exclusively owned by one
// store; nothing else reads or writes it.
const (
	KeyVideos      = "videos"
	KeyLikedVideos = "liked_videos"
	KeyProfile     = "profile"
	KeyStories     = "stories"
)
