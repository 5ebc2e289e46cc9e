package model

// Default values backfilled into a profile record by the normalization pass.
const (
	DefaultUsername       = "user"
	DefaultProfilePicture = "assets/avatar-placeholder.png"
)

// Profile is the singleton record for the local user.
//
// DisplayID is the human-facing 7-digit identifier: generated once when the
// record is first synthesized (or backfilled into an old record that predates
// the field) and permanently stable afterwards.
//
// IsFollowing is meaningless for the local user's own profile; it exists so
// the record shape stays compatible with a future remote-profile extension.
type Profile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
	DisplayID      string `json:"displayId"`
	FollowersCount int    `json:"followersCount"`
	IsFollowing    bool   `json:"isFollowing"`
}
