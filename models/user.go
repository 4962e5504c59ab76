package models

// Identity describes the authenticated account as reported by the
// current-user endpoint. It is cached client-side after login or session
// restore and invalidated on logout.
type Identity struct {
	// ID is the server-side unique identifier of the account.
	ID int64 `json:"id"`

	// Username is the unique login name of the account.
	Username string `json:"username"`

	// Email is the account's contact address. May be empty.
	Email string `json:"email,omitempty"`

	// IsStaff reports whether the account has staff privileges.
	IsStaff bool `json:"is_staff"`

	// IsSuperuser reports whether the account has superuser privileges.
	IsSuperuser bool `json:"is_superuser"`
}

// UserRef is the compact user representation embedded in jobs, bids and
// notifications. Only non-sensitive identity attributes are exposed.
type UserRef struct {
	// ID is the server-side unique identifier of the user.
	ID int64 `json:"id"`

	// Username is the unique login name of the user.
	Username string `json:"username"`
}

// Credentials carries the username/password pair submitted to the
// registration and token endpoints. The password is write-only and never
// appears in server responses.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile holds the marketplace profile attached to an account.
type Profile struct {
	// User is the owning account.
	User UserRef `json:"user"`

	// Bio is a free-form self-description.
	Bio string `json:"bio"`

	// GameLocation is the player's home location in the game world.
	GameLocation string `json:"game_location"`

	// CrafterName is the in-game character name shown on jobs and bids.
	CrafterName string `json:"in_game_name"`

	// CompletedJobs counts jobs this user has seen through to delivery,
	// on either side of the deal.
	CompletedJobs int `json:"completed_jobs"`
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Bio          *string `json:"bio,omitempty"`
	GameLocation *string `json:"game_location,omitempty"`
	CrafterName  *string `json:"in_game_name,omitempty"`
}
