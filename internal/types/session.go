package types

// User is the cached user record returned by login and refresh.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CandidateID string `json:"candidate_id,omitempty"`
}

// Session is the authenticated session owned by the token store. It is
// mutated only by login, refresh, and logout. No expiry is tracked
// client-side; validity is discovered reactively via a 401.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}
