package models

// AuthenticatedUser is the identity projection kept after a GitHub login
type AuthenticatedUser struct {
	ID        string  `json:"id"`
	GithubID  int64   `json:"github_id,omitempty"`
	Username  string  `json:"username"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// DisplayName returns the user's name, falling back to the username.
func (u AuthenticatedUser) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Username
}
