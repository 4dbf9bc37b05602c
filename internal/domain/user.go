// Package domain provides the core entities of the event logger.
package domain

// User is the GitHub identity attached to a session after a successful
// OAuth callback.
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
}

// Validate validates the user
func (u *User) Validate() error {
	if u.Login == "" {
		return NewValidationError("login", "Login is required", nil)
	}
	return nil
}
