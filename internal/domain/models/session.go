package models

// User is the identity returned by the backend for a valid token.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// Session pairs the resolved identity with the bearer token that proved it.
// It lives only in memory; the token alone is persisted.
type Session struct {
	User  User
	Token string
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
