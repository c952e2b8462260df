package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired, please log in again")
)

// Session is the client's view of who is logged in. Token is the authority;
// User is cached profile data and is only set alongside a token.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// IsAuthenticated reports whether the session carries a bearer token
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
