package domain

import "time"

// Session is the explicit, passed-around replacement for the old ambient
// "logged in" flag. It is minted by the auth service on login, carried in a
// signed token, and injected into request context by the auth middleware.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the session is still valid at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}
