package models

import "time"

// AuthContext describes a verified admin session. It is attached to the
// request by the admin middleware and passed explicitly to handlers.
type AuthContext struct {
	SessionID string    `json:"session_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
