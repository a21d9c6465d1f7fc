// Package model contains domain entities used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// SessionLimit is the configured session limit persisted in limite_session.
// A zero ID marks a transient value that storage has not assigned a key to yet.
type SessionLimit struct {
	ID    int64 `json:"id"`
	Limit int   `json:"limit"`
}

// NewSessionLimit builds a transient record for the given limit.
func NewSessionLimit(limit int) SessionLimit {
	return SessionLimit{Limit: limit}
}

// IsPersisted reports whether storage has assigned an identifier.
func (s SessionLimit) IsPersisted() bool { return s.ID > 0 }
