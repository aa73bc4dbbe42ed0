package models

import "time"

// Session holds per-session server state keyed by an opaque token.
// It lives in the database so visit counts stay correct when more
// than one server instance handles the same session.
type Session struct {
	Token     string `gorm:"primaryKey;size:64"`
	Visits    int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
