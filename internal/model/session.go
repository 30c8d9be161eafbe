package model

import "time"

// Session exists only between a successful login and logout.
type Session struct {
	ClientID  int64
	Phone     string
	Token     string
	ExpiresAt time.Time
}
