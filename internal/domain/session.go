package domain

import "time"

// Session is the login state of one browser. It replaces the ambient
// "isAuthenticated" flag: components receive it explicitly.
type Session struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoginRequest is the request to open a session
type LoginRequest struct {
	Username string `json:"username" form:"username"`
}
