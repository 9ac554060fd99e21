package models

import "time"

// User is the cached copy of the authenticated identity, keyed by the
// subject identifier extracted from the session credential.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

/// Session is the result of a successful login or registration: an opaque
// signed credential plus the server's view of the user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Share is a public snapshot of part of a Pokédex, addressable by token.
type Share struct {
	Token      string    `json:"token"`
	UserID     string    `json:"userId"`
	PokeapiIDs []int64   `json:"pokeapiIds"`
	CreatedAt  time.Time `json:"createdAt"`
}
