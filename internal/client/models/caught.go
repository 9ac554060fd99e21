package models

import "time"

// CaughtPokemon is one user's possession of one catalog entry.
//
// ID is either server-assigned or, for records created while offline, a
// temporary identifier derived from the current Unix time in milliseconds.
// Temporary marks the provenance explicitly, so reconciliation does not need
// to guess from the id's magnitude. At most one settled record may exist per
// (UserID, PokeapiID) pair; duplicates are healed by the reconciler.
type CaughtPokemon struct {
	ID        int64     `json:"id"`
	Temporary bool      `json:"-"`
	UserID    string    `json:"userId"`
	PokeapiID int64     `json:"pokeapiId"`
	CaughtAt  time.Time `json:"caughtAt"`
	Note      string    `json:"note"`
	Favorite  bool      `json:"favorite"`
	Nickname  string    `json:"nickname,omitempty"`
}

// CaughtUpdate carries the mutable fields of a CaughtPokemon. Nil pointers
// leave the corresponding field untouched.
type CaughtUpdate struct {
	Note     *string `json:"note,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

// Apply overlays the update onto a record.
func (u CaughtUpdate) Apply(c *CaughtPokemon) {
	if u.Note != nil {
		c.Note = *u.Note
	}
	if u.Favorite != nil {
		c.Favorite = *u.Favorite
	}
	if u.Nickname != nil {
		c.Nickname = *u.Nickname
	}
}

// PokedexStats is the aggregate returned by GET /pokedex/stats, also
// computable from local data when offline.
type PokedexStats struct {
	TotalCaught          int64   `json:"totalCaught"`
	TotalFavorites       int64   `json:"totalFavorites"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TotalAvailable       int64   `json:"totalAvailable"`
}
