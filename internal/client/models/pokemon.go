// Package models defines the record types persisted by the local store and
// exchanged with the remote Bloqedex API.
package models

// Stat is one named base-stat value of a Pokémon.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Pokemon is an immutable catalog entry mirrored from the canonical source.
// ID is the local primary key; PokeapiID is the stable external identifier,
// unique and densely assigned starting at 1. Re-fetching the same PokeapiID
// overwrites the record idempotently.
type Pokemon struct {
	ID             int64    `json:"id"`
	PokeapiID      int64    `json:"pokeapiId"`
	Name           string   `json:"name"`
	Height         int      `json:"height"`
	Weight         int      `json:"weight"`
	BaseExperience int      `json:"baseExperience"`
	SpriteURL      string   `json:"spriteUrl"`
	ArtworkURL     string   `json:"artworkUrl"`
	Types          []string `json:"types"`
	Stats          []Stat   `json:"stats"`
}
