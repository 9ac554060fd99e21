package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActionKind tags the payload variant of a PendingAction.
type ActionKind string

const (
	ActionCatch       ActionKind = "catch"
	ActionRelease     ActionKind = "release"
	ActionUpdate      ActionKind = "update"
	ActionBulkCatch   ActionKind = "bulk_catch"
	ActionBulkRelease ActionKind = "bulk_release"
)

// ActionStatus is the replay state of a PendingAction.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

// PendingAction is an intent to mutate remote state, recorded when a
// mutation could not reach the server. Payload is a tagged union: Kind
// selects the typed payload struct, decoded with DecodePayload.
type PendingAction struct {
	ID        string          `json:"id"`
	Kind      ActionKind      `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	Status    ActionStatus    `json:"status"`
}

// CatchPayload describes an offline single catch. TempID is the optimistic
// local identifier the confirmed record must supersede.
type CatchPayload struct {
	UserID    string    `json:"userId"`
	PokeapiID int64     `json:"pokeapiId"`
	TempID    int64     `json:"tempId"`
	CaughtAt  time.Time `json:"caughtAt"`
}

// ReleasePayload describes an offline release. ID may be temporary, in which
// case replay goes through the pokeapi-id release endpoint because the
// server-assigned id was unknown when the action was queued.
type ReleasePayload struct {
	UserID    string `json:"userId"`
	ID        int64  `json:"id"`
	Temporary bool   `json:"temporary"`
	PokeapiID int64  `json:"pokeapiId"`
}

// UpdatePayload describes an offline edit of a caught Pokémon.
type UpdatePayload struct {
	UserID    string       `json:"userId"`
	ID        int64        `json:"id"`
	Temporary bool         `json:"temporary"`
	PokeapiID int64        `json:"pokeapiId"`
	Update    CaughtUpdate `json:"update"`
}

// BulkCatchPayload describes an offline bulk catch. TempIDs is parallel to
// PokeapiIDs.
type BulkCatchPayload struct {
	UserID     string    `json:"userId"`
	PokeapiIDs []int64   `json:"pokeapiIds"`
	TempIDs    []int64   `json:"tempIds"`
	CaughtAt   time.Time `json:"caughtAt"`
}

// BulkReleasePayload describes an offline bulk release by external id.
type BulkReleasePayload struct {
	UserID     string  `json:"userId"`
	PokeapiIDs []int64 `json:"pokeapiIds"`
}

// NewAction builds a PendingAction of the given kind around payload.
func NewAction(id string, kind ActionKind, payload any, now time.Time) (*PendingAction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return &PendingAction{
		ID:        id,
		Kind:      kind,
		Payload:   data,
		CreatedAt: now,
		Status:    ActionPending,
	}, nil
}

// DecodePayload unmarshals the action's payload into dst, which must be the
// payload struct matching the action's Kind.
func (a *PendingAction) DecodePayload(dst any) error {
	if err := json.Unmarshal(a.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", a.Kind, err)
	}
	return nil
}
