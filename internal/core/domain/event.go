package domain

import "time"

// EventType names a change published to live subscribers.
type EventType string

const (
	EventSignedIn        EventType = "auth.signed_in"
	EventSignedOut       EventType = "auth.signed_out"
	EventHistoryCreated  EventType = "history.created"
	EventHistoryDeleted  EventType = "history.deleted"
	EventTaxonomyChanged EventType = "taxonomy.changed"
	EventProfileChanged  EventType = "profile.changed"
)

// ChangeEvent announces that something a screen displays has changed.
// UID is set for events scoped to one user (auth, profile).
type ChangeEvent struct {
	Type     EventType `json:"type"`
	UID      string    `json:"uid,omitempty"`
	EntityID string    `json:"entity_id,omitempty"`
	At       time.Time `json:"at"`
}

// IsAuth reports whether the event is an auth-state transition.
func (e ChangeEvent) IsAuth() bool {
	return e.Type == EventSignedIn || e.Type == EventSignedOut
}
