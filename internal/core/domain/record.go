package domain

import "time"

// CompletionRecord is one logged instance of a chore being done.
// AssignedTo is the display name at write time and is never rewritten.
type CompletionRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AssignedTo    string    `json:"assigned_to"`
	AssignedToUID string    `json:"assigned_to_uid"`
	CompletedAt   time.Time `json:"completed_at"`
}

// OwnedBy reports whether uid recorded this entry. Used for display only.
func (r CompletionRecord) OwnedBy(uid string) bool {
	return uid != "" && r.AssignedToUID == uid
}

// ChoreTitle builds the conventional "<main>/<sub>" title.
func ChoreTitle(main, sub string) string {
	return main + "/" + sub
}
