package models

// RoomKind distinguishes shared rooms from single-user ledgers.
type RoomKind string

const (
	// RoomKindPersonal is a single-user ledger. Its roster is populated
	// from the creator's payment-method names and it cannot be joined.
	RoomKindPersonal RoomKind = "personal"

	// RoomKindGroup is a shared room that other users may join with the
	// passcode.
	RoomKindGroup RoomKind = "group"
)

// Valid reports whether k is a known room kind.
func (k RoomKind) Valid() bool {
	return k == RoomKindPersonal || k == RoomKindGroup
}

// Room represents a shared or personal ledger grouping participants and
// expenses.
type Room struct {
	// ID is the unique identifier for the room (UUID format).
	ID string `json:"id"`

	// Code is the human join code (3-64 characters). Personal rooms are
	// unique per (code, creator); group rooms are not constrained.
	Code string `json:"code"`

	// Kind is "personal" or "group". Immutable after creation.
	Kind RoomKind `json:"kind"`

	// Passcode is the shared join secret, compared by string equality.
	// Never serialized in API responses.
	Passcode string `json:"-"`

	// DisplayName is the room's display name. Defaults to Code.
	DisplayName string `json:"displayName"`

	// Notes is free-form text attached to the room.
	Notes string `json:"notes,omitempty"`

	// Title is an optional event title for the room.
	Title string `json:"title,omitempty"`

	// Organizer is the display name of the current organizer, if set.
	Organizer string `json:"organizer,omitempty"`

	// OrganizerPaymentID is the organizer's payment handle (e.g. a UPI id).
	OrganizerPaymentID string `json:"organizerPaymentId,omitempty"`

	// Members is the ordered denormalized roster of free-text display
	// names. Distinct from ParticipantUserIDs: a member name need not map
	// to a registered user.
	Members []string `json:"members"`

	// ParticipantUserIDs is the ordered set of user IDs with authenticated
	// access. The creator is always present and cannot be removed.
	ParticipantUserIDs []string `json:"participantUserIds"`

	// CreatorUserID is the immutable owner and sole admin of the room.
	CreatorUserID string `json:"creatorUserId"`

	// UpdatedBy is the user ID of the last editor.
	UpdatedBy string `json:"updatedBy,omitempty"`

	// LastExpenseAt is the Unix timestamp of the most recent expense
	// create/update for this room. Zero means no expenses yet.
	LastExpenseAt int64 `json:"lastExpenseAt,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// HasParticipant reports whether userID has authenticated access to the room.
func (r *Room) HasParticipant(userID string) bool {
	for _, id := range r.ParticipantUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is the room's creator.
func (r *Room) IsAdmin(userID string) bool {
	return r.CreatorUserID == userID
}

// RoomSummary is the per-room entry returned by room listings, annotating
// each room with the caller's admin status.
type RoomSummary struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Kind        RoomKind `json:"kind"`
	DisplayName string   `json:"displayName"`
	IsAdmin     bool     `json:"isAdmin"`
}
