package models

// ShareLine is one payer or beneficiary entry on an expense.
// Participants are referenced by display name, not user ID.
type ShareLine struct {
	// Name is the participant's display name.
	Name string `json:"name"`

	// Amount is this line's share in integer cents (>= 0).
	Amount int64 `json:"amount"`
}

// Expense represents a recorded spend scoped to a room.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// RoomID is the owning room. Required; kept as-is if the room is
	// later deleted (expenses orphan rather than cascade).
	RoomID string `json:"roomId"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Total is the expense amount in integer cents (>= 0).
	Total int64 `json:"total"`

	// SpentBy lists who fronted money, in input order. When non-empty,
	// the amounts must sum to Total.
	SpentBy []ShareLine `json:"spentBy"`

	// SpentFor lists who the money was spent for, in input order. When
	// non-empty, the amounts must sum to Total.
	SpentFor []ShareLine `json:"spentFor"`

	// CreatorUserID is the user who recorded the expense. Only the
	// creator may update or delete it.
	CreatorUserID string `json:"creatorUserId"`

	// CreatorUsername is the creator's display name at creation time.
	CreatorUsername string `json:"creatorUsername"`

	// LastEditorUserID is the user who last updated the expense.
	LastEditorUserID string `json:"lastEditorUserId,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NamesInclude reports whether name appears in lines.
func NamesInclude(lines []ShareLine, name string) bool {
	for _, l := range lines {
		if l.Name == name {
			return true
		}
	}
	return false
}

// SumLines returns the total of all line amounts in cents.
func SumLines(lines []ShareLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.Amount
	}
	return sum
}
