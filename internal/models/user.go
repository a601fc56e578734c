package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the unique login/display name (3-64 characters).
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// Income is a simple bookkeeping record attached to a user.
// No derived logic; stored and returned as-is.
type Income struct {
	// ID is the unique identifier for the income record (UUID format).
	ID string `json:"id"`

	// Note describes the income (e.g. "salary", "refund").
	Note string `json:"note"`

	// Amount is the income amount in integer cents.
	Amount int64 `json:"amount"`

	// Date is the Unix timestamp the income applies to.
	Date int64 `json:"date"`
}

// PaymentMethod is a named payment instrument attached to a user.
// Method names double as the roster of the user's personal rooms.
type PaymentMethod struct {
	// ID is the unique identifier for the method (UUID format).
	ID string `json:"id"`

	// Name is the display name of the method (e.g. "Cash", "Visa").
	Name string `json:"name"`

	// Type categorizes the method (e.g. "cash", "card", "upi").
	Type string `json:"type"`
}
