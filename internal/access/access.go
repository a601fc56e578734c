// Package access centralizes the authorization rules shared by the room and
// expense services. All checks are pure functions over already-loaded
// records; the caller is responsible for fetching them.
package access

import "github.com/splitroom/splitroom/internal/models"

// CanAdministerRoom reports whether userID may perform admin operations on
// the room (edit metadata, change passcode, delete). Strictly the creator;
// there are no delegated admins.
func CanAdministerRoom(room *models.Room, userID string) bool {
	return room.IsAdmin(userID)
}

// CanReadRoom reports whether userID may read the room: any participant.
func CanReadRoom(room *models.Room, userID string) bool {
	return room.HasParticipant(userID)
}

// CanReadExpense reports whether the caller may read the expense. Rules in
// precedence order, first match wins:
//
//  1. Expense creator.
//  2. Listed by display name as a payer or beneficiary. Name-based, not
//     id-based: unregistered participants gain read access through the
//     name they were recorded under.
//  3. Participant of the owning room. room may be nil when the owning room
//     has been deleted (orphaned expense); rule 3 then never matches.
func CanReadExpense(expense *models.Expense, room *models.Room, userID, username string) bool {
	if expense.CreatorUserID == userID {
		return true
	}
	if models.NamesInclude(expense.SpentBy, username) || models.NamesInclude(expense.SpentFor, username) {
		return true
	}
	return room != nil && room.HasParticipant(userID)
}

// CanWriteExpense reports whether the caller may update or delete the
// expense. Only the creator; room admins cannot override.
func CanWriteExpense(expense *models.Expense, userID string) bool {
	return expense.CreatorUserID == userID
}
