package service

import (
	"context"
	"testing"

	"github.com/splitroom/splitroom/internal/apperr"
)

func TestUserService_Incomes(t *testing.T) {
	store, _, _, users := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	_, err := users.AddIncome(ctx, user.ID, IncomeInput{Amount: ptrInt64(500000), Date: ptrInt64(1000)})
	wantKind(t, err, apperr.KindValidation)
	_, err = users.AddIncome(ctx, user.ID, IncomeInput{Note: "salary", Date: ptrInt64(1000)})
	wantKind(t, err, apperr.KindValidation)
	_, err = users.AddIncome(ctx, user.ID, IncomeInput{Note: "salary", Amount: ptrInt64(500000)})
	wantKind(t, err, apperr.KindValidation)

	income, err := users.AddIncome(ctx, user.ID, IncomeInput{
		Note: "salary", Amount: ptrInt64(500000), Date: ptrInt64(1000),
	})
	if err != nil {
		t.Fatalf("AddIncome failed: %v", err)
	}
	if income.ID == "" {
		t.Error("expected income ID to be generated")
	}

	note := "august salary"
	updated, err := users.UpdateIncome(ctx, user.ID, income.ID, IncomePatch{Note: &note})
	if err != nil {
		t.Fatalf("UpdateIncome failed: %v", err)
	}
	if updated.Note != "august salary" {
		t.Errorf("note: expected august salary, got %s", updated.Note)
	}
	if updated.Amount != 500000 {
		t.Errorf("absent amount overwritten: got %d", updated.Amount)
	}

	_, err = users.UpdateIncome(ctx, user.ID, "nonexistent", IncomePatch{Note: &note})
	wantKind(t, err, apperr.KindNotFound)

	if err := users.DeleteIncome(ctx, user.ID, income.ID); err != nil {
		t.Fatalf("DeleteIncome failed: %v", err)
	}
	err = users.DeleteIncome(ctx, user.ID, income.ID)
	wantKind(t, err, apperr.KindNotFound)
}

func TestUserService_MethodsSyncPersonalRoomRoster(t *testing.T) {
	store, rooms, _, users := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	cash, err := users.AddMethod(ctx, user.ID, MethodInput{Name: "Cash", Type: "cash"})
	if err != nil {
		t.Fatalf("AddMethod failed: %v", err)
	}

	room, err := rooms.Create(ctx, user.ID, CreateRoomInput{Code: "monthly", Passcode: "p"})
	if err != nil {
		t.Fatalf("room Create failed: %v", err)
	}
	if len(room.Members) != 1 || room.Members[0] != "Cash" {
		t.Fatalf("expected roster [Cash], got %v", room.Members)
	}

	// Adding a method after the fact extends the personal room roster.
	if _, err := users.AddMethod(ctx, user.ID, MethodInput{Name: "Card", Type: "credit"}); err != nil {
		t.Fatalf("AddMethod failed: %v", err)
	}
	got, err := rooms.Get(ctx, user.ID, room.ID)
	if err != nil {
		t.Fatalf("room Get failed: %v", err)
	}
	if len(got.Members) != 2 || got.Members[1] != "Card" {
		t.Errorf("expected roster [Cash Card], got %v", got.Members)
	}

	// Deleting a method pulls its name back out.
	if err := users.DeleteMethod(ctx, user.ID, cash.ID); err != nil {
		t.Fatalf("DeleteMethod failed: %v", err)
	}
	got, err = rooms.Get(ctx, user.ID, room.ID)
	if err != nil {
		t.Fatalf("room Get failed: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0] != "Card" {
		t.Errorf("expected roster [Card], got %v", got.Members)
	}

	err = users.DeleteMethod(ctx, user.ID, "nonexistent")
	wantKind(t, err, apperr.KindNotFound)
}

func TestUserService_MethodValidation(t *testing.T) {
	store, _, _, users := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	_, err := users.AddMethod(ctx, user.ID, MethodInput{Type: "cash"})
	wantKind(t, err, apperr.KindValidation)
	_, err = users.AddMethod(ctx, user.ID, MethodInput{Name: "Cash"})
	wantKind(t, err, apperr.KindValidation)
}

func TestUserService_Current(t *testing.T) {
	store, _, _, users := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	got, err := users.Current(ctx, user.ID)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("username: expected alice, got %s", got.Username)
	}

	_, err = users.Current(ctx, "nonexistent")
	wantKind(t, err, apperr.KindNotFound)
}
