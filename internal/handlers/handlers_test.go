package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/splitroom/splitroom/internal/auth"
	"github.com/splitroom/splitroom/internal/middleware"
	"github.com/splitroom/splitroom/internal/service"
	"github.com/splitroom/splitroom/internal/storage/sqlite"
)

// newTestServer wires the full handler stack over a throwaway database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	roomService := service.NewRoomService(store, store, store, logger)
	expenseService := service.NewExpenseService(store, store, logger)
	userService := service.NewUserService(store, store, logger)

	requireAuth := middleware.RequireAuth(jwtManager, WriteError)
	authHandler := NewAuthHandler(authenticator, jwtManager, userService, false)
	roomHandler := NewRoomHandler(roomService, expenseService)
	expenseHandler := NewExpenseHandler(expenseService)
	userHandler := NewUserHandler(userService)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		authHandler.Routes(r, requireAuth)
	})
	router.Route("/rooms", func(r chi.Router) {
		r.Use(requireAuth)
		roomHandler.Routes(r)
	})
	router.Route("/expenses", func(r chi.Router) {
		r.Use(requireAuth)
		expenseHandler.Routes(r)
	})
	router.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		userHandler.Routes(r)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// doJSON issues a request with an optional bearer token and decodes the
// response envelope.
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any) (int, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return resp.StatusCode, envelope
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": "correct-horse"}
	status, _ := doJSON(t, server, http.MethodPost, "/auth/register", "", creds)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	status, envelope := doJSON(t, server, http.MethodPost, "/auth/login", "", creds)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	data := envelope.Data.(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}
	return token
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)

	status, envelope := doJSON(t, server, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice", "password": "short",
	})
	if status != http.StatusBadRequest {
		t.Errorf("weak password: expected 400, got %d", status)
	}
	if envelope.Status != "error" {
		t.Errorf("expected error envelope, got %s", envelope.Status)
	}

	token := registerAndLogin(t, server, "alice")

	status, envelope = doJSON(t, server, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", status)
	}

	status, envelope = doJSON(t, server, http.MethodGet, "/auth/current", token, nil)
	if status != http.StatusOK {
		t.Fatalf("current: expected 200, got %d", status)
	}
	data := envelope.Data.(map[string]any)
	if data["username"] != "alice" {
		t.Errorf("expected alice, got %v", data["username"])
	}
	if _, leaked := data["passwordHash"]; leaked {
		t.Error("password hash leaked in current-user response")
	}

	status, _ = doJSON(t, server, http.MethodGet, "/auth/current", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", status)
	}
	status, _ = doJSON(t, server, http.MethodGet, "/auth/current", "garbage", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", status)
	}
}

func TestRoomAndExpenseFlow(t *testing.T) {
	server := newTestServer(t)
	aliceToken := registerAndLogin(t, server, "alice")
	bobToken := registerAndLogin(t, server, "bob")

	status, envelope := doJSON(t, server, http.MethodPost, "/rooms", aliceToken, map[string]any{
		"code": "trip-goa", "passcode": "secret", "kind": "group",
		"members": []string{"alice", "bob"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d (%s)", status, envelope.Message)
	}
	roomID := envelope.Data.(map[string]any)["id"].(string)

	// Bob cannot see the room before joining.
	status, _ = doJSON(t, server, http.MethodGet, "/rooms/"+roomID, bobToken, nil)
	if status != http.StatusForbidden {
		t.Errorf("get before join: expected 403, got %d", status)
	}

	status, _ = doJSON(t, server, http.MethodPost, "/rooms/"+roomID+"/join", bobToken, map[string]string{
		"passcode": "wrong",
	})
	if status != http.StatusForbidden {
		t.Errorf("wrong passcode: expected 403, got %d", status)
	}
	status, _ = doJSON(t, server, http.MethodPost, "/rooms/"+roomID+"/join", bobToken, map[string]string{
		"passcode": "secret",
	})
	if status != http.StatusOK {
		t.Fatalf("join: expected 200, got %d", status)
	}

	// The passcode never appears in a room payload.
	status, envelope = doJSON(t, server, http.MethodGet, "/rooms/"+roomID, bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get room: expected 200, got %d", status)
	}
	if _, leaked := envelope.Data.(map[string]any)["passcode"]; leaked {
		t.Error("passcode leaked in room response")
	}

	status, envelope = doJSON(t, server, http.MethodPost, "/expenses", aliceToken, map[string]any{
		"roomId":      roomID,
		"description": "dinner",
		"total":       10000,
		"spentBy":     []map[string]any{{"name": "alice", "amount": 10000}},
		"spentFor": []map[string]any{
			{"name": "alice", "amount": 4000},
			{"name": "bob", "amount": 6000},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("create expense: expected 201, got %d (%s)", status, envelope.Message)
	}
	expenseID := envelope.Data.(map[string]any)["id"].(string)

	// A split that does not sum to total is rejected.
	status, _ = doJSON(t, server, http.MethodPost, "/expenses", aliceToken, map[string]any{
		"roomId":   roomID,
		"total":    10000,
		"spentBy":  []map[string]any{{"name": "alice", "amount": 500}},
		"spentFor": []map[string]any{},
	})
	if status != http.StatusBadRequest {
		t.Errorf("bad split: expected 400, got %d", status)
	}

	// Bob can read but not edit Alice's expense.
	status, _ = doJSON(t, server, http.MethodGet, "/expenses/"+expenseID, bobToken, nil)
	if status != http.StatusOK {
		t.Errorf("member get expense: expected 200, got %d", status)
	}
	status, _ = doJSON(t, server, http.MethodPut, "/expenses/"+expenseID, bobToken, map[string]any{
		"description": "hijacked",
	})
	if status != http.StatusForbidden {
		t.Errorf("non-creator update: expected 403, got %d", status)
	}

	status, envelope = doJSON(t, server, http.MethodGet, "/rooms/"+roomID+"/best-organizer", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("best organizer: expected 200, got %d", status)
	}
	result := envelope.Data.(map[string]any)
	if result["bestOrganizer"] != "alice" {
		t.Errorf("best organizer: expected alice, got %v", result["bestOrganizer"])
	}
	if result["netContribution"] != float64(6000) {
		t.Errorf("net contribution: expected 6000, got %v", result["netContribution"])
	}

	status, envelope = doJSON(t, server, http.MethodGet, "/rooms/"+roomID+"/expenses", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("room expenses: expected 200, got %d", status)
	}
	if expenses := envelope.Data.([]any); len(expenses) != 1 {
		t.Errorf("expected 1 expense, got %d", len(expenses))
	}

	// Only the creator can delete the room.
	status, _ = doJSON(t, server, http.MethodDelete, "/rooms/"+roomID, bobToken, nil)
	if status != http.StatusForbidden {
		t.Errorf("non-creator delete: expected 403, got %d", status)
	}
	status, _ = doJSON(t, server, http.MethodDelete, "/rooms/"+roomID, aliceToken, nil)
	if status != http.StatusOK {
		t.Errorf("creator delete: expected 200, got %d", status)
	}
}

func TestBestOrganizerEmptyRoom(t *testing.T) {
	server := newTestServer(t)
	token := registerAndLogin(t, server, "alice")

	status, envelope := doJSON(t, server, http.MethodPost, "/rooms", token, map[string]any{
		"code": "empty-room", "passcode": "p", "kind": "group",
	})
	if status != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d", status)
	}
	roomID := envelope.Data.(map[string]any)["id"].(string)

	status, envelope = doJSON(t, server, http.MethodGet, "/rooms/"+roomID+"/best-organizer", token, nil)
	if status != http.StatusOK {
		t.Fatalf("best organizer: expected 200, got %d", status)
	}
	if envelope.Message != "no expenses found for this room" {
		t.Errorf("unexpected message: %q", envelope.Message)
	}
	if envelope.Data.(map[string]any)["bestOrganizer"] != nil {
		t.Errorf("expected null best organizer, got %v", envelope.Data)
	}
}

func TestUserBookkeepingRoutes(t *testing.T) {
	server := newTestServer(t)
	token := registerAndLogin(t, server, "alice")

	status, envelope := doJSON(t, server, http.MethodPost, "/users/methods", token, map[string]string{
		"name": "Cash", "type": "cash",
	})
	if status != http.StatusCreated {
		t.Fatalf("add method: expected 201, got %d", status)
	}
	methodID := envelope.Data.(map[string]any)["id"].(string)

	// A personal room created afterwards picks up the method name.
	status, envelope = doJSON(t, server, http.MethodPost, "/rooms", token, map[string]any{
		"code": "monthly", "passcode": "p",
	})
	if status != http.StatusCreated {
		t.Fatalf("create personal room: expected 201, got %d", status)
	}
	members := envelope.Data.(map[string]any)["members"].([]any)
	if len(members) != 1 || members[0] != "Cash" {
		t.Errorf("expected roster [Cash], got %v", members)
	}

	status, _ = doJSON(t, server, http.MethodPost, "/users/incomes", token, map[string]any{
		"note": "salary", "amount": 500000, "date": 1700000000,
	})
	if status != http.StatusCreated {
		t.Errorf("add income: expected 201, got %d", status)
	}
	status, envelope = doJSON(t, server, http.MethodGet, "/users/incomes", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list incomes: expected 200, got %d", status)
	}
	if incomes := envelope.Data.([]any); len(incomes) != 1 {
		t.Errorf("expected 1 income, got %d", len(incomes))
	}

	status, _ = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/users/methods/%s", methodID), token, nil)
	if status != http.StatusOK {
		t.Errorf("delete method: expected 200, got %d", status)
	}
}
