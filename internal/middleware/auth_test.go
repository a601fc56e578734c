package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/splitroom/splitroom/internal/auth"
	"github.com/splitroom/splitroom/internal/models"
)

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	writeErr := func(w http.ResponseWriter, err error) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	var gotUserID, gotUsername string
	handler := RequireAuth(manager, writeErr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotUsername = GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
		},
		{
			name: "session cookie fallback",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no credentials",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", token) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "header wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer garbage")
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID, gotUsername = "", ""

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUserID != "user-1" || gotUsername != "alice" {
					t.Errorf("context: got (%s, %s), want (user-1, alice)", gotUserID, gotUsername)
				}
			}
		})
	}
}
