package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeBackend is a minimal stand-in for the auth endpoints. It accepts
// username "12345678901" with password "secret"; the otp user additionally
// needs code "123456".
type fakeBackend struct {
	otpRequired   bool
	mustChange    bool
	logoutCalls   int
	passwordCalls int
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("username") != "12345678901" || r.FormValue("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		if b.otpRequired && r.FormValue("otp_code") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "2FA code required"})
			return
		}
		if b.otpRequired && r.FormValue("otp_code") != "123456" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"token_type":   "bearer",
			"user": Identity{
				ID:                 10,
				FullName:           "Ayşe Yılmaz",
				Role:               RoleIndividual,
				MustChangePassword: b.mustChange,
			},
		})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Identity{
			ID:       10,
			FullName: "Ayşe Yılmaz",
			Role:     RoleIndividual,
			Phone:    "+90 555 000 0000",
		})
	})
	mux.HandleFunc("/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.passwordCalls++
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["current_password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b.logoutCalls++
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newTestClient(t *testing.T, backend *fakeBackend) (*Client, *Store) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	store := NewStore(NopPersistence{}, testLogger())
	return NewClient(srv.URL, store, srv.Client()), store
}

func TestClient_Login(t *testing.T) {
	client, store := newTestClient(t, &fakeBackend{})

	user, err := client.Login(context.Background(), "12345678901", "secret", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Role != RoleIndividual {
		t.Fatalf("role = %q", user.Role)
	}

	sess := store.Snapshot()
	if !sess.Authenticated() || sess.Token != "tok-abc" {
		t.Fatalf("session not committed: %+v", sess)
	}
	if dec := Resolve("/", sess); !dec.Redirect || dec.Path != PathDashboard {
		t.Fatalf("individual client should land on the client dashboard, got %+v", dec)
	}
}

func TestClient_LoginFailureLeavesSessionEmpty(t *testing.T) {
	client, store := newTestClient(t, &fakeBackend{})

	if _, err := client.Login(context.Background(), "12345678901", "wrong", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatal("failed login must not mutate the session")
	}
}

func TestClient_TwoFactorRetry(t *testing.T) {
	client, store := newTestClient(t, &fakeBackend{otpRequired: true})
	ctx := context.Background()

	_, err := client.Login(ctx, "12345678901", "secret", "")
	if !errors.Is(err, ErrTwoFactorRequired) {
		t.Fatalf("expected ErrTwoFactorRequired, got %v", err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatal("2FA prompt must not create a session")
	}

	if _, err := client.Login(ctx, "12345678901", "secret", "000000"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong code: expected ErrInvalidCredentials, got %v", err)
	}

	// Same username and password, code added.
	if _, err := client.Login(ctx, "12345678901", "secret", "123456"); err != nil {
		t.Fatalf("Login with code: %v", err)
	}
	if !store.Snapshot().Authenticated() {
		t.Fatal("session should be committed after the second round-trip")
	}
}

func TestClient_StaleLoginResponseIgnored(t *testing.T) {
	client, store := newTestClient(t, &fakeBackend{})

	// Another login already won while this request was in flight.
	done := make(chan struct{})
	store.Set(Identity{ID: 99, FullName: "Newer Session", Role: RoleAdmin}, "tok-newer")
	go func() {
		defer close(done)
		client.Login(context.Background(), "12345678901", "secret", "")
	}()
	<-done

	sess := store.Snapshot()
	if sess.Token != "tok-newer" || sess.User.ID != 99 {
		t.Fatalf("stale login response overwrote a newer session: %+v", sess)
	}
}

func TestClient_MeRefreshesIdentity(t *testing.T) {
	client, store := newTestClient(t, &fakeBackend{mustChange: true})
	ctx := context.Background()

	if _, err := client.Login(ctx, "12345678901", "secret", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !store.Snapshot().User.MustChangePassword {
		t.Fatal("fixture should log in with the flag set")
	}
	if dec := Resolve("/dashboard", store.Snapshot()); dec.Path != PathChangePassword {
		t.Fatalf("flagged session should redirect to change-password, got %+v", dec)
	}

	user, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.MustChangePassword {
		t.Fatal("backend cleared the flag; Me should reflect that")
	}

	sess := store.Snapshot()
	if sess.Token != "tok-abc" {
		t.Fatalf("Me must not rotate the token, got %q", sess.Token)
	}
	if dec := Resolve("/dashboard", sess); dec.Redirect {
		t.Fatalf("dashboard should render after the refresh, got %+v", dec)
	}
}

func TestClient_MeWithoutSession(t *testing.T) {
	client, _ := newTestClient(t, &fakeBackend{})
	if _, err := client.Me(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestClient_ChangePasswordClearsSession(t *testing.T) {
	backend := &fakeBackend{}
	client, store := newTestClient(t, backend)
	ctx := context.Background()

	if _, err := client.Login(ctx, "12345678901", "secret", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := client.ChangePassword(ctx, "wrong", "newpass"); !errors.Is(err, ErrSessionExpired) {
		// The backend answers 401 for a wrong current password.
		t.Fatalf("expected ErrSessionExpired mapping, got %v", err)
	}
	if !store.Snapshot().Authenticated() {
		t.Fatal("failed change must keep the session")
	}

	if err := client.ChangePassword(ctx, "secret", "newpass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if backend.passwordCalls != 2 {
		t.Fatalf("passwordCalls = %d", backend.passwordCalls)
	}
	if store.Snapshot().Authenticated() {
		t.Fatal("token is revoked server-side; the session should be cleared")
	}
}

func TestClient_Logout(t *testing.T) {
	backend := &fakeBackend{}
	client, store := newTestClient(t, backend)
	ctx := context.Background()

	if _, err := client.Login(ctx, "12345678901", "secret", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if backend.logoutCalls != 1 {
		t.Fatalf("logoutCalls = %d", backend.logoutCalls)
	}
	if store.Snapshot().Authenticated() {
		t.Fatal("session should be cleared after logout")
	}

	// Logged out already: still a no-op, no second backend call.
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if backend.logoutCalls != 1 {
		t.Fatalf("logoutCalls after second Logout = %d", backend.logoutCalls)
	}
}
