package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Enzoamyr17/ZipTask/internal/core"
	"github.com/Enzoamyr17/ZipTask/internal/storage"
)

func newTestService(now func() time.Time) *Service {
	return NewServiceWithDeps(ServiceDeps{
		Users:    storage.NewMemoryStore(),
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
		Now:      now,
	})
}

func TestSignUpAndTokenRoundTrip(t *testing.T) {
	s := newTestService(nil)

	session, token, err := s.SignUp(context.Background(), "Alice@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", session.Email)
	}
	if session.UserID == "" || token == "" {
		t.Fatalf("session = %+v, token = %q", session, token)
	}

	got, err := s.SessionFromToken(token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if got.UserID != session.UserID || got.Email != session.Email {
		t.Errorf("token session = %+v, want %+v", got, session)
	}
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "long enough"},
		{"not an email", "alice", "long enough"},
		{"short password", "alice@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(nil)
			_, _, err := s.SignUp(context.Background(), tt.email, tt.password)
			if !core.IsValidation(err) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	if _, _, err := s.SignUp(ctx, "alice@example.com", "correct horse"); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	_, _, err := s.SignUp(ctx, "alice@example.com", "another pass")
	if !core.IsValidation(err) {
		t.Errorf("duplicate signup err = %v, want ValidationError", err)
	}
}

func TestSignIn(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	if _, _, err := s.SignUp(ctx, "alice@example.com", "correct horse"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	session, token, err := s.SignIn(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.Email != "alice@example.com" || token == "" {
		t.Errorf("session = %+v, token = %q", session, token)
	}

	// Unknown email and wrong password produce the same error.
	if _, _, err := s.SignIn(ctx, "bob@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := s.SignIn(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s := newTestService(func() time.Time { return now })

	_, token, err := s.SignUp(context.Background(), "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := s.SessionFromToken(token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := s.SessionFromToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token err = %v, want ErrInvalidToken", err)
	}
}

func TestTamperedToken(t *testing.T) {
	s := newTestService(nil)
	other := newTestService(nil)
	other.secret = []byte("different-secret")

	_, token, err := other.SignUp(context.Background(), "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := s.SessionFromToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign-secret token err = %v, want ErrInvalidToken", err)
	}
	if _, err := s.SessionFromToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	var events []*core.Session
	unsubscribe := s.Subscribe(func(session *core.Session) {
		events = append(events, session)
	})

	session, _, err := s.SignUp(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	s.SignOut()

	if len(events) != 2 {
		t.Fatalf("got %d events, want sign-in then sign-out", len(events))
	}
	if events[0] == nil || events[0].UserID != session.UserID {
		t.Errorf("first event = %+v, want the new session", events[0])
	}
	if events[1] != nil {
		t.Errorf("second event = %+v, want nil on sign-out", events[1])
	}

	unsubscribe()
	s.SignOut()
	if len(events) != 2 {
		t.Errorf("got %d events after unsubscribe, want no more", len(events))
	}
}
