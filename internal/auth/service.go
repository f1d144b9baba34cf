package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Enzoamyr17/ZipTask/internal/core"
	"github.com/Enzoamyr17/ZipTask/internal/storage"
)

// ErrInvalidCredentials is returned for a bad email/password pair. Sign-in
// deliberately does not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// UserStore persists accounts.
// Implementations: storage.Store, storage.MemoryStore
type UserStore interface {
	CreateUser(ctx context.Context, user *storage.UserRecord) error
	GetUserByEmail(ctx context.Context, email string) (*storage.UserRecord, error)
}

// Claims carries the session identity inside a signed token. Subject holds
// the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service signs users up and in, verifies tokens, and notifies subscribers
// whenever the session changes. It is safe for concurrent use.
type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	idGen  core.IDGenerator
	now    func() time.Time

	mu      sync.Mutex
	subs    map[int]func(*core.Session)
	nextSub int
}

// ServiceDeps allows injecting dependencies for testing
type ServiceDeps struct {
	Users    UserStore
	Secret   []byte
	TokenTTL time.Duration
	IDGen    core.IDGenerator
	Now      func() time.Time
}

// NewService creates an auth service with default dependencies.
func NewService(users UserStore, secret []byte, ttl time.Duration) *Service {
	return NewServiceWithDeps(ServiceDeps{Users: users, Secret: secret, TokenTTL: ttl})
}

// NewServiceWithDeps creates an auth service with explicit dependencies.
func NewServiceWithDeps(deps ServiceDeps) *Service {
	if deps.IDGen == nil {
		deps.IDGen = core.NewIDGenerator()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TokenTTL <= 0 {
		deps.TokenTTL = 24 * time.Hour
	}
	return &Service{
		users:  deps.Users,
		secret: deps.Secret,
		ttl:    deps.TokenTTL,
		idGen:  deps.IDGen,
		now:    deps.Now,
		subs:   make(map[int]func(*core.Session)),
	}
}

// SignUp registers a new account and signs it in. The returned token
// authenticates subsequent requests.
func (s *Service) SignUp(ctx context.Context, email, password string) (*core.Session, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", &core.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(password) < 8 {
		return nil, "", &core.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", &core.ValidationError{Field: "email", Reason: "already registered"}
	case !errors.Is(err, core.ErrNotFound):
		return nil, "", &core.BackendError{Op: "look up email", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &storage.UserRecord{
		ID:           s.idGen.GenerateID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", &core.BackendError{Op: "create user", Err: err}
	}

	return s.establish(user)
}

// SignIn verifies credentials and returns the session and a signed token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*core.Session, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", &core.BackendError{Op: "look up email", Err: err}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	return s.establish(user)
}

// SignOut ends the session. Subscribers receive nil.
func (s *Service) SignOut() {
	s.notify(nil)
}

// establish builds the session, signs a token for it, and notifies
// subscribers.
func (s *Service) establish(user *storage.UserRecord) (*core.Session, string, error) {
	session := &core.Session{UserID: user.ID, Email: user.Email}

	now := s.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	s.notify(session)
	return session, token, nil
}

// SessionFromToken verifies a token and reconstructs its session.
func (s *Service) SessionFromToken(tokenString string) (*core.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &core.Session{UserID: claims.Subject, Email: claims.Email}, nil
}

// Subscribe registers a callback invoked on every session change: the new
// session on sign-in, nil on sign-out. The returned function unsubscribes.
func (s *Service) Subscribe(fn func(*core.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) notify(session *core.Session) {
	s.mu.Lock()
	fns := make([]func(*core.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}
