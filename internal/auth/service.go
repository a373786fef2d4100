// Package auth gates dispatcher actions behind the directory users
// table and short-lived session tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadflow/meeting-router/internal/directory"
)

var (
	ErrMissingConfig  = errors.New("missing session secret")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrTokenInvalid   = errors.New("invalid session token")
)

const defaultSessionTTL = 12 * time.Hour

// UserPort looks up dispatcher accounts.
type UserPort interface {
	FindUser(ctx context.Context, username string) (*directory.User, error)
}

type Config struct {
	Secret []byte
	TTL    time.Duration
}

// ConfigFromEnv reads the session secret from SESSION_SECRET.
func ConfigFromEnv() Config {
	return Config{Secret: []byte(os.Getenv("SESSION_SECRET")), TTL: defaultSessionTTL}
}

func (c Config) Validate() error {
	if len(c.Secret) == 0 {
		return ErrMissingConfig
	}
	return nil
}

// Session is a successful login result.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Service struct {
	cfg    Config
	users  UserPort
	clock  clockwork.Clock
	logger *zap.SugaredLogger
}

func NewService(cfg Config, users UserPort, clock clockwork.Clock, logger *zap.SugaredLogger) *Service {
	if cfg.TTL == 0 {
		cfg.TTL = defaultSessionTTL
	}
	return &Service{cfg: cfg, users: users, clock: clock, logger: logger}
}

// Login verifies credentials against the directory users table and
// issues a signed session token. Stored passwords are bcrypt hashes;
// legacy plaintext values are compared in constant time until the table
// is migrated.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.FindUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if user == nil || !verifyPassword(user.Password, password) {
		return nil, ErrBadCredentials
	}

	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"name": user.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Session{Token: signed, Username: user.Username, Name: user.DisplayName}, nil
}

// Verify parses a bearer token and returns the dispatcher username.
func (s *Service) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}

func verifyPassword(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
