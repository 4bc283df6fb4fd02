package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"arenax-client/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Store holds the bearer credential for the current user. It replaces the
// ambient browser storage of the web client with an explicit object: loaded
// from disk at construction, written through on Set, removed on Clear. With
// an empty path the store is memory-only and the credential does not survive
// the process.
type Store struct {
	mu    sync.RWMutex
	path  string
	token string
}

// New builds a store backed by the file at path. Read errors are treated as
// "no session": a corrupt or missing file leaves the user logged out.
func New(path string) *Store {
	s := &Store{path: path}

	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Warn("failed to read session file", zap.String("path", path), zap.Error(err))
		}
		return s
	}

	s.token = strings.TrimSpace(string(data))
	return s
}

// Token returns the current credential, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set persists the credential. An empty value behaves like Clear.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token

	if s.path == "" {
		return
	}

	if token == "" {
		s.removeFile()
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		logger.L().Warn("failed to create session dir", zap.String("path", s.path), zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		logger.L().Warn("failed to write session file", zap.String("path", s.path), zap.Error(err))
	}
}

// Clear drops the credential and removes the backing file.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if s.path != "" {
		s.removeFile()
	}
}

func (s *Store) removeFile() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.L().Warn("failed to remove session file", zap.String("path", s.path), zap.Error(err))
	}
}

// Claims is the subset of the platform's JWT payload shown to the user.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Claims decodes the stored token without verifying its signature. The
// gateway treats the credential as opaque; this exists only for display
// (whoami, expiry warnings). A token that is not a JWT yields (nil, false).
func (s *Store) Claims() (*Claims, bool) {
	token := s.Token()
	if token == "" {
		return nil, false
	}

	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, false
	}
	return &claims, true
}

// Expired reports whether the stored token carries an exp claim in the past.
// Opaque (non-JWT) tokens are never considered expired here.
func (s *Store) Expired() bool {
	claims, ok := s.Claims()
	if !ok || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
