package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := Claims{
		UserID: "u1",
		Email:  "player@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStore_MemoryOnly(t *testing.T) {
	s := New("")

	assert.Equal(t, "", s.Token())

	s.Set("tok-123")
	assert.Equal(t, "tok-123", s.Token())

	s.Clear()
	assert.Equal(t, "", s.Token())
}

func TestStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")

	t.Run("SetPersists", func(t *testing.T) {
		s := New(path)
		s.Set("tok-abc")

		reloaded := New(path)
		assert.Equal(t, "tok-abc", reloaded.Token())
	})

	t.Run("ClearRemovesFile", func(t *testing.T) {
		s := New(path)
		s.Set("tok-abc")
		s.Clear()

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
		assert.Equal(t, "", New(path).Token())
	})

	t.Run("SetEmptyBehavesLikeClear", func(t *testing.T) {
		s := New(path)
		s.Set("tok-abc")
		s.Set("")

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("MissingFileMeansLoggedOut", func(t *testing.T) {
		s := New(filepath.Join(t.TempDir(), "nope"))
		assert.Equal(t, "", s.Token())
	})
}

func TestStore_Claims(t *testing.T) {
	t.Run("JWT", func(t *testing.T) {
		s := New("")
		s.Set(signedToken(t, time.Now().Add(time.Hour)))

		claims, ok := s.Claims()
		require.True(t, ok)
		assert.Equal(t, "player@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
		assert.False(t, s.Expired())
	})

	t.Run("ExpiredJWT", func(t *testing.T) {
		s := New("")
		s.Set(signedToken(t, time.Now().Add(-time.Hour)))

		_, ok := s.Claims()
		assert.True(t, ok)
		assert.True(t, s.Expired())
	})

	t.Run("OpaqueToken", func(t *testing.T) {
		s := New("")
		s.Set("not-a-jwt")

		_, ok := s.Claims()
		assert.False(t, ok)
		assert.False(t, s.Expired())
	})

	t.Run("NoToken", func(t *testing.T) {
		s := New("")

		_, ok := s.Claims()
		assert.False(t, ok)
	})
}
