package owner

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"aegisix.ru/group-bot/internal/common"
	"aegisix.ru/group-bot/internal/config"
)

// hashPassword собирает хеш в том же формате, что scripts/generate_hash.go.
func hashPassword(t *testing.T, password string) string {
	t.Helper()

	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	var (
		memory      uint32 = 65536
		iterations  uint32 = 3
		parallelism uint8  = 2
	)
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	return NewService(&config.Config{
		BotOwnerID:        42,
		OwnerPasswordHash: hashPassword(t, password),
	})
}

func TestIsOwner(t *testing.T) {
	s := newTestService(t, "hunter2")

	assert.True(t, s.IsOwner(42))
	assert.False(t, s.IsOwner(7))
}

func TestVerifyLoginSuccess(t *testing.T) {
	s := newTestService(t, "hunter2")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.VerifyLogin(42, "hunter2", now))

	assert.True(t, s.HasSession(42, now))
	assert.True(t, s.HasSession(42, now.Add(23*time.Hour)))
	assert.False(t, s.HasSession(42, now.Add(25*time.Hour)), "сессия живёт 24 часа")
}

func TestVerifyLoginWrongPassword(t *testing.T) {
	s := newTestService(t, "hunter2")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := s.VerifyLogin(42, "letmein", now)
	assert.ErrorIs(t, err, common.ErrWrongPassword)
	assert.False(t, s.HasSession(42, now))
}

func TestVerifyLoginRejectsNonOwner(t *testing.T) {
	s := newTestService(t, "hunter2")

	err := s.VerifyLogin(7, "hunter2", time.Now())
	assert.ErrorIs(t, err, common.ErrNotOwner)
}

func TestVerifyLoginLockout(t *testing.T) {
	s := newTestService(t, "hunter2")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := s.VerifyLogin(42, "wrong", now.Add(time.Duration(i)*time.Minute))
		require.ErrorIs(t, err, common.ErrWrongPassword)
	}

	// Даже правильный пароль блокируется после 3 неудач
	err := s.VerifyLogin(42, "hunter2", now.Add(5*time.Minute))
	assert.ErrorIs(t, err, common.ErrTooManyAttempts)

	// Через час окно попыток очищается
	require.NoError(t, s.VerifyLogin(42, "hunter2", now.Add(62*time.Minute)))
}

func TestSuccessfulLoginResetsAttempts(t *testing.T) {
	s := newTestService(t, "hunter2")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.ErrorIs(t, s.VerifyLogin(42, "wrong", now), common.ErrWrongPassword)
	require.ErrorIs(t, s.VerifyLogin(42, "wrong", now), common.ErrWrongPassword)
	require.NoError(t, s.VerifyLogin(42, "hunter2", now))

	// Счётчик сброшен: снова есть три попытки
	s.Logout(42)
	require.ErrorIs(t, s.VerifyLogin(42, "wrong", now), common.ErrWrongPassword)
	require.ErrorIs(t, s.VerifyLogin(42, "wrong", now), common.ErrWrongPassword)
	require.NoError(t, s.VerifyLogin(42, "hunter2", now))
}

func TestLogout(t *testing.T) {
	s := newTestService(t, "hunter2")
	now := time.Now()

	require.NoError(t, s.VerifyLogin(42, "hunter2", now))
	require.True(t, s.HasSession(42, now))

	s.Logout(42)
	assert.False(t, s.HasSession(42, now))
}

func TestVerifyArgon2idMalformedHash(t *testing.T) {
	s := NewService(&config.Config{BotOwnerID: 42, OwnerPasswordHash: "not-a-hash"})

	err := s.VerifyLogin(42, "anything", time.Now())
	assert.ErrorIs(t, err, common.ErrWrongPassword)
}
