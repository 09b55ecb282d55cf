// Package owner — service.go содержит аутентификацию владельца бота:
// проверку пароля Argon2id, лимит попыток и in-memory сессии.
package owner

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"aegisix.ru/group-bot/internal/common"
	"aegisix.ru/group-bot/internal/config"
)

const (
	maxLoginAttempts = 3
	attemptWindow    = 1 * time.Hour
	sessionTTL       = 24 * time.Hour
)

// Service управляет доступом владельца к служебным командам.
type Service struct {
	cfg *config.Config

	mu       sync.Mutex
	attempts map[int64][]time.Time // Неудачные попытки входа
	sessions map[int64]time.Time   // Срок действия активных сессий
}

// NewService создаёт сервис владельца.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		attempts: make(map[int64][]time.Time),
		sessions: make(map[int64]time.Time),
	}
}

// IsOwner проверяет, является ли пользователь владельцем бота.
func (s *Service) IsOwner(userID int64) bool {
	return s.cfg.BotOwnerID != 0 && userID == s.cfg.BotOwnerID
}

// VerifyLogin проверяет пароль владельца и открывает сессию на 24 часа.
// Защита от brute-force: 3 неудачные попытки = блокировка на 1 час.
func (s *Service) VerifyLogin(userID int64, password string, now time.Time) error {
	if !s.IsOwner(userID) {
		return common.ErrNotOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := s.recentAttemptsLocked(userID, now)
	if len(recent) >= maxLoginAttempts {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.cfg.OwnerPasswordHash) {
		s.attempts[userID] = append(recent, now)
		log.WithField("user_id", userID).Warn("Неудачная попытка входа владельца")
		return common.ErrWrongPassword
	}

	delete(s.attempts, userID)
	s.sessions[userID] = now.Add(sessionTTL)
	log.WithField("user_id", userID).Info("Владелец вошёл в систему")
	return nil
}

// HasSession проверяет, есть ли у пользователя активная сессия владельца.
func (s *Service) HasSession(userID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if now.After(expires) {
		delete(s.sessions, userID)
		return false
	}
	return true
}

// Logout закрывает сессию владельца.
func (s *Service) Logout(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *Service) recentAttemptsLocked(userID int64, now time.Time) []time.Time {
	var recent []time.Time
	for _, at := range s.attempts[userID] {
		if now.Sub(at) < attemptWindow {
			recent = append(recent, at)
		}
	}
	return recent
}

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
