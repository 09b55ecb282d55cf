// Package chats — service.go содержит бизнес-логику реестра чатов.
package chats

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Service отслеживает чаты, в которых работает бот.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис реестра чатов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Track регистрирует чат входящего сообщения.
// Группы и личные чаты ведутся отдельными списками.
func (s *Service) Track(chat *tgbotapi.Chat) {
	if chat == nil {
		return
	}

	var err error
	switch chat.Type {
	case "group", "supergroup":
		err = s.repo.TrackGroup(jsonstore.ChatID(chat.ID))
	case "private":
		err = s.repo.TrackUser(jsonstore.ChatID(chat.ID))
	default:
		return
	}

	if err != nil {
		log.WithFields(log.Fields{
			"chat_id":   chat.ID,
			"chat_type": chat.Type,
		}).WithError(err).Error("Не удалось сохранить чат в реестре")
	}
}

// HandleBotRemoved убирает группу из реестра после удаления бота.
func (s *Service) HandleBotRemoved(chatID int64) {
	if err := s.repo.RemoveGroup(jsonstore.ChatID(chatID)); err != nil {
		log.WithField("chat_id", chatID).WithError(err).Error("Не удалось убрать чат из реестра")
		return
	}
	log.WithField("chat_id", chatID).Info("Бот удалён из группы, чат убран из реестра")
}

// Groups возвращает список групп для рассылки.
func (s *Service) Groups() []int64 {
	return s.repo.Groups()
}

// Stats возвращает статистику реестра.
func (s *Service) Stats() (groups, users int) {
	return s.repo.Stats()
}
