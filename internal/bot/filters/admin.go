// Package filters содержит проверки доступа к командам бота.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// AdminGate проверяет, является ли пользователь администратором чата.
// Статус запрашивается у Telegram, кэш не ведётся: права могут меняться.
type AdminGate struct {
	bot *tgbotapi.BotAPI
}

// NewAdminGate создаёт проверку администраторских прав.
func NewAdminGate(bot *tgbotapi.BotAPI) *AdminGate {
	return &AdminGate{bot: bot}
}

// IsAdmin сообщает, является ли пользователь создателем или администратором чата.
func (g *AdminGate) IsAdmin(chatID, userID int64) bool {
	logger := log.WithFields(log.Fields{
		"component": "AdminGate",
		"chat_id":   chatID,
		"user_id":   userID,
	})

	cm, err := g.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		logger.WithError(err).Error("Не удалось получить статус участника")
		return false
	}

	switch cm.Status {
	case "creator", "administrator":
		return true
	default:
		logger.WithField("tg_status", cm.Status).Debug("deny: not an admin")
		return false
	}
}
