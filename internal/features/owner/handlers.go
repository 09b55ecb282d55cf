// Package owner — handlers.go обрабатывает команду входа владельца.
package owner

import (
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/common"
)

// Handler обрабатывает команды владельца.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд владельца.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLogin обрабатывает /login <пароль>. Работает только в личных сообщениях,
// чтобы пароль не попадал в историю группы.
func (h *Handler) HandleLogin(message *tgbotapi.Message, args string) {
	if !message.Chat.IsPrivate() {
		h.reply(message, "Login is only available in a private chat with the bot.")
		return
	}

	if args == "" {
		h.reply(message, "Usage: /login <password>")
		return
	}

	err := h.service.VerifyLogin(message.From.ID, args, time.Now())
	switch {
	case err == nil:
		h.reply(message, "✅ Logged in. The session is valid for 24 hours.")
	case errors.Is(err, common.ErrNotOwner):
		h.reply(message, "This command is not for you.")
	case errors.Is(err, common.ErrTooManyAttempts):
		h.reply(message, "Too many attempts. Try again in an hour.")
	case errors.Is(err, common.ErrWrongPassword):
		h.reply(message, "Wrong password.")
	default:
		log.WithError(err).Error("Ошибка входа владельца")
		h.reply(message, "Login failed, try again later.")
	}
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Не удалось отправить сообщение")
	}
}
