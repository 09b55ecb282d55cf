// Package chats — handlers.go обрабатывает команды рассылки и статистики чатов.
package chats

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/features/owner"
)

// Handler обрабатывает команды владельца над реестром чатов.
type Handler struct {
	service *Service
	owner   *owner.Service
	bot     *tgbotapi.BotAPI
	cfg     *config.Config
}

// NewHandler создаёт обработчик реестра чатов.
func NewHandler(service *Service, ownerService *owner.Service, bot *tgbotapi.BotAPI, cfg *config.Config) *Handler {
	return &Handler{service: service, owner: ownerService, bot: bot, cfg: cfg}
}

// HandleBroadcast рассылает сообщение во все группы из реестра.
// Доступна только владельцу с активной сессией.
func (h *Handler) HandleBroadcast(message *tgbotapi.Message, args string) {
	if !h.requireOwner(message) {
		return
	}

	photo := largestPhoto(message.Photo)
	if args == "" && photo == nil {
		h.reply(message, "Usage: /broadcast <text> (or attach a photo with /broadcast in the caption)")
		return
	}

	groups := h.service.Groups()
	if len(groups) == 0 {
		h.reply(message, "There are no groups to broadcast to yet.")
		return
	}

	sent, failed := 0, 0
	for _, chatID := range groups {
		var err error
		if photo != nil {
			msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photo.FileID))
			msg.Caption = args
			_, err = h.bot.Send(msg)
		} else {
			_, err = h.bot.Send(tgbotapi.NewMessage(chatID, args))
		}

		if err != nil {
			failed++
			log.WithField("chat_id", chatID).WithError(err).Warn("Не удалось доставить рассылку в чат")
		} else {
			sent++
		}

		// Пауза между отправками, чтобы не упереться в лимиты Telegram
		time.Sleep(h.cfg.BroadcastDelay)
	}

	log.WithFields(log.Fields{
		"sent":   sent,
		"failed": failed,
	}).Info("Рассылка завершена")
	h.reply(message, fmt.Sprintf("📢 Broadcast finished: delivered to %d group(s), failed for %d.", sent, failed))
}

// HandleChats показывает владельцу статистику реестра чатов.
func (h *Handler) HandleChats(message *tgbotapi.Message) {
	if !h.requireOwner(message) {
		return
	}

	groups, users := h.service.Stats()
	h.reply(message, fmt.Sprintf("💬 The bot is active in %d group(s) and %d private chat(s).", groups, users))
}

// requireOwner пускает дальше только владельца с активной сессией.
func (h *Handler) requireOwner(message *tgbotapi.Message) bool {
	if !h.owner.IsOwner(message.From.ID) {
		h.reply(message, "This command is not for you.")
		return false
	}
	if !h.owner.HasSession(message.From.ID, time.Now()) {
		h.reply(message, "Please log in first: send /login <password> in a private chat.")
		return false
	}
	return true
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Не удалось отправить сообщение")
	}
}

// largestPhoto возвращает самый крупный вариант фото из сообщения.
func largestPhoto(sizes []tgbotapi.PhotoSize) *tgbotapi.PhotoSize {
	if len(sizes) == 0 {
		return nil
	}
	best := sizes[0]
	for _, ps := range sizes[1:] {
		if ps.Width*ps.Height > best.Width*best.Height {
			best = ps
		}
	}
	return &best
}
