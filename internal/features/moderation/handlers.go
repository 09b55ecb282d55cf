// Package moderation — handlers.go обрабатывает модераторские команды:
// /warn, /warns, /mute, /unmute, /ban, /unban, /clean, /pin, /unpin, /poll.
// Все команды, кроме /warns и /poll, требуют прав администратора чата.
package moderation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/bot/filters"
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Handler обрабатывает модераторские команды.
type Handler struct {
	repo  *Repository
	bot   *tgbotapi.BotAPI
	admin *filters.AdminGate
}

// NewHandler создаёт обработчик модерации.
func NewHandler(repo *Repository, bot *tgbotapi.BotAPI, admin *filters.AdminGate) *Handler {
	return &Handler{repo: repo, bot: bot, admin: admin}
}

// HandleWarn — команда /warn (ответом на сообщение нарушителя).
func (h *Handler) HandleWarn(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}
	target := replyTarget(message)
	if target == nil {
		h.sendMessage(message.Chat.ID, "⚠️ Reply to a message to warn the user")
		return
	}

	total, err := h.repo.AddWarning(jsonstore.UserID(target.ID))
	if err != nil {
		log.WithError(err).WithField("user_id", target.ID).Error("Ошибка записи предупреждения")
		h.sendMessage(message.Chat.ID, "❌ Failed to warn user")
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf(
		"⚠️ @%s has been warned.\nTotal warnings: %d", displayName(target), total,
	))
}

// HandleWarns — команда /warns. Показывает счётчик предупреждений:
// свой или того, на чьё сообщение ответили.
func (h *Handler) HandleWarns(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	if target := replyTarget(message); target != nil {
		userID = target.ID
	}
	count := h.repo.Warnings(jsonstore.UserID(userID))
	h.sendMessage(message.Chat.ID, fmt.Sprintf("Total warnings: %d", count))
}

// HandleMute — команда /mute [минуты] (по умолчанию 60).
func (h *Handler) HandleMute(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !h.requireAdmin(message) {
		return
	}
	target := replyTarget(message)
	if target == nil {
		h.sendMessage(message.Chat.ID, "⚠️ Reply to a message to mute the user")
		return
	}

	minutes := 60
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			minutes = v
		}
	}

	restrict := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: message.Chat.ID,
			UserID: target.ID,
		},
		UntilDate: time.Now().Add(time.Duration(minutes) * time.Minute).Unix(),
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages: false,
		},
	}
	if _, err := h.bot.Request(restrict); err != nil {
		log.WithError(err).WithField("user_id", target.ID).Error("Ошибка мута")
		h.sendMessage(message.Chat.ID, "❌ Failed to mute user")
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("🤐 User muted for %d minutes", minutes))
}

// HandleUnmute — команда /unmute. Возвращает стандартные права.
func (h *Handler) HandleUnmute(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}
	target := replyTarget(message)
	if target == nil {
		h.sendMessage(message.Chat.ID, "⚠️ Reply to a message to unmute the user")
		return
	}

	restrict := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: message.Chat.ID,
			UserID: target.ID,
		},
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       true,
			CanSendMediaMessages:  true,
			CanSendPolls:          true,
			CanSendOtherMessages:  true,
			CanAddWebPagePreviews: true,
		},
	}
	if _, err := h.bot.Request(restrict); err != nil {
		log.WithError(err).WithField("user_id", target.ID).Error("Ошибка анмута")
		h.sendMessage(message.Chat.ID, "❌ Failed to unmute user")
		return
	}

	h.sendMessage(message.Chat.ID, "🔊 User unmuted")
}

// HandleBan — команда /ban.
func (h *Handler) HandleBan(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}
	target := replyTarget(message)
	if target == nil {
		h.sendMessage(message.Chat.ID, "⚠️ Reply to a message to ban the user")
		return
	}

	ban := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: message.Chat.ID,
			UserID: target.ID,
		},
	}
	if _, err := h.bot.Request(ban); err != nil {
		log.WithError(err).WithField("user_id", target.ID).Error("Ошибка бана")
		h.sendMessage(message.Chat.ID, "❌ Failed to ban user")
		return
	}

	h.sendMessage(message.Chat.ID, "🚫 User banned")
}

// HandleUnban — команда /unban.
func (h *Handler) HandleUnban(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}
	target := replyTarget(message)
	if target == nil {
		h.sendMessage(message.Chat.ID, "⚠️ Reply to a message to unban the user")
		return
	}

	unban := tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: message.Chat.ID,
			UserID: target.ID,
		},
	}
	if _, err := h.bot.Request(unban); err != nil {
		log.WithError(err).WithField("user_id", target.ID).Error("Ошибка разбана")
		h.sendMessage(message.Chat.ID, "❌ Failed to unban user")
		return
	}

	h.sendMessage(message.Chat.ID, "✅ User unbanned")
}

// HandleClean — команда /clean [n]. Удаляет до 100 последних сообщений.
// Удаление best-effort: часть сообщений может быть слишком старой.
func (h *Handler) HandleClean(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !h.requireAdmin(message) {
		return
	}

	amount := 10
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			amount = v
		}
	}
	if amount > 100 {
		amount = 100
	}

	for i := 0; i < amount; i++ {
		del := tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID-i)
		if _, err := h.bot.Request(del); err != nil {
			continue
		}
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("🧹 Cleaned %d messages", amount))
}

// HandlePoll — команда /poll. Формат многострочный:
//
//	/poll Question
//	Option 1
//	Option 2
func (h *Handler) HandlePoll(ctx context.Context, message *tgbotapi.Message) {
	lines := strings.Split(message.Text, "\n")
	if len(lines) < 3 {
		h.sendMessage(message.Chat.ID,
			"❌ Please use this format:\n/poll Question\nOption 1\nOption 2\n[Option 3...]")
		return
	}

	question := strings.TrimSpace(strings.TrimPrefix(lines[0], "/poll"))
	options := lines[1:]

	poll := tgbotapi.NewPoll(message.Chat.ID, question, options...)
	poll.IsAnonymous = true
	if _, err := h.bot.Send(poll); err != nil {
		log.WithError(err).Error("Ошибка создания опроса")
		h.sendMessage(message.Chat.ID, "❌ Failed to create poll")
	}
}

// HandlePin — команда /pin (ответом на сообщение).
func (h *Handler) HandlePin(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}
	if message.ReplyToMessage == nil {
		h.sendMessage(message.Chat.ID, "⚠️ Reply to a message to pin it")
		return
	}

	pin := tgbotapi.PinChatMessageConfig{
		ChatID:    message.Chat.ID,
		MessageID: message.ReplyToMessage.MessageID,
	}
	if _, err := h.bot.Request(pin); err != nil {
		log.WithError(err).Error("Ошибка закрепления")
		h.sendMessage(message.Chat.ID, "❌ Failed to pin message")
		return
	}

	h.sendMessage(message.Chat.ID, "📌 Message pinned")
}

// HandleUnpin — команда /unpin.
func (h *Handler) HandleUnpin(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}

	unpin := tgbotapi.UnpinChatMessageConfig{ChatID: message.Chat.ID}
	if _, err := h.bot.Request(unpin); err != nil {
		log.WithError(err).Error("Ошибка открепления")
		h.sendMessage(message.Chat.ID, "❌ Failed to unpin message")
		return
	}

	h.sendMessage(message.Chat.ID, "📍 Message unpinned")
}

// requireAdmin проверяет права администратора и отвечает отказом, если их нет.
func (h *Handler) requireAdmin(message *tgbotapi.Message) bool {
	if h.admin.IsAdmin(message.Chat.ID, message.From.ID) {
		return true
	}
	h.sendMessage(message.Chat.ID, "❌ Only admins can use this command")
	return false
}

// replyTarget возвращает автора сообщения, на которое ответили.
func replyTarget(message *tgbotapi.Message) *tgbotapi.User {
	if message.ReplyToMessage == nil || message.ReplyToMessage.From == nil {
		return nil
	}
	return message.ReplyToMessage.From
}

// displayName возвращает username или ID, если username не задан.
func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return strconv.FormatInt(user.ID, 10)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
