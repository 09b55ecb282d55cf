// Package ranking — handlers.go обрабатывает подсчёт сообщений,
// команды /rank и /lb.
package ranking

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/common"
	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Handler обрабатывает события и команды рангов.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
	cfg     *config.Config
}

// NewHandler создаёт обработчик рангов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, cfg *config.Config) *Handler {
	return &Handler{service: service, bot: bot, cfg: cfg}
}

// HandleMessage засчитывает входящее сообщение и при повышении ранга
// отправляет поздравление в чат.
func (h *Handler) HandleMessage(ctx context.Context, chatID int64, userID int64, username string) {
	res, err := h.service.RecordMessage(jsonstore.ChatID(chatID), jsonstore.UserID(userID), username, time.Now())
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id": chatID,
			"user_id": userID,
		}).Error("Ошибка подсчёта сообщения")
		return
	}

	if !res.LeveledUp {
		return
	}

	var sb strings.Builder
	sb.WriteString("🌟 *Level Up!* 🌟\n")
	sb.WriteString(fmt.Sprintf("Congratulations %s!\n\n", username))
	sb.WriteString(fmt.Sprintf("You've reached: *%s*\n", res.To.Name))
	sb.WriteString(fmt.Sprintf("Total Messages: *%s*\n\n", common.FormatNumber(res.Record.Messages)))
	sb.WriteString("Keep chatting to reach the next level!")
	if next := NextTier(res.To); next != nil {
		sb.WriteString(fmt.Sprintf("\nNext Rank: %s", next.Name))
	}

	h.sendMarkdown(chatID, sb.String())
}

// HandleRank — команда /rank. Показывает ранг, счётчик и прогресс
// до следующего ранга.
func (h *Handler) HandleRank(ctx context.Context, chatID int64, userID int64) {
	rec, tier, next, ok := h.service.UserStats(jsonstore.ChatID(chatID), jsonstore.UserID(userID))
	if !ok {
		h.sendMessage(chatID, "You haven't sent any messages yet!")
		return
	}

	var progress string
	if next != nil {
		bar := common.ProgressBar(rec.Messages, tier.MinMessages, next.MinMessages)
		progress = fmt.Sprintf("%s (%s/%s)", bar, common.FormatNumber(rec.Messages), common.FormatNumber(next.MinMessages))
	} else {
		progress = common.ProgressBar(1, 0, 1) + " (MAX)"
	}

	text := fmt.Sprintf(
		"👤 *User:* %s\n%s\n📊 *Messages:* %s\n📈 *Progress:*\n%s",
		rec.Username, tier.Name, common.FormatNumber(rec.Messages), progress,
	)
	if next != nil {
		text += fmt.Sprintf("\n\n*Next Rank:* %s", next.Name)
	}

	h.sendMarkdown(chatID, text)
}

// HandleLeaderboard — команды /lb и /top. Показывает топ чата.
func (h *Handler) HandleLeaderboard(ctx context.Context, chatID int64) {
	rows := h.service.Leaderboard(jsonstore.ChatID(chatID), h.cfg.LeaderboardSize)
	if len(rows) == 0 {
		h.sendMessage(chatID, "No rankings available for this chat!")
		return
	}

	var sb strings.Builder
	sb.WriteString("*📊 Group Leaderboard*\n\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s *%s*\n%s | Messages: %s\n\n",
			common.Medal(row.Position), row.Username, row.Tier.Name, common.FormatNumber(row.Messages)))
	}

	h.sendMarkdown(chatID, sb.String())
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

func (h *Handler) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		// Markdown мог не пройти из-за спецсимволов в username
		h.sendMessage(chatID, text)
	}
}
