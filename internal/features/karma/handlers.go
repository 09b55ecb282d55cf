// Package karma — handlers.go обрабатывает команды:
// /rewards, /karma, /give, /store, /buy, /leaderboard.
package karma

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/common"
	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Handler обрабатывает команды экономики кармы.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
	cfg     *config.Config
}

// NewHandler создаёт обработчик команд кармы.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, cfg *config.Config) *Handler {
	return &Handler{service: service, bot: bot, cfg: cfg}
}

// HandleRewards — команда /rewards. Выдаёт ежедневную случайную награду.
func (h *Handler) HandleRewards(ctx context.Context, chatID int64, userID int64, username string) {
	res, err := h.service.ClaimReward(jsonstore.UserID(userID), username, time.Now())
	if err != nil {
		var cooldown *common.CooldownError
		if errors.As(err, &cooldown) {
			h.sendMessage(chatID, fmt.Sprintf("⏳ You can claim rewards again in %s", common.FormatRemaining(cooldown.Remaining)))
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка выдачи награды")
		h.sendMessage(chatID, "❌ Failed to claim rewards, try again later")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"🎉 You received %d karma points!\nCurrent balance: %d points",
		res.Amount, res.Balance,
	))
}

// HandleKarma — команда /karma [@username]. Показывает баланс и статусы.
func (h *Handler) HandleKarma(ctx context.Context, chatID int64, userID int64, args []string) {
	var (
		stats Stats
		err   error
	)
	if len(args) > 0 {
		stats, err = h.service.StatsByUsername(strings.TrimPrefix(args[0], "@"))
	} else {
		stats, err = h.service.StatsOf(jsonstore.UserID(userID))
	}

	switch {
	case errors.Is(err, common.ErrUserNotFound):
		h.sendMessage(chatID, "❌ User not found")
		return
	case errors.Is(err, common.ErrNoAccount):
		h.sendMessage(chatID, "You don't have any karma yet. Use /rewards to claim your first points!")
		return
	case err != nil:
		log.WithError(err).Error("Ошибка получения кармы")
		h.sendMessage(chatID, "❌ Failed to fetch karma")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 *User:* %s\n", stats.Username))
	sb.WriteString(fmt.Sprintf("💰 *Karma Points:* %s\n", common.FormatNumber(stats.Karma)))
	if len(stats.Statuses) > 0 {
		names := make([]string, 0, len(stats.Statuses))
		for _, p := range stats.Statuses {
			names = append(names, p.Name)
		}
		sb.WriteString(fmt.Sprintf("🏆 *Owned Statuses:*\n%s", strings.Join(names, " ")))
	} else {
		sb.WriteString("\n💫 *Tip:* Use /store to see available statuses!")
	}

	h.sendMarkdown(chatID, sb.String())
}

// HandleGive — команда /give @username amount. Переводит карму.
func (h *Handler) HandleGive(ctx context.Context, chatID int64, userID int64, args []string) {
	if len(args) != 2 {
		h.sendMessage(chatID, "❌ Usage: /give @username amount")
		return
	}

	username := strings.TrimPrefix(args[0], "@")
	amount, err := strconv.Atoi(args[1])
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Please specify a valid amount")
		return
	}

	balance, err := h.service.Transfer(jsonstore.UserID(userID), username, amount)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoAccount):
			h.sendMessage(chatID, "❌ You don't have any karma points")
		case errors.Is(err, common.ErrInsufficientKarma):
			h.sendMessage(chatID, "❌ Insufficient karma points")
		case errors.Is(err, common.ErrUserNotFound):
			h.sendMessage(chatID, "❌ User not found")
		case errors.Is(err, common.ErrSelfTransfer):
			h.sendMessage(chatID, "❌ You can't send karma to yourself")
		default:
			log.WithError(err).Error("Ошибка перевода кармы")
			h.sendMessage(chatID, "❌ Transfer failed")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"✅ Successfully sent %d karma to @%s\nYour new balance: %d",
		amount, username, balance,
	))
}

// HandleStore — команда /store. Показывает каталог статусов.
func (h *Handler) HandleStore(ctx context.Context, chatID int64) {
	var sb strings.Builder
	sb.WriteString("*🏪 Karma Store*\n\n")
	for _, p := range Catalog {
		sb.WriteString(fmt.Sprintf("*%s*\n", p.Name))
		sb.WriteString(fmt.Sprintf("Price: %s karma\n", common.FormatNumber(p.Price)))
		sb.WriteString(fmt.Sprintf("PID: `%s`\n\n", p.ID))
	}
	sb.WriteString("\nTo buy: `/buy PID`")

	h.sendMarkdown(chatID, sb.String())
}

// HandleBuy — команда /buy PID. Покупает статус за карму.
func (h *Handler) HandleBuy(ctx context.Context, chatID int64, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Please specify a Product ID (PID)")
		return
	}

	res, err := h.service.Purchase(jsonstore.UserID(userID), strings.ToUpper(args[0]), time.Now())
	if err != nil {
		var shortfall *common.ShortfallError
		switch {
		case errors.Is(err, common.ErrUnknownProduct):
			h.sendMessage(chatID, "❌ Invalid Product ID")
		case errors.Is(err, common.ErrNoAccount):
			h.sendMessage(chatID, "❌ You don't have any karma points")
		case errors.As(err, &shortfall):
			h.sendMessage(chatID, fmt.Sprintf(
				"❌ Insufficient karma points\nYou need %s more points",
				common.FormatNumber(shortfall.Shortfall),
			))
		case errors.Is(err, common.ErrAlreadyOwned):
			h.sendMessage(chatID, "❌ You already own this status")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка покупки")
			h.sendMessage(chatID, "❌ Purchase failed, try again later")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"✅ Successfully purchased %s\nRemaining karma: %s",
		res.Product.Name, common.FormatNumber(res.Balance),
	))
}

// HandleStatusLeaderboard — команда /leaderboard. Топ по статусам.
func (h *Handler) HandleStatusLeaderboard(ctx context.Context, chatID int64) {
	rows := h.service.StatusLeaderboard(h.cfg.LeaderboardSize)
	if len(rows) == 0 {
		h.sendMessage(chatID, "No purchases yet!")
		return
	}

	var sb strings.Builder
	sb.WriteString("*🏆 Status Leaderboard*\n\n")
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%s @%s\n", common.Medal(i), row.Username))
		sb.WriteString(fmt.Sprintf("Statuses: %s\n\n", strings.Join(row.Statuses, " ")))
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
		h.sendMessage(chatID, text)
	}
}
