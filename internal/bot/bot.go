// Package bot содержит главный модуль бота — запуск polling и маршрутизацию
// команд к обработчикам фич.
package bot

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/bot/middleware"
	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/features/chats"
	"aegisix.ru/group-bot/internal/features/karma"
	"aegisix.ru/group-bot/internal/features/moderation"
	"aegisix.ru/group-bot/internal/features/owner"
	"aegisix.ru/group-bot/internal/features/ranking"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	rateLimiter *middleware.RateLimiter

	rankingHandler    *ranking.Handler
	karmaHandler      *karma.Handler
	moderationHandler *moderation.Handler
	chatsHandler      *chats.Handler
	ownerHandler      *owner.Handler

	chatsService *chats.Service

	parser *CommandParser

	startedAt time.Time
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	rankingHandler *ranking.Handler,
	karmaHandler *karma.Handler,
	moderationHandler *moderation.Handler,
	chatsHandler *chats.Handler,
	ownerHandler *owner.Handler,
	chatsService *chats.Service,
) *Bot {
	return &Bot{
		api:               api,
		cfg:               cfg,
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		rankingHandler:    rankingHandler,
		karmaHandler:      karmaHandler,
		moderationHandler: moderationHandler,
		chatsHandler:      chatsHandler,
		ownerHandler:      ownerHandler,
		chatsService:      chatsService,
		parser:            NewCommandParser(api.Self.UserName),
		startedAt:         time.Now(),
	}
}

// Start запускает polling обновлений от Telegram.
// Обновления обрабатываются последовательно: порядок сообщений важен
// для подсчёта рангов, а хранилище — обычные JSON-файлы.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"bot":         b.api.Self.UserName,
		"timeout_sec": b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}

	// Реестр чатов: каждое сообщение подтверждает, что чат живой
	b.chatsService.Track(message.Chat)

	// Сервисные события: вступление и выход участников
	if message.NewChatMembers != nil {
		b.handleNewMembers(message)
		return
	}
	if message.LeftChatMember != nil {
		if message.LeftChatMember.ID == b.api.Self.ID {
			b.chatsService.HandleBotRemoved(message.Chat.ID)
		}
		return
	}

	if message.From == nil || message.From.IsBot {
		return
	}

	middleware.LogMessage(message)

	text := message.Text
	if text == "" {
		text = message.Caption
	}

	cmd, args, isCommand := b.parser.ParseCommand(text)
	if isCommand {
		if !b.rateLimiter.Allow(message.From.ID) {
			log.WithField("user_id", message.From.ID).Debug("rate limited")
			return
		}
		b.routeCommand(ctx, message, cmd, args)
		return
	}

	// Не команда: в группах каждое сообщение идёт в зачёт ранга
	if message.Chat.IsGroup() || message.Chat.IsSuperGroup() {
		b.rankingHandler.HandleMessage(ctx, message.Chat.ID, message.From.ID, displayName(message.From))
	}
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	chatID := message.Chat.ID
	userID := message.From.ID

	switch cmd {
	case "start":
		b.sendMessage(chatID, "👋 Hi! I keep track of activity, aura ranks and karma in this group.\nSend /help to see what I can do.")

	case "help":
		b.sendMessage(chatID, helpText)

	case "dev":
		b.handleDev(chatID)

	case "login":
		b.ownerHandler.HandleLogin(message, strings.Join(args, " "))

	// Ранги
	case "rank":
		b.rankingHandler.HandleRank(ctx, chatID, userID)
	case "lb", "top":
		b.rankingHandler.HandleLeaderboard(ctx, chatID)

	// Карма и магазин
	case "rewards":
		b.karmaHandler.HandleRewards(ctx, chatID, userID, displayName(message.From))
	case "karma":
		b.karmaHandler.HandleKarma(ctx, chatID, userID, args)
	case "give":
		b.karmaHandler.HandleGive(ctx, chatID, userID, args)
	case "store":
		b.karmaHandler.HandleStore(ctx, chatID)
	case "buy":
		b.karmaHandler.HandleBuy(ctx, chatID, userID, args)
	case "leaderboard":
		b.karmaHandler.HandleStatusLeaderboard(ctx, chatID)

	// Модерация
	case "warn":
		b.moderationHandler.HandleWarn(ctx, message)
	case "warns":
		b.moderationHandler.HandleWarns(ctx, message)
	case "mute":
		b.moderationHandler.HandleMute(ctx, message, args)
	case "unmute":
		b.moderationHandler.HandleUnmute(ctx, message)
	case "ban":
		b.moderationHandler.HandleBan(ctx, message)
	case "unban":
		b.moderationHandler.HandleUnban(ctx, message)
	case "clean":
		b.moderationHandler.HandleClean(ctx, message, args)
	case "poll":
		b.moderationHandler.HandlePoll(ctx, message)
	case "pin":
		b.moderationHandler.HandlePin(ctx, message)
	case "unpin":
		b.moderationHandler.HandleUnpin(ctx, message)

	// Команды владельца
	case "broadcast":
		b.chatsHandler.HandleBroadcast(message, strings.Join(args, " "))
	case "chats", "listchats":
		b.chatsHandler.HandleChats(message)
	}
}

// handleNewMembers приветствует новых участников группы.
func (b *Bot) handleNewMembers(message *tgbotapi.Message) {
	for _, user := range message.NewChatMembers {
		if user.ID == b.api.Self.ID {
			log.WithField("chat_id", message.Chat.ID).Info("Бот добавлен в группу")
			b.sendMessage(message.Chat.ID, "👋 Thanks for adding me! Send /help to see what I can do.")
			continue
		}
		if user.IsBot {
			continue
		}
		b.sendMessage(message.Chat.ID, fmt.Sprintf("👋 Welcome, %s!", displayName(&user)))
	}
}

// handleDev показывает служебную информацию о процессе.
func (b *Bot) handleDev(chatID int64) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.sendMessage(chatID, fmt.Sprintf(
		"🛠 Dev info\nUptime: %s\nGoroutines: %d\nHeap: %.1f MB\nGo: %s",
		time.Since(b.startedAt).Round(time.Second),
		runtime.NumGoroutine(),
		float64(mem.HeapAlloc)/(1024*1024),
		runtime.Version(),
	))
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

const helpText = `📖 Commands

Activity:
/rank — your current aura rank and progress
/lb or /top — top members by messages

Karma:
/rewards — claim your daily karma reward
/karma [@user] — karma balance and statuses
/give @user <amount> — transfer karma
/store — status store
/buy <product_id> — buy a status
/leaderboard — top members by statuses

Moderation (admins):
/warn, /warns, /mute [min], /unmute, /ban, /unban,
/clean <n>, /poll, /pin, /unpin`

// CommandParser парсит команды вида /cmd и /cmd@botname.
type CommandParser struct {
	botName string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser(botName string) *CommandParser {
	return &CommandParser{botName: botName}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс @botname отбрасывается, чужие адресные команды игнорируются.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at >= 0 {
		mention := command[at+1:]
		command = command[:at]
		if p.botName != "" && !strings.EqualFold(mention, p.botName) {
			return "", nil, false
		}
	}
	if command == "" {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}
