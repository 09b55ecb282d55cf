// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: открывает JSON-хранилища, создаёт репозитории,
// сервисы, обработчики и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/bot"
	"aegisix.ru/group-bot/internal/bot/filters"
	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/db/jsonstore"
	"aegisix.ru/group-bot/internal/features/chats"
	"aegisix.ru/group-bot/internal/features/karma"
	"aegisix.ru/group-bot/internal/features/moderation"
	"aegisix.ru/group-bot/internal/features/owner"
	"aegisix.ru/group-bot/internal/features/ranking"
	"aegisix.ru/group-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. JSON-хранилища ===
	rankStore, err := jsonstore.Open(filepath.Join(cfg.DataDir, "ranks.json"), func() ranking.Doc {
		return ranking.Doc{}
	})
	if err != nil {
		return nil, fmt.Errorf("хранилище рангов: %w", err)
	}

	ledgerStore, err := jsonstore.Open(filepath.Join(cfg.DataDir, "karma.json"), karma.NewLedgerDoc)
	if err != nil {
		return nil, fmt.Errorf("хранилище кармы: %w", err)
	}

	cooldownStore, err := jsonstore.Open(filepath.Join(cfg.DataDir, "cooldowns.json"), func() karma.CooldownDoc {
		return karma.CooldownDoc{}
	})
	if err != nil {
		return nil, fmt.Errorf("хранилище кулдаунов: %w", err)
	}

	warningStore, err := jsonstore.Open(filepath.Join(cfg.DataDir, "warnings.json"), func() moderation.Doc {
		return moderation.Doc{}
	})
	if err != nil {
		return nil, fmt.Errorf("хранилище предупреждений: %w", err)
	}

	chatStore, err := jsonstore.Open(filepath.Join(cfg.DataDir, "chats.json"), chats.NewDoc)
	if err != nil {
		return nil, fmt.Errorf("реестр чатов: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	rankRepo := ranking.NewRepository(rankStore)
	karmaRepo := karma.NewRepository(ledgerStore, cooldownStore)
	moderationRepo := moderation.NewRepository(warningStore)
	chatsRepo := chats.NewRepository(chatStore)

	// === 4. Сервисы ===
	rankService := ranking.NewService(rankRepo, cfg)
	karmaService := karma.NewService(karmaRepo, cfg, karma.NewMathRand())
	chatsService := chats.NewService(chatsRepo)
	ownerService := owner.NewService(cfg)

	// === 5. Фильтры ===
	adminGate := filters.NewAdminGate(botAPI)

	// === 6. Обработчики ===
	rankHandler := ranking.NewHandler(rankService, botAPI, cfg)
	karmaHandler := karma.NewHandler(karmaService, botAPI, cfg)
	moderationHandler := moderation.NewHandler(moderationRepo, botAPI, adminGate)
	chatsHandler := chats.NewHandler(chatsService, ownerService, botAPI, cfg)
	ownerHandler := owner.NewHandler(ownerService, botAPI)

	// === 7. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		rankHandler,
		karmaHandler,
		moderationHandler,
		chatsHandler,
		ownerHandler,
		chatsService,
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler([]jobs.Backuper{
		rankStore, ledgerStore, cooldownStore, warningStore, chatStore,
	}, karmaRepo, cfg)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		BotAPI:    botAPI,
	}, nil
}
