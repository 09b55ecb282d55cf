// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры,
// а godotenv подхватывает локальный .env при запуске вне Docker.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Владелец бота: единственный, кому доступны /broadcast и /chats
	BotOwnerID int64 `envconfig:"BOT_OWNER_ID" required:"true"`
	// Argon2id-хеш пароля владельца (scripts/generate_hash.go)
	OwnerPasswordHash string `envconfig:"OWNER_PASSWORD_HASH" required:"true"`

	// --- Storage ---
	// Папка с JSON-файлами данных. Создаётся при старте, если её нет.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Ranking ---
	// Минимальный интервал между засчитанными сообщениями (анти-спам)
	RankThrottle time.Duration `envconfig:"RANK_THROTTLE" default:"3s"`
	// Сколько строк показывать в /lb
	LeaderboardSize int `envconfig:"LEADERBOARD_SIZE" default:"10"`

	// --- Karma ---
	// Интервал между /rewards
	RewardCooldown time.Duration `envconfig:"REWARD_COOLDOWN" default:"24h"`
	// Максимум кармы за один /rewards (диапазон [1, max])
	RewardMax int `envconfig:"REWARD_MAX" default:"300"`

	// --- Broadcast ---
	// Пауза между отправками при рассылке по группам
	BroadcastDelay time.Duration `envconfig:"BROADCAST_DELAY" default:"100ms"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Validate проверяет согласованность загруженной конфигурации.
func (c *Config) Validate() error {
	if c.BotOwnerID == 0 {
		return fmt.Errorf("BOT_OWNER_ID не задан или равен 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.RankThrottle < 0 {
		return fmt.Errorf("RANK_THROTTLE не может быть отрицательным")
	}
	if c.RewardMax <= 0 {
		return fmt.Errorf("REWARD_MAX должен быть > 0")
	}
	if c.RewardCooldown <= 0 {
		return fmt.Errorf("REWARD_COOLDOWN должен быть > 0")
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("LEADERBOARD_SIZE должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
// Отсутствие .env не считается ошибкой (в Docker переменные приходят извне).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
