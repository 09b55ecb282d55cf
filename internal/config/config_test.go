package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		TelegramBotToken:        "token",
		BotOwnerID:              42,
		OwnerPasswordHash:       "$argon2id$...",
		BotUpdateTimeoutSeconds: 60,
		RankThrottle:            3 * time.Second,
		LeaderboardSize:         10,
		RewardCooldown:          24 * time.Hour,
		RewardMax:               300,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero owner id", func(c *Config) { c.BotOwnerID = 0 }},
		{"zero poll timeout", func(c *Config) { c.BotUpdateTimeoutSeconds = 0 }},
		{"negative throttle", func(c *Config) { c.RankThrottle = -time.Second }},
		{"zero reward max", func(c *Config) { c.RewardMax = 0 }},
		{"zero cooldown", func(c *Config) { c.RewardCooldown = 0 }},
		{"zero leaderboard size", func(c *Config) { c.LeaderboardSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
