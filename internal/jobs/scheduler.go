// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный бэкап JSON-хранилищ
// и ежечасную чистку устаревших кулдаунов.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/features/karma"
)

// Backuper — хранилище, умеющее делать резервную копию своего файла.
type Backuper interface {
	Backup() error
	Path() string
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	stores    []Backuper
	karmaRepo *karma.Repository
	cfg       *config.Config
}

// NewScheduler создаёт планировщик задач (UTC).
func NewScheduler(stores []Backuper, karmaRepo *karma.Repository, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		stores:    stores,
		karmaRepo: karmaRepo,
		cfg:       cfg,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ежедневный бэкап хранилищ в 03:00 UTC
	s.cron.AddFunc("0 3 * * *", func() {
		log.Info("[CRON] Ежедневный бэкап хранилищ")
		for _, store := range s.stores {
			if err := store.Backup(); err != nil {
				log.WithField("path", store.Path()).WithError(err).Error("[CRON] Ошибка бэкапа")
			}
		}
	})

	// Чистка устаревших кулдаунов каждый час
	s.cron.AddFunc("0 * * * *", func() {
		removed, err := s.karmaRepo.PruneCooldowns(time.Now(), s.cfg.RewardCooldown)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка чистки кулдаунов")
			return
		}
		if removed > 0 {
			log.WithField("removed", removed).Info("[CRON] Кулдауны вычищены")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (UTC)")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
