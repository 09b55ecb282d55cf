// Package ranking — service.go содержит бизнес-логику подсчёта сообщений:
// троттлинг, повышение ранга и построение лидерборда чата.
package ranking

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Service управляет системой рангов.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService создаёт сервис рангов.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// MessageResult — итог обработки одного сообщения.
type MessageResult struct {
	Record    Record
	Counted   bool // false, если сообщение отброшено троттлингом
	LeveledUp bool
	From      Tier
	To        Tier
}

// RecordMessage засчитывает сообщение пользователя в чате.
//
// Алгоритм:
//  1. Запись создаётся при первом сообщении пользователя в чате
//  2. Если с прошлого засчитанного сообщения прошло меньше интервала
//     троттлинга — полный no-op (username тоже не обновляется)
//  3. Иначе: инкремент счётчика, отметка времени, обновление username,
//     пересчёт кешированного уровня и проверка повышения ранга
//
// Изменённая запись сброшена на диск до возврата из метода.
func (s *Service) RecordMessage(chatID jsonstore.ChatID, userID jsonstore.UserID, username string, now time.Time) (MessageResult, error) {
	var res MessageResult

	err := s.repo.Apply(chatID, userID, func(rec *Record) bool {
		nowMs := now.UnixMilli()
		if nowMs-rec.LastMessageTime < s.cfg.RankThrottle.Milliseconds() {
			res.Record = *rec
			return false
		}

		res.From = RankFor(rec.Messages)
		rec.Messages++
		rec.LastMessageTime = nowMs
		rec.Username = username
		res.To = RankFor(rec.Messages)
		rec.CurrentLevel = res.To.Level

		res.Record = *rec
		res.Counted = true
		res.LeveledUp = res.To.Level > res.From.Level
		return true
	})
	if err != nil {
		return MessageResult{}, err
	}

	if res.LeveledUp {
		log.WithFields(log.Fields{
			"chat_id":  chatID,
			"user_id":  userID,
			"level":    res.To.Level,
			"messages": res.Record.Messages,
		}).Info("Повышение ранга")
	}

	return res, nil
}

// UserStats возвращает запись пользователя, его текущий и следующий ранг.
func (s *Service) UserStats(chatID jsonstore.ChatID, userID jsonstore.UserID) (Record, Tier, *Tier, bool) {
	rec, ok := s.repo.Get(chatID, userID)
	if !ok {
		return Record{}, Tier{}, nil, false
	}
	tier := RankFor(rec.Messages)
	return rec, tier, NextTier(tier), true
}

// Row — одна строка лидерборда чата.
type Row struct {
	Position int
	Username string
	Tier     Tier
	Messages int
}

// Leaderboard возвращает топ чата по количеству сообщений.
// Сортировка: messages по убыванию, при равенстве — username по
// возрастанию (детерминированный порядок при пересчёте).
func (s *Service) Leaderboard(chatID jsonstore.ChatID, limit int) []Row {
	records := s.repo.Snapshot(chatID)

	sort.Slice(records, func(i, j int) bool {
		if records[i].Messages != records[j].Messages {
			return records[i].Messages > records[j].Messages
		}
		return records[i].Username < records[j].Username
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		rows = append(rows, Row{
			Position: i,
			Username: rec.Username,
			Tier:     RankFor(rec.Messages),
			Messages: rec.Messages,
		})
	}
	return rows
}
