// Package karma — service.go содержит бизнес-логику экономики:
// выдача наград с кулдауном, переводы, покупки и лидерборд статусов.
package karma

import (
	"math/rand/v2"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"aegisix.ru/group-bot/internal/common"
	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Rand — источник случайности для суммы награды.
// Вынесен в интерфейс, чтобы тесты подставляли детерминированный генератор;
// криптографическая стойкость здесь не нужна.
type Rand interface {
	// IntN возвращает равномерное число из [0, n)
	IntN(n int) int
}

// mathRand — продакшен-источник на math/rand/v2.
type mathRand struct{}

func (mathRand) IntN(n int) int { return rand.IntN(n) }

// NewMathRand возвращает стандартный источник случайности.
func NewMathRand() Rand { return mathRand{} }

// Service управляет экономикой кармы.
type Service struct {
	repo *Repository
	cfg  *config.Config
	rng  Rand
}

// NewService создаёт сервис кармы.
func NewService(repo *Repository, cfg *config.Config, rng Rand) *Service {
	return &Service{repo: repo, cfg: cfg, rng: rng}
}

// ClaimResult — итог успешного /rewards.
type ClaimResult struct {
	Amount  int
	Balance int
}

// ClaimReward выдаёт случайную награду [1, REWARD_MAX].
// Если с прошлой награды прошло меньше кулдауна — возвращает
// *common.CooldownError с остатком времени, состояние не меняется.
// При успехе начисление и отметка кулдауна сбрасываются на диск
// до возврата.
func (s *Service) ClaimReward(userID jsonstore.UserID, username string, now time.Time) (ClaimResult, error) {
	if last, ok := s.repo.LastClaim(userID); ok {
		elapsed := now.Sub(last)
		if elapsed < s.cfg.RewardCooldown {
			return ClaimResult{}, &common.CooldownError{Remaining: s.cfg.RewardCooldown - elapsed}
		}
	}

	amount := s.rng.IntN(s.cfg.RewardMax) + 1

	var balance int
	err := s.repo.UpdateLedger(func(doc *LedgerDoc) (bool, error) {
		acc := doc.Users[userID.Key()]
		if acc == nil {
			acc = &Account{}
			doc.Users[userID.Key()] = acc
		}
		acc.Karma += amount
		acc.Username = username
		balance = acc.Karma
		return true, nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	if err := s.repo.SetLastClaim(userID, now); err != nil {
		return ClaimResult{}, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"balance": balance,
	}).Info("Награда выдана")

	return ClaimResult{Amount: amount, Balance: balance}, nil
}

// PurchaseResult — итог успешной покупки.
type PurchaseResult struct {
	Product Product
	Balance int
}

// Purchase покупает статус за карму.
//
// Порядок проверок (каждая отклонённая — без мутаций):
//  1. товар существует → common.ErrUnknownProduct
//  2. аккаунт существует → common.ErrNoAccount
//  3. баланс достаточен → *common.ShortfallError с недостающей суммой
//  4. статус ещё не куплен → common.ErrAlreadyOwned
//
// Списание и запись покупки происходят в одной мутации документа:
// частичное состояние «кармы нет, покупки нет» наблюдать невозможно.
func (s *Service) Purchase(userID jsonstore.UserID, productID string, now time.Time) (PurchaseResult, error) {
	product, ok := ProductByID(productID)
	if !ok {
		return PurchaseResult{}, common.ErrUnknownProduct
	}

	var balance int
	err := s.repo.UpdateLedger(func(doc *LedgerDoc) (bool, error) {
		acc := doc.Users[userID.Key()]
		if acc == nil {
			return false, common.ErrNoAccount
		}
		if acc.Karma < product.Price {
			return false, &common.ShortfallError{Shortfall: product.Price - acc.Karma}
		}
		if _, owned := doc.Purchases[userID.Key()][product.ID]; owned {
			return false, common.ErrAlreadyOwned
		}

		acc.Karma -= product.Price
		if doc.Purchases[userID.Key()] == nil {
			doc.Purchases[userID.Key()] = make(map[string]string)
		}
		doc.Purchases[userID.Key()][product.ID] = now.Format(TimeLayout)
		balance = acc.Karma
		return true, nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"product": product.ID,
		"balance": balance,
	}).Info("Статус куплен")

	return PurchaseResult{Product: product, Balance: balance}, nil
}

// Transfer переводит карму получателю, найденному по username.
// Возвращает новый баланс отправителя.
func (s *Service) Transfer(fromID jsonstore.UserID, toUsername string, amount int) (int, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

	toID, _, found := s.repo.FindByUsername(toUsername)
	if !found {
		return 0, common.ErrUserNotFound
	}
	if toID == fromID {
		return 0, common.ErrSelfTransfer
	}

	var balance int
	err := s.repo.UpdateLedger(func(doc *LedgerDoc) (bool, error) {
		sender := doc.Users[fromID.Key()]
		if sender == nil {
			return false, common.ErrNoAccount
		}
		if sender.Karma < amount {
			return false, common.ErrInsufficientKarma
		}
		recipient := doc.Users[toID.Key()]
		if recipient == nil {
			// FindByUsername нашёл получателя в этом же документе
			return false, common.ErrUserNotFound
		}

		sender.Karma -= amount
		recipient.Karma += amount
		balance = sender.Karma
		return true, nil
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"from":   fromID,
		"to":     toID,
		"amount": amount,
	}).Info("Перевод кармы выполнен")

	return balance, nil
}

// Stats — баланс и статусы пользователя для /karma.
type Stats struct {
	Username string
	Karma    int
	Statuses []Product
}

// StatsOf возвращает статистику по user ID.
func (s *Service) StatsOf(userID jsonstore.UserID) (Stats, error) {
	acc, ok := s.repo.Account(userID)
	if !ok {
		return Stats{}, common.ErrNoAccount
	}
	return Stats{Username: acc.Username, Karma: acc.Karma, Statuses: s.repo.Statuses(userID)}, nil
}

// StatsByUsername возвращает статистику по username (для /karma @user).
func (s *Service) StatsByUsername(username string) (Stats, error) {
	id, acc, ok := s.repo.FindByUsername(username)
	if !ok {
		return Stats{}, common.ErrUserNotFound
	}
	return Stats{Username: acc.Username, Karma: acc.Karma, Statuses: s.repo.Statuses(id)}, nil
}

// StatusRow — строка лидерборда статусов.
type StatusRow struct {
	Username string
	Score    int
	Statuses []string
}

// StatusLeaderboard строит лидерборд по купленным статусам: участвует
// каждый пользователь хотя бы с одной покупкой, очки — сумма рангов
// купленных статусов. Сортировка по убыванию очков, при равенстве —
// username по возрастанию. Вычисление идёт по всем пользователям,
// limit ограничивает только вывод.
func (s *Service) StatusLeaderboard(limit int) []StatusRow {
	var rows []StatusRow
	s.repo.ViewLedger(func(doc *LedgerDoc) {
		for userKey, owned := range doc.Purchases {
			if len(owned) == 0 {
				continue
			}
			row := StatusRow{}
			if acc := doc.Users[userKey]; acc != nil {
				row.Username = acc.Username
			}
			for _, p := range Catalog {
				if _, ok := owned[p.ID]; ok {
					row.Score += p.Rank
					row.Statuses = append(row.Statuses, p.Name)
				}
			}
			rows = append(rows, row)
		}
	})

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Username < rows[j].Username
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
