// Package karma — repository.go выполняет операции с karma.json
// и cooldowns.json.
package karma

import (
	"time"

	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Repository работает с хранилищами кармы и кулдаунов.
type Repository struct {
	ledger    *jsonstore.Store[*LedgerDoc]
	cooldowns *jsonstore.Store[CooldownDoc]
}

// NewRepository создаёт репозиторий кармы.
func NewRepository(ledger *jsonstore.Store[*LedgerDoc], cooldowns *jsonstore.Store[CooldownDoc]) *Repository {
	return &Repository{ledger: ledger, cooldowns: cooldowns}
}

// Account возвращает копию аккаунта пользователя.
func (r *Repository) Account(userID jsonstore.UserID) (Account, bool) {
	var (
		acc   Account
		found bool
	)
	r.ledger.View(func(doc *LedgerDoc) {
		if p, ok := doc.Users[userID.Key()]; ok {
			acc = *p
			found = true
		}
	})
	return acc, found
}

// FindByUsername ищет пользователя по отображаемому имени (без @).
func (r *Repository) FindByUsername(username string) (jsonstore.UserID, Account, bool) {
	var (
		id    jsonstore.UserID
		acc   Account
		found bool
	)
	r.ledger.View(func(doc *LedgerDoc) {
		for key, p := range doc.Users {
			if p.Username != username {
				continue
			}
			parsed, err := jsonstore.ParseUserID(key)
			if err != nil {
				continue
			}
			id, acc, found = parsed, *p, true
			return
		}
	})
	return id, acc, found
}

// Statuses возвращает купленные статусы пользователя в порядке каталога.
func (r *Repository) Statuses(userID jsonstore.UserID) []Product {
	var products []Product
	r.ledger.View(func(doc *LedgerDoc) {
		owned := doc.Purchases[userID.Key()]
		for _, p := range Catalog {
			if _, ok := owned[p.ID]; ok {
				products = append(products, p)
			}
		}
	})
	return products
}

// UpdateLedger выполняет fn над документом кармы (см. jsonstore.Store.Update).
func (r *Repository) UpdateLedger(fn func(doc *LedgerDoc) (bool, error)) error {
	return r.ledger.Update(fn)
}

// ViewLedger выполняет fn над документом кармы только для чтения.
func (r *Repository) ViewLedger(fn func(doc *LedgerDoc)) {
	r.ledger.View(fn)
}

// LastClaim возвращает время последней награды пользователя.
func (r *Repository) LastClaim(userID jsonstore.UserID) (time.Time, bool) {
	var (
		t     time.Time
		found bool
	)
	r.cooldowns.View(func(doc CooldownDoc) {
		raw, ok := doc[userID.Key()]
		if !ok {
			return
		}
		parsed, err := time.Parse(TimeLayout, raw)
		if err != nil {
			// Битую отметку считаем отсутствующей: пользователь сможет
			// забрать награду, вместо вечной блокировки
			return
		}
		t, found = parsed, true
	})
	return t, found
}

// SetLastClaim записывает время последней награды.
func (r *Repository) SetLastClaim(userID jsonstore.UserID, at time.Time) error {
	return r.cooldowns.Update(func(doc CooldownDoc) (bool, error) {
		doc[userID.Key()] = at.Format(TimeLayout)
		return true, nil
	})
}

// PruneCooldowns удаляет отметки старше ttl. Истёкшая отметка ни на что
// не влияет, поэтому её можно безопасно убрать из файла.
func (r *Repository) PruneCooldowns(now time.Time, ttl time.Duration) (int, error) {
	removed := 0
	err := r.cooldowns.Update(func(doc CooldownDoc) (bool, error) {
		for key, raw := range doc {
			at, err := time.Parse(TimeLayout, raw)
			if err != nil || now.Sub(at) >= ttl {
				delete(doc, key)
				removed++
			}
		}
		return removed > 0, nil
	})
	return removed, err
}
