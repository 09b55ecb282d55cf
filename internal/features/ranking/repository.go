// Package ranking — repository.go выполняет операции с документом ranks.json.
package ranking

import (
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Repository работает с хранилищем рангов.
type Repository struct {
	store *jsonstore.Store[Doc]
}

// NewRepository создаёт репозиторий рангов.
func NewRepository(store *jsonstore.Store[Doc]) *Repository {
	return &Repository{store: store}
}

// Get возвращает копию записи пользователя в чате, если она есть.
func (r *Repository) Get(chatID jsonstore.ChatID, userID jsonstore.UserID) (Record, bool) {
	var (
		rec   Record
		found bool
	)
	r.store.View(func(doc Doc) {
		if chat, ok := doc[chatID.Key()]; ok {
			if p, ok := chat[userID.Key()]; ok {
				rec = *p
				found = true
			}
		}
	})
	return rec, found
}

// Apply выполняет fn над записью пользователя, создавая её при
// отсутствии. fn возвращает true, если запись изменена — только тогда
// документ сбрасывается на диск.
func (r *Repository) Apply(chatID jsonstore.ChatID, userID jsonstore.UserID, fn func(rec *Record) bool) error {
	return r.store.Update(func(doc Doc) (bool, error) {
		chat, ok := doc[chatID.Key()]
		if !ok {
			chat = make(map[string]*Record)
			doc[chatID.Key()] = chat
		}
		rec, ok := chat[userID.Key()]
		created := false
		if !ok {
			rec = &Record{}
			chat[userID.Key()] = rec
			created = true
		}
		changed := fn(rec)
		// Новая запись сохраняется, даже если первый вызов оказался no-op
		return changed || created, nil
	})
}

// Snapshot возвращает копии всех записей чата.
func (r *Repository) Snapshot(chatID jsonstore.ChatID) []Record {
	var records []Record
	r.store.View(func(doc Doc) {
		for _, p := range doc[chatID.Key()] {
			records = append(records, *p)
		}
	})
	return records
}
