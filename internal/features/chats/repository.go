// Package chats — repository.go выполняет операции с chats.json.
package chats

import (
	"slices"

	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Repository работает с реестром чатов.
type Repository struct {
	store *jsonstore.Store[*Doc]
}

// NewRepository создаёт репозиторий реестра чатов.
func NewRepository(store *jsonstore.Store[*Doc]) *Repository {
	return &Repository{store: store}
}

// TrackGroup добавляет группу в реестр, если её там ещё нет.
func (r *Repository) TrackGroup(chatID jsonstore.ChatID) error {
	return r.store.Update(func(doc *Doc) (bool, error) {
		if slices.Contains(doc.Groups, int64(chatID)) {
			return false, nil
		}
		doc.Groups = append(doc.Groups, int64(chatID))
		return true, nil
	})
}

// TrackUser добавляет личный чат в реестр, если его там ещё нет.
func (r *Repository) TrackUser(chatID jsonstore.ChatID) error {
	return r.store.Update(func(doc *Doc) (bool, error) {
		if slices.Contains(doc.Users, int64(chatID)) {
			return false, nil
		}
		doc.Users = append(doc.Users, int64(chatID))
		return true, nil
	})
}

// RemoveGroup убирает группу из реестра (бота удалили из чата).
func (r *Repository) RemoveGroup(chatID jsonstore.ChatID) error {
	return r.store.Update(func(doc *Doc) (bool, error) {
		before := len(doc.Groups)
		doc.Groups = slices.DeleteFunc(doc.Groups, func(id int64) bool {
			return id == int64(chatID)
		})
		return len(doc.Groups) != before, nil
	})
}

// Groups возвращает копию списка групп.
func (r *Repository) Groups() []int64 {
	var groups []int64
	r.store.View(func(doc *Doc) {
		groups = slices.Clone(doc.Groups)
	})
	return groups
}

// Stats возвращает количество групп и личных чатов.
func (r *Repository) Stats() (groups, users int) {
	r.store.View(func(doc *Doc) {
		groups, users = len(doc.Groups), len(doc.Users)
	})
	return groups, users
}
