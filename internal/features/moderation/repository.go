// Package moderation — repository.go выполняет операции с warnings.json.
package moderation

import (
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// Repository работает с хранилищем предупреждений.
type Repository struct {
	store *jsonstore.Store[Doc]
}

// NewRepository создаёт репозиторий предупреждений.
func NewRepository(store *jsonstore.Store[Doc]) *Repository {
	return &Repository{store: store}
}

// AddWarning увеличивает счётчик предупреждений пользователя на 1
// и возвращает новое значение.
func (r *Repository) AddWarning(userID jsonstore.UserID) (int, error) {
	var total int
	err := r.store.Update(func(doc Doc) (bool, error) {
		doc[userID.Key()]++
		total = doc[userID.Key()]
		return true, nil
	})
	return total, err
}

// Warnings возвращает количество предупреждений пользователя.
// Для незнакомого пользователя — 0.
func (r *Repository) Warnings(userID jsonstore.UserID) int {
	var count int
	r.store.View(func(doc Doc) {
		count = doc[userID.Key()]
	})
	return count
}
