// Package jsonstore — keys.go определяет типы идентификаторов.
// В JSON-документах ключи объектов — строки; явные типы с методом Key()
// исключают случайное смешение chat id и user id при обращении к хранилищу.
package jsonstore

import "strconv"

// ChatID — идентификатор чата Telegram.
type ChatID int64

// UserID — идентификатор пользователя Telegram.
type UserID int64

// Key возвращает строковый ключ для JSON-объекта.
func (id ChatID) Key() string { return strconv.FormatInt(int64(id), 10) }

// Key возвращает строковый ключ для JSON-объекта.
func (id UserID) Key() string { return strconv.FormatInt(int64(id), 10) }

// ParseUserID разбирает строковый ключ обратно в UserID.
func ParseUserID(key string) (UserID, error) {
	v, err := strconv.ParseInt(key, 10, 64)
	return UserID(v), err
}
