// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки кармы (баланс, награды, покупки)
var (
	// ErrUnknownProduct — неизвестный Product ID
	ErrUnknownProduct = errors.New("invalid product id")
	// ErrNoAccount — у пользователя нет аккаунта кармы
	ErrNoAccount = errors.New("no karma account")
	// ErrInsufficientKarma — недостаточно кармы для операции
	ErrInsufficientKarma = errors.New("insufficient karma points")
	// ErrAlreadyOwned — статус уже куплен
	ErrAlreadyOwned = errors.New("status already owned")
	// ErrCooldownActive — награду можно забрать только раз в сутки
	ErrCooldownActive = errors.New("reward cooldown active")
	// ErrSelfTransfer — попытка перевести карму самому себе
	ErrSelfTransfer = errors.New("cannot transfer karma to yourself")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrUserNotFound — пользователь не найден в хранилище
	ErrUserNotFound = errors.New("user not found")
)

// Ошибки доступа
var (
	// ErrNotAdmin — пользователь не администратор чата
	ErrNotAdmin = errors.New("admin privileges required")
	// ErrNotOwner — пользователь не владелец бота
	ErrNotOwner = errors.New("owner privileges required")
	// ErrWrongPassword — неверный пароль владельца
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("too many login attempts, wait an hour")
	// ErrNoSession — нет активной сессии владельца
	ErrNoSession = errors.New("no active session, use /login in DM")
)

// CooldownError сообщает, сколько осталось ждать до следующей награды.
// Разворачивается в ErrCooldownActive через errors.Is.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("reward cooldown active: %s left", e.Remaining)
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// ShortfallError сообщает, сколько кармы не хватает до цены.
// Разворачивается в ErrInsufficientKarma через errors.Is.
type ShortfallError struct {
	Shortfall int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient karma points: need %d more", e.Shortfall)
}

func (e *ShortfallError) Unwrap() error { return ErrInsufficientKarma }
