// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса.
// Эти ошибки позволяют вызывающему коду различать типы проблем
// (отказ по абузу, недоступность БД, ошибки конфигурации).
package common

import "errors"

// Ошибки записи действий
var (
	// ErrEmptyUserID — пустой идентификатор пользователя
	ErrEmptyUserID = errors.New("пустой идентификатор пользователя")
	// ErrUnknownAction — вид действия не входит в закрытое перечисление
	ErrUnknownAction = errors.New("неизвестный вид действия")
	// ErrUserQuarantined — пользователь в карантине, действия не засчитываются
	ErrUserQuarantined = errors.New("пользователь в карантине")
	// ErrInvalidPoints — отрицательное количество очков
	ErrInvalidPoints = errors.New("количество очков не может быть отрицательным")
)

// Ошибки леджера (хранилища очков)
var (
	// ErrLedgerUnavailable — хранилище недоступно, действие НЕ применено
	ErrLedgerUnavailable = errors.New("хранилище очков недоступно")
	// ErrReputationNotFound — запись репутации не найдена
	ErrReputationNotFound = errors.New("репутация пользователя не найдена")
)

// Ошибки админки
var (
	// ErrWrongPassword — неверный пароль оператора
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите")
	// ErrNotQuarantined — пользователь не в карантине, снимать нечего
	ErrNotQuarantined = errors.New("пользователь не в карантине")
)
