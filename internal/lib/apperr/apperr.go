// Package apperr определяет типизированные ошибки бизнес-уровня.
//
// Все операции сервиса пользователей возвращают одну из четырёх категорий:
// ошибку валидации поля, конфликт уникальности логина, запрет доступа или
// отсутствие записи. Транспортный слой отображает категории в HTTP-статусы,
// сам сервис их никогда не обрабатывает локально.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict — логин уже занят другой учётной записью.
	ErrConflict = errors.New("login is not unique")
	// ErrForbidden — актор не имеет права выполнить операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — целевая запись отсутствует или находится в
	// неподходящем состоянии жизненного цикла.
	ErrNotFound = errors.New("user not found")
)

// InvalidFieldError описывает значение, не прошедшее правило валидации.
type InvalidFieldError struct {
	Field  string // Имя поля
	Reason string // Причина отказа
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field %s is not valid: %s", e.Field, e.Reason)
}

// InvalidField возвращает ошибку валидации для поля с указанной причиной.
func InvalidField(field, reason string) error {
	return &InvalidFieldError{Field: field, Reason: reason}
}

// IsInvalidField сообщает, является ли err ошибкой валидации поля.
func IsInvalidField(err error) bool {
	var e *InvalidFieldError
	return errors.As(err, &e)
}

// Forbidden возвращает ErrForbidden с пояснением причины.
func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

// NotFound возвращает ErrNotFound с пояснением причины.
func NotFound(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrNotFound)
}
