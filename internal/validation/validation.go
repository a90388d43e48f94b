// Package validation содержит чистые правила проверки полей учётной записи.
//
// Правила не зависят от состояния хранилища и не имеют побочных эффектов.
// Проверка символов выполняется явными классами символов без регулярных
// выражений, чтобы не зависеть от локалей движка regexp.
package validation

import "github.com/magabrotheeeer/users-administration/internal/lib/apperr"

// Login проверяет, что логин непуст и состоит только из латинских букв и цифр.
func Login(s string) error {
	if !isAlphaNumeric(s) {
		return apperr.InvalidField("login", "must contain only latin letters and digits")
	}
	return nil
}

// Password проверяет пароль по тому же классу символов, что и логин.
func Password(s string) error {
	if !isAlphaNumeric(s) {
		return apperr.InvalidField("password", "must contain only latin letters and digits")
	}
	return nil
}

// Name проверяет, что имя непусто и состоит только из латинских или
// кириллических букв.
func Name(s string) error {
	if !isAlphaCyrillic(s) {
		return apperr.InvalidField("name", "must contain only latin or cyrillic letters")
	}
	return nil
}

// Gender проверяет, что код пола входит в допустимое множество {0, 1, 2}.
func Gender(n int) error {
	if n < 0 || n > 2 {
		return apperr.InvalidField("gender", "must be 0, 1 or 2")
	}
	return nil
}

func isAlphaNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func isAlphaCyrillic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= 'а' && r <= 'я':
		case r >= 'А' && r <= 'Я':
		case r == 'ё' || r == 'Ё':
		default:
			return false
		}
	}
	return true
}
