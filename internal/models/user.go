// Package models содержит доменную модель пользователя системы,
// включающую учётные данные, профиль и поля жизненного цикла записи.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Коды пола пользователя.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// User представляет учётную запись пользователя системы.
//
// Login уникален среди всех записей, включая отозванные. Пароль хранится
// открытым текстом, как в исходной системе; это осознанная слабость,
// см. DESIGN.md. Поля RevokedOn/RevokedBy всегда устанавливаются и
// сбрасываются парой.
type User struct {
	UID        string     `json:"uid"`         // Уникальный идентификатор, неизменяемый
	Login      string     `json:"login"`       // Логин, уникален среди всех записей
	Password   string     `json:"-"`           // Пароль открытым текстом
	Name       string     `json:"name"`        // Имя пользователя
	Gender     int        `json:"gender"`      // Код пола: 0, 1 или 2
	Birthday   *time.Time `json:"birthday"`    // Дата рождения, опционально
	IsAdmin    bool       `json:"is_admin"`    // Флаг администратора, задаётся только при создании
	CreatedOn  time.Time  `json:"created_on"`  // Время создания записи
	CreatedBy  string     `json:"created_by"`  // Логин создавшего актора
	ModifiedOn *time.Time `json:"modified_on"` // Время последней модификации
	ModifiedBy *string    `json:"modified_by"` // Логин последнего модифицировавшего актора
	RevokedOn  *time.Time `json:"revoked_on"`  // Время мягкого удаления
	RevokedBy  *string    `json:"revoked_by"`  // Логин отозвавшего актора
}

// IsActive сообщает, не была ли учётная запись мягко удалена.
func (u *User) IsActive() bool {
	return u.RevokedOn == nil
}

// UserInfo — урезанная проекция учётной записи для административного чтения.
// Учётные данные и поля происхождения наружу не отдаются.
type UserInfo struct {
	Name     string     `json:"name"`
	Gender   int        `json:"gender"`
	Birthday *time.Time `json:"birthday"`
	Active   bool       `json:"active"`
}

// Info возвращает урезанную проекцию учётной записи.
func (u *User) Info() UserInfo {
	return UserInfo{
		Name:     u.Name,
		Gender:   u.Gender,
		Birthday: u.Birthday,
		Active:   u.RevokedOn == nil,
	}
}

// CreateUserRequest — входные данные операции создания пользователя.
type CreateUserRequest struct {
	Login    string     `json:"login" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Gender   int        `json:"gender"`
	Birthday *time.Time `json:"birthday"`
	IsAdmin  bool       `json:"is_admin"`
}
