// Package jwt реализует выпуск и разбор сессионных JWT токенов.
//
// Токен несёт логин пользователя и признак администратора. Выпускается
// обработчиком аутентификации и принимается middleware определения актора;
// бизнес-логика о токенах не знает.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает данные пользователя, хранящиеся в сессионном токене.
type Claims struct {
	Login                string `json:"login"`    // Логин пользователя
	IsAdmin              bool   `json:"is_admin"` // Признак администратора
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс выпуска и разбора сессионных токенов.
type Maker interface {
	GenerateToken(login string, isAdmin bool) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker на секретном ключе HS256 с фиксированным TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создаёт MakerImpl с секретным ключом и временем жизни токена.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken выпускает токен для пользователя с указанным логином.
func (m *MakerImpl) GenerateToken(login string, isAdmin bool) (string, error) {
	claims := Claims{
		Login:   login,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken проверяет подпись и срок действия токена и возвращает claims.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
