package session

import (
	"github.com/golang-jwt/jwt/v4"
)

// TokenClaims — что удалось вытащить из JWT бэкенда без проверки подписи.
// Используется только для логов и диагностики; авторизация всегда на роли
// из ответа логина и на проверках самого бэкенда.
type TokenClaims struct {
	Subject string
	Email   string
	Expires int64
}

// ParseClaims разбирает токен best-effort. Непарсящийся токен — не ошибка:
// бэкенд может выдавать непрозрачные токены.
func ParseClaims(token string) (TokenClaims, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}
	out := TokenClaims{}
	if v, ok := claims["sub"].(string); ok {
		out.Subject = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["exp"].(float64); ok {
		out.Expires = int64(v)
	}
	return out, true
}
