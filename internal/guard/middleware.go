package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/session"
)

const (
	// CtxSession и CtxSID — ключи gin-контекста, заполняются Middleware.
	CtxSession = "session"
	CtxSID     = "sid"
)

// Middleware читает сессию из хранилища на каждый запрос (никакого кэша в
// замыкании: прямой заход по URL и переход по ссылке видят одно состояние)
// и прогоняет её через guards. Первый запретивший guard решает редирект.
func Middleware(store session.Store, cookieName string, guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, sid := Resolve(c, store, cookieName)
		c.Set(CtxSession, s)
		c.Set(CtxSID, sid)
		for _, g := range guards {
			if d := g(s); !d.Allowed() {
				c.Redirect(http.StatusSeeOther, d.Target())
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// Resolve достаёт сессию текущего запроса. Нет cookie или записи — анонимная
// пустая сессия, это не ошибка.
func Resolve(c *gin.Context, store session.Store, cookieName string) (session.Session, string) {
	sid, err := c.Cookie(cookieName)
	if err != nil || sid == "" {
		return session.Session{}, ""
	}
	s, err := store.Get(c.Request.Context(), sid)
	if err != nil {
		return session.Session{}, sid
	}
	return s, sid
}

// FromContext возвращает сессию, положенную Middleware.
func FromContext(c *gin.Context) session.Session {
	if v, ok := c.Get(CtxSession); ok {
		if s, ok := v.(session.Session); ok {
			return s
		}
	}
	return session.Session{}
}

// SIDFromContext возвращает sid запроса (пустой для анонимных).
func SIDFromContext(c *gin.Context) string {
	if v, ok := c.Get(CtxSID); ok {
		if sid, ok := v.(string); ok {
			return sid
		}
	}
	return ""
}
