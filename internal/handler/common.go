package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/audit"
	"github.com/medicloud/portal-service/internal/backend"
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/session"
)

// Deps — общие зависимости всех экранов портала.
type Deps struct {
	API          *backend.Client
	Sessions     session.Store
	Audit        audit.EventProducer
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
}

// setSessionCookie выставляет cookie с sid. HttpOnly всегда: токен бэкенда
// до браузера не доходит.
func (d *Deps) setSessionCookie(c *gin.Context, sid string) {
	c.SetCookie(d.CookieName, sid, int(d.SessionTTL.Seconds()), "/", "", d.CookieSecure, true)
}

func (d *Deps) clearSessionCookie(c *gin.Context) {
	c.SetCookie(d.CookieName, "", -1, "/", "", d.CookieSecure, true)
}

// clearSession удаляет сессию и cookie. Используется logout'ом и обработкой
// 401 на списочных экранах.
func (d *Deps) clearSession(c *gin.Context) {
	if sid := guard.SIDFromContext(c); sid != "" {
		_ = d.Sessions.Delete(c.Request.Context(), sid)
	}
	d.clearSessionCookie(c)
}

// fail отдаёт ошибку действия как inline-сообщение экрана. Статус локальных
// проверок — 400, у ошибок бэкенда сохраняется его статус (0 → 502).
func fail(c *gin.Context, err error, fallback string) {
	status := backend.StatusOf(err)
	switch {
	case status == 0:
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se puede conectar con la API."})
	case status > 0:
		msg := err.(*backend.APIError).Message
		if msg == "" {
			msg = fmt.Sprintf("%s (HTTP %d)", fallback, status)
		}
		c.JSON(status, gin.H{"error": msg})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fallback})
	}
}

// failLocal — локальная валидация, до любого сетевого вызова.
func failLocal(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// listError обрабатывает ошибку загрузки списочного экрана: 401 чистит
// сессию и уводит на логин, остальное — сообщение с кодом.
func (d *Deps) listError(c *gin.Context, err error, what string) {
	status := backend.StatusOf(err)
	switch status {
	case http.StatusUnauthorized:
		d.clearSession(c)
		c.Redirect(http.StatusSeeOther, guard.PathLogin)
	case 0:
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se puede conectar con la API."})
	default:
		code := http.StatusInternalServerError
		msg := ""
		if status > 0 {
			code = status
			msg = err.(*backend.APIError).Message
		}
		if msg == "" {
			msg = fmt.Sprintf("Error cargando %s (HTTP %d)", what, status)
		}
		c.JSON(code, gin.H{"error": msg})
	}
}
