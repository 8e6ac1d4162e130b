package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/shell"
)

// ContactHandler — публичная форма контакта. Закрыта от ADMIN guard'ом
// NoAdmin, анонимам доступна.
type ContactHandler struct {
	*Deps
}

func NewContact(deps *Deps) *ContactHandler {
	return &ContactHandler{Deps: deps}
}

// Screen — данные экрана контакта.
func (h *ContactHandler) Screen(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nav": shell.NavFor(guard.FromContext(c)),
	})
}

type contactRequest struct {
	Correo  string `json:"correo"`
	Mensaje string `json:"mensaje"`
}

// Send валидирует локально (формат correo, минимум 10 символов в mensaje)
// и отправляет на бэкенд без токена.
func (h *ContactHandler) Send(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "Introduce tu correo.")
		return
	}
	correo := strings.TrimSpace(req.Correo)
	mensaje := strings.TrimSpace(req.Mensaje)

	if correo == "" {
		failLocal(c, "Introduce tu correo.")
		return
	}
	if !validEmail(correo) {
		failLocal(c, "El correo no parece válido.")
		return
	}
	if utf8.RuneCountInString(mensaje) < 10 {
		failLocal(c, "Escribe un mensaje un poco más largo.")
		return
	}

	if err := h.API.SendContact(c.Request.Context(), correo, mensaje); err != nil {
		fail(c, err, "No se pudo enviar el mensaje.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"mensaje": "¡Enviado! Te responderemos por correo lo antes posible.",
	})
}
