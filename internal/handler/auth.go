package handler

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicloud/portal-service/internal/backend"
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/session"
	"github.com/medicloud/portal-service/internal/shell"
)

type AuthHandler struct {
	*Deps
}

func NewAuth(deps *Deps) *AuthHandler {
	return &AuthHandler{Deps: deps}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginScreen — экран логина: сюда приводят guard'ы и принудительный
// выход по 401, поэтому маршрут обязан отвечать на GET.
func (h *AuthHandler) LoginScreen(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nav": shell.NavFor(guard.FromContext(c)),
	})
}

// Login проверяет учётные данные на бэкенде и создаёт сессию портала
// (ровно два значения: токен и роль). Успех — редирект по роли.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "Introduce correo y contraseña.")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		failLocal(c, "Introduce correo y contraseña.")
		return
	}

	resp, err := h.API.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		h.loginError(c, err)
		return
	}

	role := model.NormalizeRole(resp.User.Role)
	if role == "" {
		role = model.RoleCliente
	}
	sid := uuid.NewString()
	s := session.Session{Token: resp.Token, Role: string(role)}
	if err := h.Sessions.Put(c.Request.Context(), sid, s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la sesión."})
		return
	}
	h.setSessionCookie(c, sid)

	if claims, ok := session.ParseClaims(resp.Token); ok {
		log.Printf("auth: login %s role=%s exp=%d", claims.Subject, role, claims.Expires)
	}
	h.Audit.ProduceAsync("login", map[string]interface{}{"sid": sid, "role": string(role)})

	c.Redirect(http.StatusSeeOther, shell.HomeFor(role))
}

// loginError — таксономия ошибок логина: транспорт, блокировка (423 с
// опциональным bloqueo_hasta), 403, 401, остальное с запасной строкой.
func (h *AuthHandler) loginError(c *gin.Context, err error) {
	apiErr, ok := err.(*backend.APIError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error en login."})
		return
	}
	switch apiErr.Status {
	case 0:
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se puede conectar con la API."})
	case http.StatusLocked:
		msg := "Cuenta bloqueada temporalmente por intentos fallidos."
		if apiErr.BloqueoHasta != "" {
			msg = fmt.Sprintf("Cuenta bloqueada temporalmente por intentos fallidos (hasta %s).", apiErr.BloqueoHasta)
		}
		c.JSON(http.StatusLocked, gin.H{"error": msg})
	case http.StatusForbidden:
		msg := apiErr.Message
		if msg == "" || strings.HasPrefix(msg, "HTTP ") {
			msg = "Acceso denegado."
		}
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	case http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos."})
	default:
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Error en login (HTTP %d)", apiErr.Status)
		}
		c.JSON(apiErr.Status, gin.H{"error": msg})
	}
}

type registerRequest struct {
	Correo    string `json:"correo"`
	Nombre    string `json:"nombre"`
	IDEmpresa int64  `json:"id_empresa"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// RegisterScreen — данные формы регистрации: публичный список empresas.
func (h *AuthHandler) RegisterScreen(c *gin.Context) {
	empresas, err := h.API.EmpresasPublicas(c.Request.Context())
	if err != nil {
		h.listError(c, err, "las empresas")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"empresas": empresas,
		"nav":      shell.NavFor(guard.FromContext(c)),
	})
}

// Register — регистрация пациента. Политика пароля: 8+ символов, минимум
// одна заглавная, одна цифра и один спецсимвол.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "Rellena correo, nombre, empresa y contraseña.")
		return
	}
	correo := strings.ToLower(strings.TrimSpace(req.Correo))
	nombre := strings.TrimSpace(req.Nombre)

	if correo == "" || nombre == "" || req.IDEmpresa == 0 || req.Password == "" || req.Password2 == "" {
		failLocal(c, "Rellena correo, nombre, empresa y contraseña.")
		return
	}
	if !validEmail(correo) {
		failLocal(c, "El correo no parece válido.")
		return
	}
	if req.Password != req.Password2 {
		failLocal(c, "Las contraseñas no coinciden.")
		return
	}
	if !passOK(req.Password) {
		failLocal(c, "La contraseña debe tener 8+ caracteres, 1 mayúscula, 1 número y 1 especial.")
		return
	}

	resp, err := h.API.Register(c.Request.Context(), backend.RegisterPayload{
		Correo:    correo,
		Nombre:    nombre,
		IDEmpresa: req.IDEmpresa,
		Password:  req.Password,
	})
	if err != nil {
		fail(c, err, "No se pudo registrar")
		return
	}

	sid := uuid.NewString()
	role := model.NormalizeRole(resp.User.Role)
	if role == "" {
		role = model.RoleCliente
	}
	if err := h.Sessions.Put(c.Request.Context(), sid, session.Session{Token: resp.Token, Role: string(role)}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la sesión."})
		return
	}
	h.setSessionCookie(c, sid)
	h.Audit.ProduceAsync("register", map[string]interface{}{"sid": sid})

	c.Redirect(http.StatusSeeOther, guard.PathClienteArchivos)
}

// Logout чистит оба значения сессии и безусловно уводит на логин.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := guard.SIDFromContext(c)
	h.clearSession(c)
	h.Audit.ProduceAsync("logout", map[string]interface{}{"sid": sid})
	c.Redirect(http.StatusSeeOther, guard.PathLogin)
}

// Home — публичная главная с навигацией по роли.
func (h *AuthHandler) Home(c *gin.Context) {
	s := guard.FromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"nav":     shell.NavFor(s),
		"go_home": shell.GoHome(s),
	})
}

// GoHome — редирект логотипа: одна из четырёх точек входа по роли.
func (h *AuthHandler) GoHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, shell.GoHome(guard.FromContext(c)))
}

// Forbidden — экран отказа в доступе.
func (h *AuthHandler) Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "No tienes permisos para ver esta página.",
		"nav":   shell.NavFor(guard.FromContext(c)),
	})
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(v string) bool {
	return emailRe.MatchString(v)
}

// passOK — без lookahead-регулярки: Go RE2 их не поддерживает.
func passOK(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			special = true
		}
	}
	return upper && digit && special
}
