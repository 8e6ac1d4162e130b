package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/shell"
)

// AdminHandler — таблицы управления MediCloud: empresas и их trabajadores.
type AdminHandler struct {
	*Deps
}

func NewAdmin(deps *Deps) *AdminHandler {
	return &AdminHandler{Deps: deps}
}

// Empresas — список компаний. Фильтры: show_inactive (по умолчанию показываем
// все), подстрока q по nombre или id.
func (h *AdminHandler) Empresas(c *gin.Context) {
	s := guard.FromContext(c)
	rows, err := h.API.AdminEmpresas(c.Request.Context(), s.Token)
	if err != nil {
		h.listError(c, err, "empresas")
		return
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	showInactive := c.DefaultQuery("show_inactive", "true") != "false"

	out := make([]model.Empresa, 0, len(rows))
	for _, r := range rows {
		if !showInactive && strings.ToUpper(r.Estado) != "ACTIVA" {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Nombre), q) &&
			!strings.Contains(strconv.FormatInt(r.ID, 10), q) {
			continue
		}
		out = append(out, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"empresas":      out,
		"total":         len(rows),
		"show_inactive": showInactive,
		"q":             q,
		"nav":           shell.NavFor(s),
	})
}

// Trabajadores — staff-аккаунты одной empresa.
func (h *AdminHandler) Trabajadores(c *gin.Context) {
	s := guard.FromContext(c)
	idEmpresa, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || idEmpresa <= 0 {
		failLocal(c, "Empresa inválida.")
		return
	}

	rows, err := h.API.AdminEmpresaTrabajadores(c.Request.Context(), s.Token, idEmpresa)
	if err != nil {
		h.listError(c, err, "trabajadores")
		return
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	out := make([]model.TrabajadorEmpresa, 0, len(rows))
	for _, r := range rows {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Nombre), q) &&
			!strings.Contains(strings.ToLower(r.Correo), q) {
			continue
		}
		out = append(out, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"id_empresa":   idEmpresa,
		"trabajadores": out,
		"total":        len(rows),
		"q":            q,
		"nav":          shell.NavFor(s),
	})
}
