package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/backend"
	"github.com/medicloud/portal-service/internal/errs"
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/session"
	"github.com/medicloud/portal-service/internal/shell"
	"github.com/medicloud/portal-service/internal/ticket"
)

type TicketHandler struct {
	*Deps
}

func NewTickets(deps *Deps) *TicketHandler {
	return &TicketHandler{Deps: deps}
}

// List — список тикетов. Фильтры портала: only_not_closed (по умолчанию)
// убирает CERRADO и RESUELTO, подстрока q ищется в asunto/estado/tipo.
// 401 бэкенда чистит сессию и уводит на логин.
func (h *TicketHandler) List(c *gin.Context) {
	s := guard.FromContext(c)
	tickets, err := h.API.Tickets(c.Request.Context(), s.Token)
	if err != nil {
		h.listError(c, err, "tickets")
		return
	}

	q := c.Query("q")
	onlyNotClosed := c.DefaultQuery("only_not_closed", "true") != "false"
	visible := filterTickets(tickets, q, onlyNotClosed)

	c.JSON(http.StatusOK, gin.H{
		"tickets":         visible,
		"total":           len(tickets),
		"only_not_closed": onlyNotClosed,
		"q":               q,
		"nav":             shell.NavFor(s),
	})
}

// NewScreen — данные формы нового тикета: staff видит поле cliente_email.
func (h *TicketHandler) NewScreen(c *gin.Context) {
	s := guard.FromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"requiere_cliente_email": s.IsStaff(),
		"nav":                    shell.NavFor(s),
	})
}

type ticketCreateRequest struct {
	Asunto       string `json:"asunto"`
	Descripcion  string `json:"descripcion"`
	ClienteEmail string `json:"cliente_email"`
}

// Create — новый тикет. Staff обязан указать email клиента (тикет
// EMPRESA_A_CLIENTE); без него блокируем локально, запрос не уходит.
func (h *TicketHandler) Create(c *gin.Context) {
	s := guard.FromContext(c)

	var req ticketCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "El asunto es obligatorio.")
		return
	}
	asunto := strings.TrimSpace(req.Asunto)
	if asunto == "" {
		failLocal(c, "El asunto es obligatorio.")
		return
	}

	clienteEmail := strings.TrimSpace(req.ClienteEmail)
	if s.IsStaff() && clienteEmail == "" {
		failLocal(c, "Indica el email del cliente para crear un ticket hacia él.")
		return
	}

	payload := backend.TicketCreate{
		Asunto:      asunto,
		Descripcion: strings.TrimSpace(req.Descripcion),
	}
	if s.IsStaff() {
		payload.ClienteEmail = &clienteEmail
	}

	id, err := h.API.CreateTicket(c.Request.Context(), s.Token, payload)
	if err != nil {
		fail(c, err, "No se ha podido crear el ticket.")
		return
	}
	h.Audit.ProduceAsync("ticket_creado", map[string]interface{}{"id_ticket": id})

	if id == 0 {
		c.Redirect(http.StatusSeeOther, guard.PathTickets)
		return
	}
	c.Redirect(http.StatusSeeOther, guard.PathTickets+"/"+strconv.FormatInt(id, 10))
}

// Detail отдаёт тикет с сообщениями и набор действий, доступных роли.
func (h *TicketHandler) Detail(c *gin.Context) {
	s := guard.FromContext(c)
	id, ok := ticketID(c)
	if !ok {
		return
	}
	detail, err := h.API.TicketDetail(c.Request.Context(), s.Token, id)
	if err != nil {
		h.listError(c, err, "el ticket")
		return
	}
	c.JSON(http.StatusOK, h.detailView(s, detail))
}

func (h *TicketHandler) detailView(s session.Session, detail *backend.TicketDetail) gin.H {
	estado := model.TicketEstado(strings.ToUpper(detail.Ticket.Estado))
	var destinos []model.TicketEstado
	for _, to := range ticket.Estados {
		if ticket.CanTransition(estado, to) {
			destinos = append(destinos, to)
		}
	}
	return gin.H{
		"ticket":           detail.Ticket,
		"mensajes":         detail.Mensajes,
		"estados_posibles": destinos,
		"puede_prioridad":  s.IsStaff(),
		"puede_asignarse":  s.IsStaff(),
	}
}

// Message добавляет сообщение и перезагружает тикет целиком: никакого
// инкрементального добавления, финальное состояние — правда бэкенда.
func (h *TicketHandler) Message(c *gin.Context) {
	s := guard.FromContext(c)
	id, ok := ticketID(c)
	if !ok {
		return
	}
	var req struct {
		Cuerpo string `json:"cuerpo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "Escribe un mensaje.")
		return
	}
	cuerpo := strings.TrimSpace(req.Cuerpo)
	if cuerpo == "" {
		failLocal(c, "Escribe un mensaje.")
		return
	}

	if err := h.API.AddTicketMessage(c.Request.Context(), s.Token, id, cuerpo); err != nil {
		fail(c, err, "No se pudo enviar el mensaje.")
		return
	}
	h.Audit.ProduceAsync("ticket_mensaje", map[string]interface{}{"id_ticket": id})
	h.reload(c, s, id)
}

// SetEstado — смена состояния. Роль не проверяется, но переход сверяется с
// таблицей: портал не шлёт заведомо нелегальные переходы.
func (h *TicketHandler) SetEstado(c *gin.Context) {
	s := guard.FromContext(c)
	id, ok := ticketID(c)
	if !ok {
		return
	}
	var req struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "Estado inválido.")
		return
	}
	to := model.TicketEstado(strings.ToUpper(strings.TrimSpace(req.Estado)))

	detail, err := h.API.TicketDetail(c.Request.Context(), s.Token, id)
	if err != nil {
		h.listError(c, err, "el ticket")
		return
	}
	from := model.TicketEstado(strings.ToUpper(detail.Ticket.Estado))

	if err := ticket.CheckSetEstado(s, from, to); err != nil {
		h.ruleError(c, err)
		return
	}

	estado := string(to)
	if err := h.API.UpdateTicket(c.Request.Context(), s.Token, id, backend.TicketUpdate{Estado: &estado}); err != nil {
		fail(c, err, "No se pudo actualizar el estado.")
		return
	}
	h.Audit.ProduceAsync("ticket_estado", map[string]interface{}{"id_ticket": id, "estado": estado})
	h.reload(c, s, id)
}

// SetPrioridad — только staff. Не-staff получает локальный отказ, сетевой
// вызов не выполняется.
func (h *TicketHandler) SetPrioridad(c *gin.Context) {
	s := guard.FromContext(c)
	id, ok := ticketID(c)
	if !ok {
		return
	}
	var req struct {
		Prioridad string `json:"prioridad"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failLocal(c, "Prioridad inválida.")
		return
	}
	p := model.TicketPrioridad(strings.ToUpper(strings.TrimSpace(req.Prioridad)))

	if err := ticket.CheckSetPrioridad(s, p); err != nil {
		h.ruleError(c, err)
		return
	}

	prioridad := string(p)
	if err := h.API.UpdateTicket(c.Request.Context(), s.Token, id, backend.TicketUpdate{Prioridad: &prioridad}); err != nil {
		fail(c, err, "No se pudo actualizar la prioridad.")
		return
	}
	h.Audit.ProduceAsync("ticket_prioridad", map[string]interface{}{"id_ticket": id, "prioridad": prioridad})
	h.reload(c, s, id)
}

// AssignSelf шлёт флаг намерения asignar_a_mi; кто такой «я», бэкенд
// резолвит из токена.
func (h *TicketHandler) AssignSelf(c *gin.Context) {
	s := guard.FromContext(c)
	id, ok := ticketID(c)
	if !ok {
		return
	}
	if err := ticket.CheckAssignSelf(s); err != nil {
		h.ruleError(c, err)
		return
	}
	if err := h.API.UpdateTicket(c.Request.Context(), s.Token, id, backend.TicketUpdate{AsignarAMi: true}); err != nil {
		fail(c, err, "No se pudo asignar el ticket.")
		return
	}
	h.Audit.ProduceAsync("ticket_asignado", map[string]interface{}{"id_ticket": id})
	h.reload(c, s, id)
}

// reload — полная перезагрузка тикета после мутации.
func (h *TicketHandler) reload(c *gin.Context, s session.Session, id int64) {
	detail, err := h.API.TicketDetail(c.Request.Context(), s.Token, id)
	if err != nil {
		h.listError(c, err, "el ticket")
		return
	}
	view := h.detailView(s, detail)
	view["ok"] = true
	c.JSON(http.StatusOK, view)
}

func (h *TicketHandler) ruleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNoSession):
		c.Redirect(http.StatusSeeOther, guard.PathLogin)
	case errors.Is(err, errs.ErrPrioridadForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes permisos para cambiar la prioridad."})
	case errors.Is(err, errs.ErrAsignacionForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes permisos para asignarte el ticket."})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transición de estado no permitida."})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		failLocal(c, "Ticket inválido.")
		return 0, false
	}
	return id, true
}

// filterTickets — подстрочный фильтр; only_not_closed убирает CERRADO и
// RESUELTO (быстрый фильтр «не закрытые»).
func filterTickets(in []model.Ticket, q string, onlyNotClosed bool) []model.Ticket {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Ticket, 0, len(in))
	for _, t := range in {
		estado := model.TicketEstado(strings.ToUpper(t.Estado))
		if onlyNotClosed && (estado == model.EstadoCerrado || estado == model.EstadoResuelto) {
			continue
		}
		if q == "" {
			out = append(out, t)
			continue
		}
		if strings.Contains(strings.ToLower(t.Asunto), q) ||
			strings.Contains(strings.ToLower(t.Estado), q) ||
			strings.Contains(strings.ToLower(t.TipoTicket), q) {
			out = append(out, t)
		}
	}
	return out
}
