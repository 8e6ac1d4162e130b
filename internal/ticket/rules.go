// Package ticket — правила тикетов на стороне портала: таблица переходов
// состояний и локальные проверки прав. Бэкенд остаётся последней инстанцией,
// портал отсекает заведомо запрещённое до сетевого вызова.
package ticket

import (
	"github.com/medicloud/portal-service/internal/errs"
	"github.com/medicloud/portal-service/internal/model"
)

// Estados — все состояния в порядке жизненного цикла.
var Estados = []model.TicketEstado{
	model.EstadoAbierto,
	model.EstadoPendiente,
	model.EstadoEnProceso,
	model.EstadoResuelto,
	model.EstadoCerrado,
}

// Prioridades — допустимые приоритеты.
var Prioridades = []model.TicketPrioridad{
	model.PrioridadBaja,
	model.PrioridadMedia,
	model.PrioridadAlta,
}

func validEstado(e model.TicketEstado) bool {
	for _, s := range Estados {
		if s == e {
			return true
		}
	}
	return false
}

func ValidPrioridad(p model.TicketPrioridad) bool {
	for _, v := range Prioridades {
		if v == p {
			return true
		}
	}
	return false
}

// CanTransition — явная таблица переходов. Любая пара различных состояний
// разрешена, кроме выходов из CERRADO: закрытый тикет можно только заново
// открыть (CERRADO → ABIERTO). Переход в то же состояние смысла не имеет.
func CanTransition(from, to model.TicketEstado) bool {
	if !validEstado(from) || !validEstado(to) || from == to {
		return false
	}
	if from == model.EstadoCerrado {
		return to == model.EstadoAbierto
	}
	return true
}

// CheckSetEstado — estado может менять любой аутентифицированный участник,
// роль не проверяется (доступ к тикету решает бэкенд), но переход должен
// быть в таблице.
func CheckSetEstado(s Sessioner, from, to model.TicketEstado) error {
	if !s.Authenticated() {
		return errs.ErrNoSession
	}
	if !CanTransition(from, to) {
		return errs.ErrInvalidTransition
	}
	return nil
}

// CheckSetPrioridad — приоритет меняет только staff. Не-staff отсекается
// локально, без сетевого вызова (defense-in-depth, решающий отказ всё равно
// на бэкенде).
func CheckSetPrioridad(s Sessioner, p model.TicketPrioridad) error {
	if !s.Authenticated() {
		return errs.ErrNoSession
	}
	if !s.IsStaff() {
		return errs.ErrPrioridadForbidden
	}
	if !ValidPrioridad(p) {
		return errs.ErrInvalidTransition
	}
	return nil
}

// CheckAssignSelf — «назначить на меня» доступно только staff.
func CheckAssignSelf(s Sessioner) error {
	if !s.Authenticated() {
		return errs.ErrNoSession
	}
	if !s.IsStaff() {
		return errs.ErrAsignacionForbidden
	}
	return nil
}

// Sessioner — срез session.Session, нужный правилам.
type Sessioner interface {
	Authenticated() bool
	IsStaff() bool
}
