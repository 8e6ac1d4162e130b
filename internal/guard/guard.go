package guard

import (
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/session"
)

// Decision — результат проверки навигации: либо пропустить, либо редирект.
type Decision struct {
	allowed bool
	target  string
}

func Allow() Decision {
	return Decision{allowed: true}
}

func RedirectTo(path string) Decision {
	return Decision{target: path}
}

func (d Decision) Allowed() bool {
	return d.allowed
}

// Target — путь редиректа при запрете. Пустой, если Allowed.
func (d Decision) Target() string {
	return d.target
}

// Guard — чистый предикат над сессией. Никогда не мутирует сессию;
// побочный эффект (редирект) исполняет транспортный слой.
type Guard func(s session.Session) Decision

// Auth пропускает только при наличии токена, иначе — на логин.
func Auth() Guard {
	return func(s session.Session) Decision {
		if !s.Authenticated() {
			return RedirectTo(PathLogin)
		}
		return Allow()
	}
}

// Role пропускает, если роль сессии входит в allowed, иначе — forbidden.
func Role(allowed ...model.Role) Guard {
	return func(s session.Session) Decision {
		r := s.EffectiveRole()
		for _, a := range allowed {
			if r == a {
				return Allow()
			}
		}
		return RedirectTo(PathForbidden)
	}
}

// NoAdmin закрывает экран от администраторов MediCloud: публичный доступ
// и любая не-ADMIN сессия проходят, ADMIN уводится на главную.
func NoAdmin() Guard {
	return func(s session.Session) Decision {
		if !s.Authenticated() {
			return Allow()
		}
		if s.EffectiveRole() == model.RoleAdmin {
			return RedirectTo(PathHome)
		}
		return Allow()
	}
}

// Staff — композиция Auth и Role(TRABAJADOR, ADMIN): без сессии — логин,
// с чужой ролью — forbidden.
func Staff() Guard {
	auth := Auth()
	role := Role(model.RoleTrabajador, model.RoleAdmin)
	return func(s session.Session) Decision {
		if d := auth(s); !d.Allowed() {
			return d
		}
		return role(s)
	}
}

// Пути экранов портала. Совпадают с маршрутами SPA.
const (
	PathHome               = "/"
	PathLogin              = "/login"
	PathRegister           = "/register"
	PathContacto           = "/contacto"
	PathForbidden          = "/forbidden"
	PathClienteArchivos    = "/cliente/archivos"
	PathTrabajadorArchivos = "/trabajador/pacientes/archivos"
	PathTickets            = "/tickets"
	PathTicketNuevo        = "/tickets/nuevo"
	PathAdminEmpresas      = "/admin/empresas"
)
