package shell

import (
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/session"
)

// Nav — какие ссылки навигации видит текущая сессия.
type Nav struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`

	Home            bool `json:"home"`
	Contacto        bool `json:"contacto"`
	Tickets         bool `json:"tickets"`
	ClienteArchivos bool `json:"cliente_archivos"`
	HospitalPanel   bool `json:"hospital_panel"`
	Admin           bool `json:"admin"`
}

// NavFor выводит видимость ссылок из сессии. Contacto видят публичные,
// пациенты и hospital staff — но не ADMIN (у MediCloud свой канал — тикеты).
func NavFor(s session.Session) Nav {
	r := s.EffectiveRole()
	return Nav{
		Authenticated:   s.Authenticated(),
		Role:            string(r),
		Home:            true,
		Contacto:        r != model.RoleAdmin,
		Tickets:         r == model.RoleTrabajador || r == model.RoleAdmin,
		ClienteArchivos: r == model.RoleCliente,
		HospitalPanel:   r == model.RoleTrabajador,
		Admin:           r == model.RoleAdmin,
	}
}

// GoHome — куда ведёт логотип: чистая функция (токен, роль) → ровно один из
// четырёх путей.
func GoHome(s session.Session) string {
	if !s.Authenticated() {
		return guard.PathHome
	}
	switch s.EffectiveRole() {
	case model.RoleCliente:
		return guard.PathClienteArchivos
	case model.RoleTrabajador:
		return guard.PathTrabajadorArchivos
	default: // ADMIN
		return guard.PathAdminEmpresas
	}
}

// HomeFor — редирект после логина, та же таблица что и GoHome, но от роли
// из ответа бэкенда (сессия в этот момент ещё не записана).
func HomeFor(role model.Role) string {
	return GoHome(session.Session{Token: "x", Role: string(role)})
}
