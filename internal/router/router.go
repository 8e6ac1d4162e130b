package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/helpy/paths"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/medicloud/portal-service/api"
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/handler"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/session"
)

// Deps — собранные handler'ы и хранилище сессий для guard-middleware.
type Deps struct {
	Sessions   session.Store
	CookieName string

	Auth    *handler.AuthHandler
	Files   *handler.FileHandler
	Tickets *handler.TicketHandler
	Admin   *handler.AdminHandler
	Contact *handler.ContactHandler

	CORSOrigins []string
}

// New собирает таблицу маршрутов портала. Маршруты повторяют экраны SPA,
// guard'ы компонуются цепочкой per-route: первый запретивший решает редирект.
func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(d.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = d.CORSOrigins
		cfg.AllowCredentials = true
		r.Use(cors.New(cfg))
	}

	r.GET(paths.PathHealth, handler.Health)
	r.GET(paths.PathReady, handler.Ready)
	r.GET(paths.PathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, paths.PathSwagger+"/") })
	r.GET(paths.PathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = paths.PathSwagger + "/index.html"
			c.Request.RequestURI = paths.PathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	mw := func(guards ...guard.Guard) gin.HandlerFunc {
		return guard.Middleware(d.Sessions, d.CookieName, guards...)
	}
	public := mw() // сессия в контексте, без проверок
	cliente := mw(guard.Auth(), guard.Role(model.RoleCliente))
	trabajador := mw(guard.Auth(), guard.Role(model.RoleTrabajador))
	staff := mw(guard.Staff()) // TRABAJADOR | ADMIN
	admin := mw(guard.Auth(), guard.Role(model.RoleAdmin))
	noAdmin := mw(guard.NoAdmin())

	// Público
	r.GET(guard.PathHome, public, d.Auth.Home)
	r.GET("/home", public, d.Auth.GoHome)
	r.GET(guard.PathForbidden, public, d.Auth.Forbidden)
	r.GET(guard.PathLogin, public, d.Auth.LoginScreen)
	r.POST(guard.PathLogin, public, d.Auth.Login)
	r.GET(guard.PathRegister, public, d.Auth.RegisterScreen)
	r.POST(guard.PathRegister, public, d.Auth.Register)
	r.POST("/logout", public, d.Auth.Logout)

	// Contacto: público + pacientes + hospital staff, pero no MediCloud (ADMIN)
	r.GET(guard.PathContacto, noAdmin, d.Contact.Screen)
	r.POST(guard.PathContacto, noAdmin, d.Contact.Send)

	// Portal del paciente
	r.GET(guard.PathClienteArchivos, cliente, d.Files.List)
	r.POST(guard.PathClienteArchivos+"/subir", cliente, d.Files.Upload)
	r.POST(guard.PathClienteArchivos+"/:id/eliminar", cliente, d.Files.Delete)

	// Panel hospitalario
	r.GET(guard.PathTrabajadorArchivos, trabajador, d.Files.StaffList)

	// Ticketing (solo TRABAJADOR hospital + ADMIN medicloud)
	r.GET(guard.PathTickets, staff, d.Tickets.List)
	r.GET(guard.PathTicketNuevo, staff, d.Tickets.NewScreen)
	r.POST(guard.PathTicketNuevo, staff, d.Tickets.Create)
	r.GET(guard.PathTickets+"/:id", staff, d.Tickets.Detail)
	r.POST(guard.PathTickets+"/:id/mensajes", staff, d.Tickets.Message)
	r.POST(guard.PathTickets+"/:id/estado", staff, d.Tickets.SetEstado)
	r.POST(guard.PathTickets+"/:id/prioridad", staff, d.Tickets.SetPrioridad)
	r.POST(guard.PathTickets+"/:id/asignar", staff, d.Tickets.AssignSelf)

	// Management MediCloud (ADMIN)
	r.GET(guard.PathAdminEmpresas, admin, d.Admin.Empresas)
	r.GET(guard.PathAdminEmpresas+"/:id/trabajadores", admin, d.Admin.Trabajadores)

	return r
}
