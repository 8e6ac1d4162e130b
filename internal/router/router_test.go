package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/audit"
	"github.com/medicloud/portal-service/internal/backend"
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/handler"
	"github.com/medicloud/portal-service/internal/session"
)

func testRouter(t *testing.T) (http.Handler, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore(time.Hour)
	deps := &handler.Deps{
		API:        backend.New("http://127.0.0.1:1"), // недостижимый бэкенд
		Sessions:   store,
		Audit:      audit.NewProducer(nil, ""),
		CookieName: "medicloud_sid",
		SessionTTL: time.Hour,
	}
	h := New(Deps{
		Sessions:   store,
		CookieName: "medicloud_sid",
		Auth:       handler.NewAuth(deps),
		Files:      handler.NewFiles(deps),
		Tickets:    handler.NewTickets(deps),
		Admin:      handler.NewAdmin(deps),
		Contact:    handler.NewContact(deps),
	})
	return h, store
}

func do(h http.Handler, method, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "medicloud_sid", Value: sid})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthRoute(t *testing.T) {
	h, _ := testRouter(t)
	if w := do(h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health: status=%d", w.Code)
	}
}

// защита экранов целиком: анонимов уводит на логин, чужие роли — на forbidden,
// ADMIN выкидывается с contacto на главную
func TestRouteGuards(t *testing.T) {
	h, store := testRouter(t)
	ctx := context.Background()
	_ = store.Put(ctx, "cliente", session.Session{Token: "t", Role: "CLIENTE"})
	_ = store.Put(ctx, "trabajador", session.Session{Token: "t", Role: "TRABAJADOR"})
	_ = store.Put(ctx, "admin", session.Session{Token: "t", Role: "ADMIN"})

	cases := []struct {
		name    string
		method  string
		path    string
		sid     string
		wantLoc string
	}{
		{"anonymous tickets", http.MethodGet, "/tickets", "", guard.PathLogin},
		{"anonymous archivos", http.MethodGet, "/cliente/archivos", "", guard.PathLogin},
		{"anonymous admin", http.MethodGet, "/admin/empresas", "", guard.PathLogin},
		{"cliente tickets", http.MethodGet, "/tickets", "cliente", guard.PathForbidden},
		{"cliente admin", http.MethodGet, "/admin/empresas", "cliente", guard.PathForbidden},
		{"trabajador admin", http.MethodGet, "/admin/empresas", "trabajador", guard.PathForbidden},
		{"admin archivos", http.MethodGet, "/cliente/archivos", "admin", guard.PathForbidden},
		{"admin contacto", http.MethodGet, "/contacto", "admin", guard.PathHome},
		{"admin staff files", http.MethodGet, "/trabajador/pacientes/archivos", "admin", guard.PathForbidden},
	}
	for _, tt := range cases {
		w := do(h, tt.method, tt.path, tt.sid)
		if w.Code != http.StatusSeeOther {
			t.Errorf("%s: status=%d, want 303", tt.name, w.Code)
			continue
		}
		if loc := w.Header().Get("Location"); loc != tt.wantLoc {
			t.Errorf("%s: location=%q, want %q", tt.name, loc, tt.wantLoc)
		}
	}
}

// каждый редирект guard'ов ведёт на живой GET-экран, не на 404
func TestGuardRedirectTargetsResolve(t *testing.T) {
	h, _ := testRouter(t)

	w := do(h, http.MethodGet, "/tickets", "")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != guard.PathLogin {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	for _, target := range []string{guard.PathLogin, guard.PathForbidden, guard.PathHome} {
		if w := do(h, http.MethodGet, target, ""); w.Code == http.StatusNotFound {
			t.Errorf("redirect target GET %s returns 404", target)
		}
	}
}

func TestPublicRoutesOpen(t *testing.T) {
	h, _ := testRouter(t)
	if w := do(h, http.MethodGet, "/", ""); w.Code != http.StatusOK {
		t.Fatalf("home: status=%d", w.Code)
	}
	if w := do(h, http.MethodGet, "/login", ""); w.Code != http.StatusOK {
		t.Fatalf("login screen: status=%d", w.Code)
	}
	if w := do(h, http.MethodGet, "/forbidden", ""); w.Code != http.StatusForbidden {
		t.Fatalf("forbidden screen: status=%d", w.Code)
	}
	if w := do(h, http.MethodGet, "/contacto", ""); w.Code != http.StatusOK {
		t.Fatalf("contacto screen: status=%d", w.Code)
	}
}

func TestGoHomeByRole(t *testing.T) {
	h, store := testRouter(t)
	_ = store.Put(context.Background(), "trabajador", session.Session{Token: "t", Role: "TRABAJADOR"})

	w := do(h, http.MethodGet, "/home", "trabajador")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != guard.PathTrabajadorArchivos {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	w = do(h, http.MethodGet, "/home", "")
	if w.Header().Get("Location") != guard.PathHome {
		t.Fatalf("anonymous go-home: location=%q", w.Header().Get("Location"))
	}
}
