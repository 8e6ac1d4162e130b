package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medicloud/portal-service/internal/guard"
)

func TestContactValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    map[string]string
		wantSub string
	}{
		{"missing correo", map[string]string{"mensaje": "quiero información sobre precios"}, "Introduce tu correo."},
		{"bad correo", map[string]string{"correo": "no-valido", "mensaje": "quiero información"}, "no parece válido"},
		{"short mensaje", map[string]string{"correo": "a@b.co", "mensaje": "hola"}, "un poco más largo"},
		// 9 символов, но 10 байт: длина считается в рунах
		{"short accented mensaje", map[string]string{"correo": "a@b.co", "mensaje": "privación"}, "un poco más largo"},
	}
	for _, tt := range cases {
		deps, store := testDeps(t, nil)
		r := newEngine(store, http.MethodPost, "/contacto", NewContact(deps).Send, guard.NoAdmin())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON("/contacto", tt.body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status=%d, want 400", tt.name, w.Code)
		}
		if !strings.Contains(w.Body.String(), tt.wantSub) {
			t.Errorf("%s: body=%s, want %q", tt.name, w.Body.String(), tt.wantSub)
		}
	}
}

func TestContactSend(t *testing.T) {
	u := newUpstream(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contact" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("contact must be sent without token")
		}
		var p map[string]string
		_ = json.NewDecoder(r.Body).Decode(&p)
		if p["correo"] != "ana@example.com" {
			t.Errorf("payload=%v", p)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	defer u.Close()
	deps, store := testDeps(t, u)
	r := newEngine(store, http.MethodPost, "/contacto", NewContact(deps).Send, guard.NoAdmin())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/contacto", map[string]string{
		"correo":  "ana@example.com",
		"mensaje": "Necesito acceso a mis informes de marzo.",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "¡Enviado!") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

// ADMIN не видит contacto: guard уводит на главную до handler'а
func TestContactBlockedForAdmin(t *testing.T) {
	u := newUpstream(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	defer u.Close()
	deps, store := testDeps(t, u)
	putSession(t, store, "sid", sessionFor("ADMIN"))
	r := newEngine(store, http.MethodPost, "/contacto", NewContact(deps).Send, guard.NoAdmin())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withSID(postJSON("/contacto", map[string]string{
		"correo": "a@b.co", "mensaje": "mensaje suficientemente largo",
	}), "sid"))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != guard.PathHome {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if u.Hits() != 0 {
		t.Fatalf("backend hits=%d, want 0", u.Hits())
	}
}
