package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medicloud/portal-service/internal/errs"
	"github.com/medicloud/portal-service/internal/model"
)

func TestEffectiveRole(t *testing.T) {
	cases := []struct {
		name string
		s    Session
		want model.Role
	}{
		{"empty", Session{}, ""},
		{"normal", Session{Token: "t", Role: "CLIENTE"}, model.RoleCliente},
		{"lowercase", Session{Token: "t", Role: " admin "}, model.RoleAdmin},
		// залежавшаяся роль без токена не действует
		{"stale role without token", Session{Role: "ADMIN"}, ""},
	}
	for _, tt := range cases {
		if got := tt.s.EffectiveRole(); got != tt.want {
			t.Errorf("%s: EffectiveRole=%q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsStaff(t *testing.T) {
	if (Session{Token: "t", Role: "CLIENTE"}).IsStaff() {
		t.Fatal("cliente is not staff")
	}
	if !(Session{Token: "t", Role: "TRABAJADOR"}).IsStaff() {
		t.Fatal("trabajador is staff")
	}
	if !(Session{Token: "t", Role: "ADMIN"}).IsStaff() {
		t.Fatal("admin is staff")
	}
	if (Session{Role: "ADMIN"}).IsStaff() {
		t.Fatal("role without token must not be staff")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Fatalf("missing sid: err=%v, want ErrSessionNotFound", err)
	}

	want := Session{Token: "tok", Role: "CLIENTE"}
	if err := st.Put(ctx, "sid", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := st.Get(ctx, "sid")
	if err != nil || got != want {
		t.Fatalf("get: %+v, %v", got, err)
	}

	if err := st.Delete(ctx, "sid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, "sid"); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Fatalf("after delete: err=%v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Millisecond)
	_ = st.Put(ctx, "sid", Session{Token: "tok"})
	time.Sleep(5 * time.Millisecond)
	if _, err := st.Get(ctx, "sid"); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Fatalf("expired sid: err=%v, want ErrSessionNotFound", err)
	}
	// просроченная запись вычищается при чтении
	st.mu.RLock()
	_, still := st.data["sid"]
	st.mu.RUnlock()
	if still {
		t.Fatal("expired entry must be purged on Get")
	}
}

func TestNotifyingDelete(t *testing.T) {
	ctx := context.Background()
	st := NewNotifying(NewMemoryStore(time.Hour))
	_ = st.Put(ctx, "sid", Session{Token: "tok"})

	var cleared []string
	st.Subscribe(func(sid string) { cleared = append(cleared, sid) })
	st.Subscribe(func(sid string) { cleared = append(cleared, sid+"-2") })

	if err := st.Delete(ctx, "sid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cleared) != 2 || cleared[0] != "sid" || cleared[1] != "sid-2" {
		t.Fatalf("subscribers got %v", cleared)
	}
}
