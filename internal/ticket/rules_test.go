package ticket

import (
	"errors"
	"testing"

	"github.com/medicloud/portal-service/internal/errs"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/session"
)

func TestCanTransition(t *testing.T) {
	// из любого состояния кроме CERRADO разрешён переход в любое другое;
	// из CERRADO — только в ABIERTO; в себя — никогда
	for _, from := range Estados {
		for _, to := range Estados {
			want := from != to
			if from == model.EstadoCerrado {
				want = to == model.EstadoAbierto
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s)=%v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionUnknownStates(t *testing.T) {
	if CanTransition("BORRADO", model.EstadoAbierto) {
		t.Fatal("unknown from-state must be rejected")
	}
	if CanTransition(model.EstadoAbierto, "archivado") {
		t.Fatal("unknown to-state must be rejected")
	}
}

func TestCheckSetEstado(t *testing.T) {
	staff := session.Session{Token: "t", Role: "TRABAJADOR"}

	if err := CheckSetEstado(session.Session{}, model.EstadoAbierto, model.EstadoCerrado); !errors.Is(err, errs.ErrNoSession) {
		t.Fatalf("no session: err=%v, want ErrNoSession", err)
	}
	if err := CheckSetEstado(staff, model.EstadoCerrado, model.EstadoEnProceso); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("cerrado->en_proceso: err=%v, want ErrInvalidTransition", err)
	}
	if err := CheckSetEstado(staff, model.EstadoCerrado, model.EstadoAbierto); err != nil {
		t.Fatalf("cerrado->abierto (reopen): err=%v, want nil", err)
	}
	// estado может менять и не-staff: роль тут не проверяется
	cliente := session.Session{Token: "t", Role: "CLIENTE"}
	if err := CheckSetEstado(cliente, model.EstadoAbierto, model.EstadoResuelto); err != nil {
		t.Fatalf("cliente estado change: err=%v, want nil", err)
	}
}

func TestCheckSetPrioridad(t *testing.T) {
	if err := CheckSetPrioridad(session.Session{}, model.PrioridadAlta); !errors.Is(err, errs.ErrNoSession) {
		t.Fatalf("no session: err=%v", err)
	}
	cliente := session.Session{Token: "t", Role: "CLIENTE"}
	if err := CheckSetPrioridad(cliente, model.PrioridadAlta); !errors.Is(err, errs.ErrPrioridadForbidden) {
		t.Fatalf("cliente: err=%v, want ErrPrioridadForbidden", err)
	}
	staff := session.Session{Token: "t", Role: "ADMIN"}
	if err := CheckSetPrioridad(staff, model.PrioridadBaja); err != nil {
		t.Fatalf("admin: err=%v, want nil", err)
	}
	if err := CheckSetPrioridad(staff, "URGENTE"); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("invalid prioridad: err=%v, want ErrInvalidTransition", err)
	}
}

func TestCheckAssignSelf(t *testing.T) {
	if err := CheckAssignSelf(session.Session{}); !errors.Is(err, errs.ErrNoSession) {
		t.Fatalf("no session: err=%v", err)
	}
	if err := CheckAssignSelf(session.Session{Token: "t", Role: "CLIENTE"}); !errors.Is(err, errs.ErrAsignacionForbidden) {
		t.Fatalf("cliente: err=%v, want ErrAsignacionForbidden", err)
	}
	if err := CheckAssignSelf(session.Session{Token: "t", Role: "TRABAJADOR"}); err != nil {
		t.Fatalf("trabajador: err=%v, want nil", err)
	}
}
