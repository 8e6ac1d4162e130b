package errs

import "errors"

// Доменные ошибки портала. Сообщения для пользователя (испанский) живут в handler,
// здесь только сигнальные значения для errors.Is.
var (
	ErrNoSession           = errors.New("no session")
	ErrPrioridadForbidden  = errors.New("prioridad: only staff roles may change it")
	ErrAsignacionForbidden = errors.New("asignar a mi: only staff roles")
	ErrInvalidTransition   = errors.New("invalid ticket state transition")
	ErrSessionNotFound     = errors.New("session not found")
)
