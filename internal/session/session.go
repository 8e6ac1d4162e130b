package session

import (
	"context"
	"sync"
	"time"

	"github.com/medicloud/portal-service/internal/errs"
	"github.com/medicloud/portal-service/internal/model"
)

// Session — ровно два плоских значения, как localStorage в браузерном портале:
// токен бэкенда и тег роли. Ничего больше на стороне портала не хранится.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Authenticated — есть ли токен.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// EffectiveRole нормализует роль. Отсутствие токена перекрывает любую
// залежавшуюся роль от прошлой сессии: без токена роль всегда пустая.
func (s Session) EffectiveRole() model.Role {
	if !s.Authenticated() {
		return ""
	}
	return model.NormalizeRole(s.Role)
}

// IsStaff — сокращение для проверок TRABAJADOR|ADMIN.
func (s Session) IsStaff() bool {
	return s.EffectiveRole().IsStaff()
}

// Store — хранилище сессий, ключ — sid из cookie.
type Store interface {
	Get(ctx context.Context, sid string) (Session, error)
	Put(ctx context.Context, sid string, s Session) error
	Delete(ctx context.Context, sid string) error
}

// ClearedFunc вызывается после удаления сессии (logout или принудительная
// очистка по 401). Зависимые части — аудит — реагируют через подписку,
// а не через ручные вызовы из каждого handler'а.
type ClearedFunc func(sid string)

// Notifying оборачивает Store и уведомляет подписчиков об удалениях.
type Notifying struct {
	Store

	mu   sync.Mutex
	subs []ClearedFunc
}

func NewNotifying(inner Store) *Notifying {
	return &Notifying{Store: inner}
}

func (n *Notifying) Subscribe(fn ClearedFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

func (n *Notifying) Delete(ctx context.Context, sid string) error {
	err := n.Store.Delete(ctx, sid)
	n.mu.Lock()
	subs := make([]ClearedFunc, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()
	for _, fn := range subs {
		fn(sid)
	}
	return err
}

// MemoryStore — сессии в памяти процесса. Используется в тестах и когда
// REDIS_ADDR не задан.
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]memoryEntry
}

type memoryEntry struct {
	s       Session
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, data: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(ctx context.Context, sid string) (Session, error) {
	m.mu.RLock()
	e, ok := m.data[sid]
	m.mu.RUnlock()
	if !ok {
		return Session{}, errs.ErrSessionNotFound
	}
	if time.Now().After(e.expires) {
		// ленивое вычищение, чтобы брошенные сессии не копились
		m.mu.Lock()
		if cur, ok := m.data[sid]; ok && time.Now().After(cur.expires) {
			delete(m.data, sid)
		}
		m.mu.Unlock()
		return Session{}, errs.ErrSessionNotFound
	}
	return e.s, nil
}

func (m *MemoryStore) Put(ctx context.Context, sid string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sid] = memoryEntry{s: s, expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sid)
	return nil
}
