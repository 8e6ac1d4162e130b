package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/audit"
	"github.com/medicloud/portal-service/internal/backend"
	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/session"
)

const testCookie = "medicloud_sid"

// upstream — поддельный бэкенд MediCloud со счётчиком запросов: тесты
// "локальный отказ без сетевого вызова" сверяются с hits.
type upstream struct {
	srv  *httptest.Server
	hits int64
}

func newUpstream(h http.HandlerFunc) *upstream {
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&u.hits, 1)
		h(w, r)
	}))
	return u
}

func (u *upstream) Hits() int64 {
	return atomic.LoadInt64(&u.hits)
}

func (u *upstream) Close() {
	u.srv.Close()
}

func testDeps(t *testing.T, u *upstream) (*Deps, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	baseURL := ""
	if u != nil {
		baseURL = u.srv.URL
	}
	return &Deps{
		API:        backend.New(baseURL),
		Sessions:   store,
		Audit:      audit.NewProducer(nil, ""),
		CookieName: testCookie,
		SessionTTL: time.Hour,
	}, store
}

func putSession(t *testing.T, store session.Store, sid string, s session.Session) {
	t.Helper()
	if err := store.Put(context.Background(), sid, s); err != nil {
		t.Fatalf("put session: %v", err)
	}
}

// newEngine регистрирует маршрут с той же guard-цепочкой, что и боевой роутер.
func newEngine(store session.Store, method, path string, h gin.HandlerFunc, guards ...guard.Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, path, guard.Middleware(store, testCookie, guards...), h)
	return r
}

func sessionFor(role string) session.Session {
	return session.Session{Token: "tok", Role: role}
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sid})
	return req
}
