package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/medicloud/portal-service/internal/audit"
	"github.com/medicloud/portal-service/internal/backend"
	"github.com/medicloud/portal-service/internal/config"
	"github.com/medicloud/portal-service/internal/handler"
	"github.com/medicloud/portal-service/internal/router"
	"github.com/medicloud/portal-service/internal/session"
)

// API — портал MediCloud: HTTP-сервер, хранилище сессий, клиент бэкенда,
// аудит. Режим api.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	sessions *session.Notifying
	producer *audit.Producer
}

// NewAPI собирает приложение. Redis берётся когда задан REDIS_ADDR,
// иначе сессии живут в памяти процесса.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var inner session.Store
	if cfg.RedisAddr != "" {
		rs := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		inner = rs
		log.Printf("sessions: redis (%s)", cfg.RedisAddr)
	} else {
		inner = session.NewMemoryStore(cfg.SessionTTL)
		log.Printf("sessions: in-memory (REDIS_ADDR not set)")
	}
	sessions := session.NewNotifying(inner)

	producer := audit.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicAudit)
	sessions.Subscribe(func(sid string) {
		producer.ProduceAsync("session_cleared", map[string]interface{}{"sid": sid})
	})

	apiClient := backend.New(cfg.APIBaseURL)

	deps := &handler.Deps{
		API:          apiClient,
		Sessions:     sessions,
		Audit:        producer,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
	}

	h := router.New(router.Deps{
		Sessions:    sessions,
		CookieName:  cfg.CookieName,
		Auth:        handler.NewAuth(deps),
		Files:       handler.NewFiles(deps),
		Tickets:     handler.NewTickets(deps),
		Admin:       handler.NewAdmin(deps),
		Contact:     handler.NewContact(deps),
		CORSOrigins: cfg.CORSOrigins,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		sessions: sessions,
		producer: producer,
	}, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Backend API:   %s", a.cfg.APIBaseURL)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("audit: close: %v", err)
	}
	return nil
}
