package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/pkg/db"
	"github.com/kinoteka/online_cinema/pkg/events"
	"github.com/kinoteka/online_cinema/pkg/logging"
	loggingmw "github.com/kinoteka/online_cinema/pkg/middleware/logging"
	"github.com/kinoteka/online_cinema/pkg/session"
	"github.com/kinoteka/online_cinema/pkg/tokens"
	"github.com/kinoteka/online_cinema/services/auth/internal/config"
	"github.com/kinoteka/online_cinema/services/auth/internal/httpserver"
	"github.com/kinoteka/online_cinema/services/auth/internal/models"
	"github.com/kinoteka/online_cinema/services/auth/internal/repo"
	"github.com/kinoteka/online_cinema/services/auth/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	sessions, err := session.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	userRepo := &repo.GormRepo{DB: gormDB}
	codec := tokens.NewCodec(cfg.JWTSecret)
	core := &auth.Core{Users: userRepo, Sessions: sessions, Codec: codec}

	authSvc := &service.AuthService{
		Repo:     userRepo,
		Sessions: sessions,
		Codec:    codec,
		Producer: producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		Core:        core,
	})

	go func() {
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
	if err := sessions.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	if err := db.Close(gormDB); err != nil {
		log.Printf("db close: %v", err)
	}
}
