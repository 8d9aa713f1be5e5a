package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/StuFleisher/lunchly/internal/config"
	"github.com/StuFleisher/lunchly/internal/database"
	"github.com/StuFleisher/lunchly/internal/handler"
	"github.com/StuFleisher/lunchly/internal/middleware"
	"github.com/StuFleisher/lunchly/internal/queue"
	"github.com/StuFleisher/lunchly/internal/repository"
	"github.com/StuFleisher/lunchly/internal/router"
	"github.com/StuFleisher/lunchly/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.QueueConsumerEnabled {
		go func() {
			if err := queue.StartReservationConsumer(ctx, cfg.RabbitMQURL, cfg.ReservationLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reservation-consumer: stopped: %v", err)
			}
		}()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}
	writeLimit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	customers := repository.NewCustomerRepo(db)
	reservations := repository.NewReservationRepo(db)
	h := handler.NewCustomerHandler(customers, reservations, service.NewPublisher(cfg.RabbitMQURL))

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, db)
	router.RegisterCustomer(e, h, writeLimit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DB.Driver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
