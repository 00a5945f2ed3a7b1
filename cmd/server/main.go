package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/config"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/database"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/handler"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/middleware"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/queue"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/router"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the response cache and rate limiter are
	// disabled and every request hits the handlers directly.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	cinemas := repository.NewCinemaRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db, seats)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Services.
	publisher := queue.NewPublisher(cfg.RabbitMQURL)
	bookingSvc := service.NewBookingService(bookings, publisher, time.Duration(cfg.BookingExpiryMin)*time.Minute)
	paymentSvc := service.NewPaymentService(payments, bookingSvc, bookings)
	reviewSvc := service.NewReviewService(reviews)

	// Background consumer writing logs/booking.log from the broker.
	go func() {
		if err := queue.StartBookingConsumer(cfg.RabbitMQURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	var claimLimiter, cache echo.MiddlewareFunc
	if rdb != nil {
		claimLimiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Catalog: handler.NewCatalogHandler(movies, cinemas, showtimes, seats),
		Booking: handler.NewBookingHandler(bookingSvc),
		Payment: handler.NewPaymentHandler(paymentSvc),
		Review:  handler.NewReviewHandler(reviewSvc),
		Admin:   handler.NewAdminHandler(bookingSvc, movies, cinemas, showtimes, seats),
	}, cfg.JWTSecret, claimLimiter, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
