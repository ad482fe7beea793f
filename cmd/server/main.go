package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/terrace-reservation/internal/booking"
	"github.com/iliyamo/terrace-reservation/internal/config"
	"github.com/iliyamo/terrace-reservation/internal/database"
	"github.com/iliyamo/terrace-reservation/internal/handler"
	"github.com/iliyamo/terrace-reservation/internal/middleware"
	"github.com/iliyamo/terrace-reservation/internal/ownership"
	"github.com/iliyamo/terrace-reservation/internal/queue"
	"github.com/iliyamo/terrace-reservation/internal/repository"
	"github.com/iliyamo/terrace-reservation/internal/router"
	"github.com/iliyamo/terrace-reservation/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	building := config.LoadBuildingConfig()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()
	queueCfg := config.LoadQueueConfig()
	adminCfg := config.LoadAdminConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage: MySQL in production, process memory for demos.
	var (
		repo booking.Backend
		db   handler.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		log.Printf("storage: in-memory, reservations are lost on restart")
		repo = repository.NewMemoryReservationRepo()
	default:
		sqlDB, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer sqlDB.Close()
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = database.Migrate(mctx, sqlDB)
		cancel()
		if err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		repo = repository.NewReservationRepo(sqlDB)
		db = sqlDB
	}

	// Redis backs device stores, the rate limiter and the cache when reachable.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	var devices ownership.Devices = ownership.NewMemoryDevices()
	if rdb != nil {
		defer rdb.Close()
		devices = ownership.NewRedisDevices(rdb, "terrace:device", cfg.DeviceTTL)
	} else {
		log.Printf("ownership: in-process device stores, entries are lost on restart")
	}

	var pub queue.Publisher = queue.Nop{}
	if queueCfg.Enabled {
		pub = queue.NewAMQPPublisher(queueCfg.URL)
		if queueCfg.RunConsumer {
			consumer := queue.NewConsumer(queueCfg.URL, queueCfg.ConsumerLogPath)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("reservation-consumer: stopped: %v", err)
				}
			}()
		}
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	layout := booking.Layout{Floors: building.Floors, Apartments: building.Apartments}
	th := handler.NewTerraceHandler(repo, devices, pub, layout)
	ah := handler.NewAdminHandler(adminCfg, cfg.JWTSecret, cfg.AccessTTLMin, repo, pub)

	purge := middleware.PurgeOnWrite(cacheCfg, rdb)
	mw := router.Middleware{
		Device: middleware.Device(middleware.DeviceConfig{
			Secret:     cfg.JWTSecret,
			CookieName: cfg.DeviceCookie,
			TTL:        cfg.DeviceTTL,
			Secure:     cfg.Env == "prod",
		}),
		RateLimit: middleware.NewTokenBucket(rateCfg, rdb),
		Cache:     middleware.NewRedisCache(cacheCfg, rdb),
		Purge:     purge,
	}
	router.RegisterRoutes(e, db)
	router.RegisterPages(e, th, mw)
	router.RegisterResident(e, th, mw)
	if adminCfg.Enabled() {
		router.RegisterAdmin(e, ah, cfg.JWTSecret, purge)
	} else {
		log.Printf("admin: ADMIN_PASSWORD_HASH not set, admin routes disabled")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, storage=%s, %s)", addr, cfg.Env, cfg.Storage, building)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
