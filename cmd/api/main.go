package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nrahmani/invoice-dashboard/internal/config"
	"github.com/nrahmani/invoice-dashboard/internal/handlers"
	"github.com/nrahmani/invoice-dashboard/internal/repository"
	"github.com/nrahmani/invoice-dashboard/internal/services"
	xhttp "github.com/nrahmani/invoice-dashboard/pkg/http"
	"github.com/nrahmani/invoice-dashboard/pkg/logger"
	"github.com/nrahmani/invoice-dashboard/pkg/pg"
	"github.com/nrahmani/invoice-dashboard/pkg/prom"
	"github.com/nrahmani/invoice-dashboard/pkg/redis"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := config.Get().AppEnv == "dev"
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	host, _ := os.Hostname()
	prom.MustCreate(host, config.Get().AppEnv, config.Get().PromNamespace)

	viewCache := services.NewRedisViewCache(redisAdap, config.Get().ViewCacheTTL)

	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// services
	invoiceService := services.NewInvoiceService(invoiceRepo, customerRepo, viewCache)
	healthService := services.NewHealthService()

	// v1 handlers
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, viewCache)
	customerHandler := handlers.NewCustomerHandler(invoiceService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterInvoiceRoutes(g, invoiceHandler)
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)
	s.Router.GET("/metrics", prom.MetricsHandler())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(config.Get().HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			return s[1]
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}
