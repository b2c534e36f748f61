package main

import (
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/auth"
	"github.com/MohdAnasQureshi/groceryshop/internal/config"
	"github.com/MohdAnasQureshi/groceryshop/internal/gateways"
	"github.com/MohdAnasQureshi/groceryshop/internal/handlers"
	"github.com/MohdAnasQureshi/groceryshop/internal/otp"
	"github.com/MohdAnasQureshi/groceryshop/internal/queue"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
	"github.com/MohdAnasQureshi/groceryshop/pkg/logger"
	"github.com/MohdAnasQureshi/groceryshop/pkg/pg"
	"github.com/MohdAnasQureshi/groceryshop/pkg/prom"
	"github.com/MohdAnasQureshi/groceryshop/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

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

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
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

	reconcileQ, err := queue.NewQueue(redisAdap, queue.QueueConfig{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating queue", "error", err)
	}

	mailer, err := gateways.NewMailerClient(&gateways.MailerConfig{
		PrimaryURL: config.Get().MailerPrimaryUrl,
		BackupURL:  config.Get().MailerBackupUrl,
		Timeout:    time.Second * 5,
		MaxRetries: 3,
		RetryDelay: time.Millisecond * 100,
	})
	if err != nil {
		logger.Error("failed creating mailer client", "error", err)
		return
	}

	tokens := auth.NewTokenManager(
		config.Get().JWTSecret,
		config.Get().JWTAccessTTL,
		config.Get().JWTRefreshTTL,
	)
	otpStore := otp.NewStore(redisAdap, config.Get().OTPTTL)

	transactionRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	shopOwnerRepo := repository.NewShopOwnerRepository(db)
	stockOrderRepo := repository.NewStockOrderRepository(db)

	// services
	ledgerService := services.NewLedgerService(transactionRepo, customerRepo, reconcileQ)
	customerService := services.NewCustomerService(customerRepo, transactionRepo)
	shopOwnerService := services.NewShopOwnerService(shopOwnerRepo, otpStore, mailer, tokens)
	stockService := services.NewStockService(stockOrderRepo)
	healthService := services.NewHealthService()

	// v1 handlers
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	shopOwnerHandler := handlers.NewShopOwnerHandler(shopOwnerService)
	stockHandler := handlers.NewStockHandler(stockService)
	healthHandler := handlers.NewHealthHandler(healthService)

	authn := auth.Middleware(tokens)

	g := s.Router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(g, transactionHandler, authn)
	handlers.RegisterCustomerRoutes(g, customerHandler, authn)
	handlers.RegisterShopOwnerRoutes(g, shopOwnerHandler, authn)
	handlers.RegisterStockRoutes(g, stockHandler, authn)
	handlers.RegisterHealthRoutes(g, healthHandler)

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	if config.Get().AppDebugMetricsAddr != "" {
		go func() {
			prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
