package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MohdAnasQureshi/groceryshop/internal/config"
	"github.com/MohdAnasQureshi/groceryshop/internal/reconciler"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
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

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill, os.Interrupt, syscall.SIGTERM)

	transactionRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// The ledger service re-derives balances; the reconciler never publishes
	// new jobs, so it runs without a queue publisher.
	ledgerService := services.NewLedgerService(transactionRepo, customerRepo, nil)

	metrics := reconciler.NewServiceMetrics()
	service, err := reconciler.NewService(redisAdap, metrics)
	if err != nil {
		logger.Error("failed to create reconciler", "error", err)
		return
	}
	service.RegisterProcessor(reconciler.NewBalanceProcessor(ledgerService, customerRepo, metrics))

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

	go func() {
		prom.ListenAndServer(":9100", "/metrics")
	}()

	go func() {
		err := service.Start()
		if err != nil {
			logger.Error("failed to start reconciler", "error", err)
		}
	}()

	select {
	case <-c:
		service.Stop()
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
