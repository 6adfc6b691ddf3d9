package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ecshop/internal/config"
	"ecshop/internal/infra/db"
	infraRepo "ecshop/internal/infra/repository"
	"ecshop/internal/logger"
	"ecshop/internal/metrics"
	"ecshop/internal/server"
	"ecshop/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", false)
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())
	if envErr != nil {
		log.Debug().Err(envErr).Msg(".env not loaded")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	//メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, checkoutMetrics, cfg.OrdersMaxPageSize)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)

	e := server.New(server.Deps{
		Config:   cfg,
		DB:       gormDB,
		Orders:   orderUC,
		Cart:     cartUC,
		Gatherer: reg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, e, addr); err != nil {
		log.Fatal().Err(err).Msg("server")
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
