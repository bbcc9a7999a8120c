package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	httphandler "github.com/ogurasousui/codex-staff-registry/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-staff-registry/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-staff-registry/internal/adapters/storage/local"
	"github.com/ogurasousui/codex-staff-registry/internal/core/department"
	"github.com/ogurasousui/codex-staff-registry/internal/core/position"
	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
	"github.com/ogurasousui/codex-staff-registry/internal/platform/config"
	pg "github.com/ogurasousui/codex-staff-registry/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-staff-registry/internal/platform/logging"
	"github.com/ogurasousui/codex-staff-registry/internal/platform/server"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger := logging.New(cfg.Log)
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database pool")
	}
	defer dbPool.Close()

	photos, err := local.NewPhotoStore(cfg.Storage.PhotoDir, cfg.Storage.MaxPhotoBytes, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize photo store")
	}

	txManager := pg.NewTransactionManager(dbPool)
	staffSvc := staff.NewService(postgres.NewStaffRepository(dbPool), photos, txManager, logger)
	departmentSvc := department.NewService(postgres.NewDepartmentRepository(dbPool), txManager)
	positionSvc := position.NewService(postgres.NewPositionRepository(dbPool), txManager)

	grpcServer := server.New(cfg.Server.ListenAddr, staffSvc, logger)
	httpServer := server.NewHTTP(cfg.Server.HTTPAddr, httphandler.NewRouter(httphandler.RouterConfig{
		Staff:          staffSvc,
		Departments:    departmentSvc,
		Positions:      positionSvc,
		DB:             dbPool,
		Logger:         logger,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		stop()
		dbPool.Close()
		os.Exit(1)
	}
	logger.Info("servers stopped")
}
