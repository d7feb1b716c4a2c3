package cli

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"household-planner/internal/config"
	"household-planner/internal/model"
	"household-planner/internal/repository"
	"household-planner/internal/service"
)

// app wires the services every command works with.
type app struct {
	cfg       config.Config
	log       *zap.SugaredLogger
	db        *gorm.DB
	clock     service.Clock
	engine    *service.Engine
	templates *service.TemplateService
	summary   *service.SummaryService
	snapshots *service.SnapshotJob
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := repository.NewDB(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	store := repository.NewStore(db)
	clock := service.SystemClock{Location: cfg.Location}
	engine := service.NewEngine(store, clock, log)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		clock:     clock,
		engine:    engine,
		templates: service.NewTemplateService(store, clock, log),
		summary:   service.NewSummaryService(engine),
		snapshots: service.NewSnapshotJob(engine, clock, log),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

// resolveDate returns the --date flag value or today.
func (a *app) resolveDate(raw string) (model.Date, error) {
	if raw == "" {
		return a.engine.Today(), nil
	}
	return model.ParseDate(raw)
}
