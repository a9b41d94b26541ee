package app

import (
	"net/http"

	"budget-bot-go/internal/config"
	"budget-bot-go/internal/db"
	ledgerdomain "budget-bot-go/internal/domain/ledger"
	limitsdomain "budget-bot-go/internal/domain/limits"
	reportsdomain "budget-bot-go/internal/domain/reports"
	usersdomain "budget-bot-go/internal/domain/users"
	"budget-bot-go/internal/notifier"
	ledgerrepo "budget-bot-go/internal/repository/ledger"
	limitsrepo "budget-bot-go/internal/repository/limits"
	reportsrepo "budget-bot-go/internal/repository/reports"
	usersrepo "budget-bot-go/internal/repository/users"
	"budget-bot-go/internal/scheduler"
	"budget-bot-go/internal/transport/httpserver"
	"budget-bot-go/internal/transport/httpserver/handler"
	"budget-bot-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	sweep      *scheduler.Sweep
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	usersService := usersdomain.NewService(usersrepo.NewPostgres(dbConn))
	ledgerRepo := ledgerrepo.NewPostgres(dbConn)

	alerts := newNotifier(cfg.Notifier, log)
	limitsService := limitsdomain.NewService(
		limitsrepo.NewPostgres(dbConn),
		ledgerRepo,
		usersService,
		alerts,
		cfg.Notifier.SendTimeout,
		log,
	)
	ledgerService := ledgerdomain.NewService(ledgerRepo, usersService, limitsService)
	reportsService := reportsdomain.NewService(reportsrepo.NewPostgres(dbConn))

	log.Info("app: initializing http server")
	handlers := handler.New(usersService, ledgerService, limitsService, reportsService, log)
	srv := httpserver.New(cfg, httpserver.NewRouter(handlers))

	sweep := scheduler.New(limitsService, cfg.Sweep, log)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		sweep:      sweep,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Sweep() *scheduler.Sweep {
	return a.sweep
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newNotifier(cfg config.NotifierConfig, log logger.Logger) limitsdomain.Notifier {
	if cfg.TelegramToken == "" {
		log.Warn("app: TELEGRAM_TOKEN not set, alerts go to the log only")
		return notifier.NewLog(log)
	}

	telegram, err := notifier.NewTelegram(cfg.TelegramToken)
	if err != nil {
		log.Error("app: telegram notifier init failed, falling back to log", "err", err)
		return notifier.NewLog(log)
	}
	return telegram
}
