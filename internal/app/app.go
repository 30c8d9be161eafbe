package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Evgen-Mutagen/atm/internal/controller"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"github.com/Evgen-Mutagen/atm/internal/service"
	"go.uber.org/zap"
)

type App struct {
	cfg      *Config
	db       *repository.Database
	accounts service.AccountService
	Logger   *zap.Logger
	Menu     *controller.Menu
}

func New(cfg *Config, logger *zap.Logger, in io.Reader, out io.Writer) (*App, error) {
	app := &App{
		cfg:    cfg,
		Logger: logger,
	}

	if err := app.initDB(); err != nil {
		return nil, err
	}
	if err := app.initMenu(in, out); err != nil {
		app.db.Close()
		return nil, err
	}
	return app, nil
}

// Run blocks in the menu loop until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logLedger("ATM started")
	err := a.Menu.Run(ctx)
	a.logLedger("ATM stopped")
	return err
}

func (a *App) logLedger(msg string) {
	// The menu may have ended on a cancelled context, so read with a fresh one.
	balance, err := a.accounts.GetBankBalance(context.Background())
	if err != nil {
		a.Logger.Warn(msg, zap.Error(err))
		return
	}
	a.Logger.Info(msg, zap.Int64("bank_balance", balance))
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) initDB() error {
	db, err := repository.NewDatabase(repository.DatabaseConfig{
		Path:   a.cfg.DatabasePath,
		Logger: a.Logger.With(zap.String("component", "Database")),
	})
	if err != nil {
		a.Logger.Error("Database initialization failed",
			zap.String("path", a.cfg.DatabasePath),
			zap.Error(err))
		return fmt.Errorf("database initialization failed: %w", err)
	}

	a.db = db
	return nil
}

func (a *App) initMenu(in io.Reader, out io.Writer) error {
	sessionKey, err := a.cfg.SessionKey()
	if err != nil {
		return err
	}

	// Repositories
	clientRepo := repository.NewClientRepository()
	bankRepo := repository.NewBankRepository()

	// Services
	credentialService := service.NewCredentialService(a.db, clientRepo, a.cfg.PinHashCost)
	accountService := service.NewAccountService(a.db, clientRepo, bankRepo, credentialService,
		a.Logger.With(zap.String("component", "AccountService")))
	authService := service.NewAuthService(a.db, clientRepo, credentialService, sessionKey, a.cfg.SessionTTL,
		a.Logger.With(zap.String("component", "AuthService")))
	transactionService := service.NewTransactionService(a.db, clientRepo, bankRepo,
		a.Logger.With(zap.String("component", "TransactionService")))

	a.accounts = accountService
	a.Menu = controller.NewMenu(in, out, accountService, authService, transactionService,
		a.Logger.With(zap.String("component", "Menu")))
	return nil
}
