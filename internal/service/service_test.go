package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db           *repository.Database
	credentials  CredentialService
	accounts     AccountService
	auth         *authService
	transactions TransactionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDatabase(repository.DatabaseConfig{Path: filepath.Join(t.TempDir(), "atm.db")})
	if err != nil {
		t.Fatalf("NewDatabase err=%v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	clients := repository.NewClientRepository()
	banks := repository.NewBankRepository()
	credentials := NewCredentialService(db, clients, bcrypt.MinCost)

	return &testEnv{
		db:           db,
		credentials:  credentials,
		accounts:     NewAccountService(db, clients, banks, credentials, logger),
		auth:         NewAuthService(db, clients, credentials, []byte("test-secret"), 15*time.Minute, logger).(*authService),
		transactions: NewTransactionService(db, clients, banks, logger),
	}
}

func ann() model.Registration {
	return model.Registration{Name: "Ann", Age: "20", Sex: "0", Phone: "1234567890", Pin: "1111"}
}

func (e *testEnv) register(t *testing.T, reg model.Registration) int64 {
	t.Helper()
	id, err := e.accounts.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("Register(%+v) err=%v", reg, err)
	}
	return id
}

func (e *testEnv) login(t *testing.T, phone, pin string) model.Session {
	t.Helper()
	session, err := e.auth.Login(context.Background(), phone, pin)
	if err != nil {
		t.Fatalf("Login(%s) err=%v", phone, err)
	}
	return *session
}

func (e *testEnv) balance(t *testing.T, phone string) int64 {
	t.Helper()
	bal, err := e.accounts.GetBalance(context.Background(), phone)
	if err != nil {
		t.Fatalf("GetBalance(%s) err=%v", phone, err)
	}
	return bal
}

func (e *testEnv) bankBalance(t *testing.T) int64 {
	t.Helper()
	bal, err := e.accounts.GetBankBalance(context.Background())
	if err != nil {
		t.Fatalf("GetBankBalance err=%v", err)
	}
	return bal
}
