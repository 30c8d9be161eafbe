package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"github.com/Evgen-Mutagen/atm/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stack struct {
	accounts service.AccountService
	auth     service.AuthService
	txs      service.TransactionService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db, err := repository.NewDatabase(repository.DatabaseConfig{Path: filepath.Join(t.TempDir(), "atm.db")})
	if err != nil {
		t.Fatalf("NewDatabase err=%v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	clients := repository.NewClientRepository()
	banks := repository.NewBankRepository()
	creds := service.NewCredentialService(db, clients, bcrypt.MinCost)
	return &stack{
		accounts: service.NewAccountService(db, clients, banks, creds, logger),
		auth:     service.NewAuthService(db, clients, creds, []byte("test-secret"), time.Minute, logger),
		txs:      service.NewTransactionService(db, clients, banks, logger),
	}
}

func runScript(t *testing.T, s *stack, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	menu := NewMenu(in, &out, s.accounts, s.auth, s.txs, zap.NewNop())
	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	return out.String()
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q\n--- output ---\n%s", w, out)
		}
	}
}

var registerAnn = []string{"1", "Ann", "20", "0", "1234567890", "1111"}

func TestMenuScenario(t *testing.T) {
	s := newStack(t)
	script := append([]string{}, registerAnn...)
	script = append(script,
		"2", "1234567890", "1111",
		"2", "500",
		"3", "300",
		"3", "1000",
		"1",
		"4",
		"4",
	)
	out := runScript(t, s, script...)

	mustContain(t, out,
		"Registration successful!",
		"Logged in.",
		"You deposited 500.\nYour balance: 500",
		"You withdrew 300.\nCommission: 6\nTotal debited: 306\nYour balance: 194",
		"Insufficient funds on your account.",
		"Your balance: 194",
		"Logged out, back to the main menu.",
		"Goodbye.",
	)

	bank, err := s.accounts.GetBankBalance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if bank != 10506 {
		t.Fatalf("bank=%d want=10506", bank)
	}
}

func TestMenuRegisterErrors(t *testing.T) {
	s := newStack(t)
	script := append([]string{}, registerAnn...)
	script = append(script, registerAnn...)
	script = append(script, "1", "Kid", "ten", "1", "1234567891", "1111", "4")
	out := runScript(t, s, script...)

	mustContain(t, out,
		"This phone number is already registered.",
		"Invalid input: invalid age: must contain digits only.",
	)
}

func TestMenuLoginErrors(t *testing.T) {
	s := newStack(t)
	script := []string{"1", "Kid", "10", "1", "1234567891", "2222"}
	script = append(script, registerAnn...)
	script = append(script,
		"2", "0000000000", "1111",
		"2", "1234567890", "9999",
		"2", "1234567891", "2222",
		"4",
	)
	out := runScript(t, s, script...)

	mustContain(t, out,
		"This phone number is not registered.",
		"Wrong PIN.",
		"You are not old enough to use the bank.",
	)
	if strings.Contains(out, "Logged in.") {
		t.Fatal("no login should succeed")
	}
}

func TestMenuBalanceByPhone(t *testing.T) {
	s := newStack(t)
	script := append([]string{}, registerAnn...)
	script = append(script,
		"3", "1234567890",
		"3", "0000000000",
		"3", "12ab",
		"4",
	)
	out := runScript(t, s, script...)

	mustContain(t, out,
		"Balance of client 1234567890: 0",
		"This phone number is not registered.",
		"Invalid input: invalid phone",
	)
}

func TestMenuSessionInputErrors(t *testing.T) {
	s := newStack(t)
	script := append([]string{}, registerAnn...)
	script = append(script,
		"2", "1234567890", "1111",
		"2", "abc",
		"2", "499",
		"3", "0",
		"9",
		"4",
		"7",
		"4",
	)
	out := runScript(t, s, script...)

	mustContain(t, out,
		"Invalid input: invalid amount: must be a whole number.",
		"Invalid input: invalid amount: must be at least 500.",
		"Invalid input: invalid amount: must be greater than 0.",
		"Unknown choice, try again.",
		"Unknown choice.",
	)
}

func TestMenuEndOfInput(t *testing.T) {
	s := newStack(t)
	script := append([]string{}, registerAnn...)
	script = append(script, "2", "1234567890", "1111", "1")
	out := runScript(t, s, script...)
	mustContain(t, out, "Your balance: 0", "Exiting.")
}

func TestMenuStopsOnCancelledContext(t *testing.T) {
	s := newStack(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	menu := NewMenu(strings.NewReader("1\n"), &out, s.accounts, s.auth, s.txs, zap.NewNop())
	if err := menu.Run(ctx); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), "Interrupted, exiting.")
}

type mockAccounts struct {
	err          error
	lastClientID int64
}

func (m *mockAccounts) Register(context.Context, model.Registration) (int64, error) {
	return 0, m.err
}

func (m *mockAccounts) GetBalance(context.Context, string) (int64, error) {
	return 0, m.err
}

func (m *mockAccounts) SessionBalance(_ context.Context, s model.Session) (int64, error) {
	m.lastClientID = s.ClientID
	return 0, m.err
}

type mockAuth struct {
	validateErr error
	guardedID   int64
}

func (m *mockAuth) Login(_ context.Context, phone, _ string) (*model.Session, error) {
	return &model.Session{ClientID: 1, Phone: phone}, nil
}

func (m *mockAuth) ValidateSession(s model.Session) (int64, error) {
	if m.guardedID != 0 {
		return m.guardedID, m.validateErr
	}
	return s.ClientID, m.validateErr
}

type mockTransactions struct{ called bool }

func (m *mockTransactions) Deposit(context.Context, model.Session, int64) (*model.DepositResult, error) {
	m.called = true
	return &model.DepositResult{}, nil
}

func (m *mockTransactions) Withdraw(context.Context, model.Session, int64) (*model.WithdrawalResult, error) {
	m.called = true
	return &model.WithdrawalResult{}, nil
}

func TestMenuReportsStoreErrors(t *testing.T) {
	storeErr := &repository.StoreError{Op: "get client by phone", Err: errors.New("database is locked")}
	var out bytes.Buffer
	in := strings.NewReader("3\n1234567890\n4\n")
	menu := NewMenu(in, &out, &mockAccounts{err: storeErr}, &mockAuth{}, &mockTransactions{}, zap.NewNop())
	if err := menu.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), "Storage error: store: get client by phone: database is locked", "Goodbye.")
}

func TestMenuExpiredSessionReturnsToMainMenu(t *testing.T) {
	var out bytes.Buffer
	txs := &mockTransactions{}
	in := strings.NewReader("2\n1234567890\n1111\n2\n4\n")
	menu := NewMenu(in, &out, &mockAccounts{}, &mockAuth{validateErr: service.ErrSessionExpired}, txs, zap.NewNop())
	if err := menu.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), "Your session has expired, please log in again.", "Goodbye.")
	if txs.called {
		t.Fatal("deposit must not run on an expired session")
	}
}

func TestMenuActionsUseGuardedClientID(t *testing.T) {
	var out bytes.Buffer
	accounts := &mockAccounts{}
	in := strings.NewReader("2\n1234567890\n1111\n1\n4\n4\n")
	menu := NewMenu(in, &out, accounts, &mockAuth{guardedID: 7}, &mockTransactions{}, zap.NewNop())
	if err := menu.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if accounts.lastClientID != 7 {
		t.Fatalf("balance read for client %d want=7", accounts.lastClientID)
	}
}

func TestMenuInterruptsBlockedPrompt(t *testing.T) {
	s := newStack(t)
	r, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	menu := NewMenu(r, &out, s.accounts, s.auth, s.txs, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- menu.Run(ctx) }()

	if _, err := io.WriteString(w, "3\n"); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("menu still waiting for input after cancel")
	}
	mustContain(t, out.String(), "Interrupted, exiting.")
}
