package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/Evgen-Mutagen/atm/internal/core"
	"github.com/Evgen-Mutagen/atm/internal/middlewareinternal"
	"go.uber.org/zap"
)

const (
	mainMenu    = "\n1. Register\n2. Log in\n3. View balance by phone\n4. Exit\nChoose an action: "
	sessionMenu = "\nChoose an action:\n1. View balance\n2. Deposit\n3. Withdraw\n4. Log out\nYour choice: "
)

// Menu drives the terminal dialogue. It reads one answer per line.
type Menu struct {
	in           *lineReader
	out          io.Writer
	accounts     core.AccountService
	auth         core.AuthService
	transactions core.TransactionService
	guard        func(middlewareinternal.SessionAction) middlewareinternal.SessionAction
	logger       *zap.Logger
}

func NewMenu(
	in io.Reader,
	out io.Writer,
	accounts core.AccountService,
	auth core.AuthService,
	transactions core.TransactionService,
	logger *zap.Logger,
) *Menu {
	return &Menu{
		in:           newLineReader(in),
		out:          out,
		accounts:     accounts,
		auth:         auth,
		transactions: transactions,
		guard:        middlewareinternal.SessionGuard(auth),
		logger:       logger,
	}
}

// Run loops over the main menu until Exit, end of input or ctx cancellation.
func (m *Menu) Run(ctx context.Context) error {
	defer m.in.stop()

	for {
		choice, ok := m.prompt(ctx, mainMenu)
		if !ok {
			return m.leave(ctx)
		}

		switch choice {
		case "1":
			m.Register(ctx)
		case "2":
			if !m.Login(ctx) {
				return m.leave(ctx)
			}
		case "3":
			m.ViewBalanceByPhone(ctx)
		case "4":
			m.println("Goodbye.")
			return nil
		default:
			m.println("Unknown choice.")
		}
	}
}

// leave ends the dialogue after input stopped or ctx was cancelled.
func (m *Menu) leave(ctx context.Context) error {
	if ctx.Err() != nil {
		m.logger.Info("Menu interrupted", zap.Error(ctx.Err()))
		m.println("\nInterrupted, exiting.")
		return nil
	}
	m.println("\nExiting.")
	return m.in.Err()
}

// prompt prints text and returns the trimmed answer. ok is false once input
// is exhausted or ctx is cancelled.
func (m *Menu) prompt(ctx context.Context, text string) (string, bool) {
	fmt.Fprint(m.out, text)
	return m.in.next(ctx)
}

func (m *Menu) println(text string) {
	fmt.Fprintln(m.out, text)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
