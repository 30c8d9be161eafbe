package controller

import (
	"context"

	"github.com/Evgen-Mutagen/atm/internal/model"
)

func (m *Menu) ViewBalanceByPhone(ctx context.Context) {
	phone, ok := m.prompt(ctx, "Client phone number: ")
	if !ok {
		return
	}

	balance, err := m.accounts.GetBalance(ctx, phone)
	if err != nil {
		m.report(err)
		return
	}
	m.printf("Balance of client %s: %d\n", phone, balance)
}

func (m *Menu) viewBalance(ctx context.Context, session model.Session) error {
	session, err := m.guardedSession(ctx, session)
	if err != nil {
		return err
	}

	balance, err := m.accounts.SessionBalance(ctx, session)
	if err != nil {
		return err
	}
	m.printf("Your balance: %d\n", balance)
	return nil
}
