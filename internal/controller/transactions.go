package controller

import (
	"context"
	"strconv"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/service"
)

func (m *Menu) deposit(ctx context.Context, session model.Session) error {
	session, err := m.guardedSession(ctx, session)
	if err != nil {
		return err
	}

	amount, err := m.readAmount(ctx, "Amount to deposit: ")
	if err != nil {
		return err
	}

	result, err := m.transactions.Deposit(ctx, session, amount)
	if err != nil {
		return err
	}
	m.printf("You deposited %d.\nYour balance: %d\n", result.Amount, result.Balance)
	return nil
}

func (m *Menu) withdraw(ctx context.Context, session model.Session) error {
	session, err := m.guardedSession(ctx, session)
	if err != nil {
		return err
	}

	amount, err := m.readAmount(ctx, "Amount to withdraw: ")
	if err != nil {
		return err
	}

	result, err := m.transactions.Withdraw(ctx, session, amount)
	if err != nil {
		return err
	}
	m.printf("You withdrew %d.\nCommission: %d\nTotal debited: %d\nYour balance: %d\n",
		result.Amount, result.Commission, result.Total, result.Balance)
	return nil
}

func (m *Menu) readAmount(ctx context.Context, text string) (int64, error) {
	answer, ok := m.prompt(ctx, text)
	if !ok {
		return 0, errInputClosed
	}
	amount, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return 0, &service.ValidationError{Field: "amount", Message: "must be a whole number"}
	}
	return amount, nil
}
