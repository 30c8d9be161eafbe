package core

import (
	"context"

	"github.com/Evgen-Mutagen/atm/internal/model"
)

type (
	AccountService interface {
		Register(ctx context.Context, reg model.Registration) (int64, error)
		GetBalance(ctx context.Context, phone string) (int64, error)
		SessionBalance(ctx context.Context, session model.Session) (int64, error)
	}

	AuthService interface {
		Login(ctx context.Context, phone, pin string) (*model.Session, error)
		ValidateSession(session model.Session) (int64, error)
	}

	TransactionService interface {
		Deposit(ctx context.Context, session model.Session, amount int64) (*model.DepositResult, error)
		Withdraw(ctx context.Context, session model.Session, amount int64) (*model.WithdrawalResult, error)
	}
)
