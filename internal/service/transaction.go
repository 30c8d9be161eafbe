package service

import (
	"context"
	"errors"
	"math"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"go.uber.org/zap"
)

const (
	MinDeposit        = 500
	CommissionPercent = 2
	// MaxAmount caps a single deposit or withdrawal.
	MaxAmount = 1_000_000_000_000_000
)

type TransactionService interface {
	Deposit(ctx context.Context, session model.Session, amount int64) (*model.DepositResult, error)
	Withdraw(ctx context.Context, session model.Session, amount int64) (*model.WithdrawalResult, error)
}

type transactionService struct {
	db         *repository.Database
	clientRepo repository.ClientRepository
	bankRepo   repository.BankRepository
	logger     *zap.Logger
}

func NewTransactionService(
	db *repository.Database,
	clientRepo repository.ClientRepository,
	bankRepo repository.BankRepository,
	logger *zap.Logger,
) TransactionService {
	return &transactionService{
		db:         db,
		clientRepo: clientRepo,
		bankRepo:   bankRepo,
		logger:     logger,
	}
}

// Commission is the withdrawal fee, rounded down to whole units.
func Commission(amount int64) int64 {
	return amount/100*CommissionPercent + amount%100*CommissionPercent/100
}

// checkCredit rejects a credit that would push balance past the int64 range.
func checkCredit(balance, amount int64) error {
	if balance > math.MaxInt64-amount {
		return &ValidationError{Field: "amount", Message: "would overflow the balance"}
	}
	return nil
}

// Deposit credits the full amount to both the client and the bank.
func (s *transactionService) Deposit(ctx context.Context, session model.Session, amount int64) (*model.DepositResult, error) {
	if err := validateStruct(depositInput{Amount: amount}); err != nil {
		return nil, err
	}

	result := &model.DepositResult{Amount: amount}
	var bankBalance int64
	err := s.db.WithTx(ctx, func(q repository.Querier) error {
		client, err := s.clientRepo.GetByID(ctx, q, session.ClientID)
		if err != nil {
			return err
		}
		bank, err := s.mainBank(ctx, q)
		if err != nil {
			return err
		}
		if err := checkCredit(client.Balance, amount); err != nil {
			return err
		}
		if err := checkCredit(bank.Balance, amount); err != nil {
			return err
		}

		if err := s.clientRepo.AddBalance(ctx, q, session.ClientID, amount); err != nil {
			return err
		}
		if err := s.bankRepo.AddBalance(ctx, q, model.MainBankName, amount); err != nil {
			return err
		}
		result.Balance = client.Balance + amount
		bankBalance = bank.Balance + amount
		return nil
	})
	if err != nil {
		err = mapNotFound(err)
		if errors.Is(err, ErrValidation) {
			s.logger.Info("Deposit rejected",
				zap.Int64("client_id", session.ClientID),
				zap.Int64("amount", amount),
				zap.Error(err))
		} else {
			s.logger.Error("Deposit failed",
				zap.Int64("client_id", session.ClientID),
				zap.Int64("amount", amount),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Deposit completed",
		zap.Int64("client_id", session.ClientID),
		zap.Int64("amount", amount),
		zap.Int64("balance", result.Balance),
		zap.Int64("bank_balance", bankBalance))
	return result, nil
}

// Withdraw debits amount plus commission from the client and credits the
// commission to the bank.
func (s *transactionService) Withdraw(ctx context.Context, session model.Session, amount int64) (*model.WithdrawalResult, error) {
	if err := validateStruct(withdrawalInput{Amount: amount}); err != nil {
		return nil, err
	}

	commission := Commission(amount)
	result := &model.WithdrawalResult{
		Amount:     amount,
		Commission: commission,
		Total:      amount + commission,
	}

	var bankBalance int64
	err := s.db.WithTx(ctx, func(q repository.Querier) error {
		client, err := s.clientRepo.GetByID(ctx, q, session.ClientID)
		if err != nil {
			return err
		}
		if result.Total > client.Balance {
			return ErrInsufficientFunds
		}
		bank, err := s.mainBank(ctx, q)
		if err != nil {
			return err
		}
		if err := checkCredit(bank.Balance, commission); err != nil {
			return err
		}

		if err := s.clientRepo.Debit(ctx, q, session.ClientID, result.Total); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return ErrInsufficientFunds
			}
			return err
		}
		if err := s.bankRepo.AddBalance(ctx, q, model.MainBankName, commission); err != nil {
			return err
		}
		result.Balance = client.Balance - result.Total
		bankBalance = bank.Balance + commission
		return nil
	})
	if err != nil {
		err = mapNotFound(err)
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrValidation) {
			s.logger.Info("Withdrawal rejected",
				zap.Int64("client_id", session.ClientID),
				zap.Int64("total", result.Total),
				zap.Error(err))
		} else {
			s.logger.Error("Withdrawal failed",
				zap.Int64("client_id", session.ClientID),
				zap.Int64("amount", amount),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Withdrawal completed",
		zap.Int64("client_id", session.ClientID),
		zap.Int64("amount", amount),
		zap.Int64("commission", commission),
		zap.Int64("balance", result.Balance),
		zap.Int64("bank_balance", bankBalance))
	return result, nil
}

// mainBank reads the ledger row. Its absence is a storage fault, not a
// missing client.
func (s *transactionService) mainBank(ctx context.Context, q repository.Querier) (*model.Bank, error) {
	bank, err := s.bankRepo.Get(ctx, q, model.MainBankName)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &repository.StoreError{Op: "get bank", Err: errors.New("ledger row " + model.MainBankName + " is missing")}
	}
	return bank, err
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrClientNotFound
	}
	return err
}
