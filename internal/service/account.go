package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"go.uber.org/zap"
)

type AccountService interface {
	Register(ctx context.Context, reg model.Registration) (int64, error)
	GetBalance(ctx context.Context, phone string) (int64, error)
	SessionBalance(ctx context.Context, session model.Session) (int64, error)
	GetBankBalance(ctx context.Context) (int64, error)
}

type accountService struct {
	db          *repository.Database
	clientRepo  repository.ClientRepository
	bankRepo    repository.BankRepository
	credentials CredentialService
	logger      *zap.Logger
}

func NewAccountService(
	db *repository.Database,
	clientRepo repository.ClientRepository,
	bankRepo repository.BankRepository,
	credentials CredentialService,
	logger *zap.Logger,
) AccountService {
	return &accountService{
		db:          db,
		clientRepo:  clientRepo,
		bankRepo:    bankRepo,
		credentials: credentials,
		logger:      logger,
	}
}

func (s *accountService) Register(ctx context.Context, reg model.Registration) (int64, error) {
	if err := validateStruct(reg); err != nil {
		return 0, err
	}
	age, err := strconv.Atoi(reg.Age)
	if err != nil {
		return 0, &ValidationError{Field: "age", Message: "must be a non-negative integer"}
	}
	sex, _ := strconv.Atoi(reg.Sex)

	digest, err := s.credentials.Hash(reg.Pin)
	if err != nil {
		return 0, err
	}

	client := &model.Client{
		Name:    reg.Name,
		Age:     age,
		Sex:     model.Sex(sex),
		Phone:   reg.Phone,
		PinHash: digest,
	}

	err = s.db.WithTx(ctx, func(q repository.Querier) error {
		_, err := s.clientRepo.GetByPhone(ctx, q, reg.Phone)
		switch {
		case err == nil:
			return ErrDuplicatePhone
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if err := s.clientRepo.Create(ctx, q, client); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicatePhone
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicatePhone) {
			s.logger.Info("Registration rejected, phone already registered")
		} else {
			s.logger.Error("Registration failed", zap.Error(err))
		}
		return 0, err
	}

	s.logger.Info("Client registered",
		zap.Int64("client_id", client.ID),
		zap.Int("age", client.Age))
	return client.ID, nil
}

func (s *accountService) GetBalance(ctx context.Context, phone string) (int64, error) {
	if err := validateStruct(phoneInput{Phone: phone}); err != nil {
		return 0, err
	}

	client, err := s.clientRepo.GetByPhone(ctx, s.db.DB(), phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrClientNotFound
		}
		s.logger.Error("Failed to read client balance", zap.Error(err))
		return 0, err
	}
	return client.Balance, nil
}

// SessionBalance reads the balance of the logged-in client by id.
func (s *accountService) SessionBalance(ctx context.Context, session model.Session) (int64, error) {
	client, err := s.clientRepo.GetByID(ctx, s.db.DB(), session.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrClientNotFound
		}
		s.logger.Error("Failed to read client balance",
			zap.Int64("client_id", session.ClientID),
			zap.Error(err))
		return 0, err
	}
	return client.Balance, nil
}

func (s *accountService) GetBankBalance(ctx context.Context) (int64, error) {
	bank, err := s.bankRepo.Get(ctx, s.db.DB(), model.MainBankName)
	if err != nil {
		return 0, fmt.Errorf("failed to read bank balance: %w", err)
	}
	return bank.Balance, nil
}
