package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Evgen-Mutagen/atm/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type CredentialService interface {
	Hash(pin string) (string, error)
	Matches(digest, pin string) bool
	Verify(ctx context.Context, phone, pin string) (bool, error)
}

type credentialService struct {
	db         *repository.Database
	clientRepo repository.ClientRepository
	cost       int
}

func NewCredentialService(db *repository.Database, clientRepo repository.ClientRepository, cost int) CredentialService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &credentialService{
		db:         db,
		clientRepo: clientRepo,
		cost:       cost,
	}
}

// Hash salts every digest, so two clients with the same PIN get different
// digests.
func (s *credentialService) Hash(pin string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(pin), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(digest), nil
}

func (s *credentialService) Matches(digest, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pin)) == nil
}

// Verify reports false for an unknown phone as well as for a wrong PIN.
func (s *credentialService) Verify(ctx context.Context, phone, pin string) (bool, error) {
	client, err := s.clientRepo.GetByPhone(ctx, s.db.DB(), phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.Matches(client.PinHash, pin), nil
}
