package controller

import (
	"context"
	"errors"

	"github.com/Evgen-Mutagen/atm/internal/middlewareinternal"
	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"github.com/Evgen-Mutagen/atm/internal/service"
	"go.uber.org/zap"
)

var errInputClosed = errors.New("input closed")

// report prints a user-facing message for err. Nothing here ends the program.
func (m *Menu) report(err error) {
	var (
		validationErr *service.ValidationError
		storeErr      *repository.StoreError
	)

	switch {
	case errors.Is(err, errInputClosed), errors.Is(err, context.Canceled):
	case errors.As(err, &validationErr):
		m.println("Invalid input: " + validationErr.Error() + ".")
	case errors.Is(err, service.ErrDuplicatePhone):
		m.println("This phone number is already registered.")
	case errors.Is(err, service.ErrClientNotFound):
		m.println("This phone number is not registered.")
	case errors.Is(err, service.ErrInvalidCredentials):
		m.println("Wrong PIN.")
	case errors.Is(err, service.ErrAgeRestricted):
		m.println("You are not old enough to use the bank.")
	case errors.Is(err, service.ErrInsufficientFunds):
		m.println("Insufficient funds on your account.")
	case errors.Is(err, service.ErrSessionExpired):
		m.println("Your session has expired, please log in again.")
	case errors.As(err, &storeErr):
		m.println("Storage error: " + storeErr.Error())
	default:
		m.logger.Error("Unexpected error", zap.Error(err))
		m.println("Error: " + err.Error())
	}
}

// isSessionFatal reports errors after which the session menu cannot go on.
func isSessionFatal(err error) bool {
	return errors.Is(err, errInputClosed) ||
		errors.Is(err, service.ErrSessionExpired) ||
		errors.Is(err, service.ErrInvalidCredentials)
}

// guardedSession binds session to the client id the session guard validated.
func (m *Menu) guardedSession(ctx context.Context, session model.Session) (model.Session, error) {
	clientID, ok := middlewareinternal.GetClientIDFromContext(ctx)
	if !ok {
		m.logger.Error("Client ID not found in context")
		return session, service.ErrInvalidCredentials
	}
	session.ClientID = clientID
	return session, nil
}
