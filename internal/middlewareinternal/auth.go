package middlewareinternal

import (
	"context"

	"github.com/Evgen-Mutagen/atm/internal/core"
	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/types"
	"github.com/Evgen-Mutagen/atm/internal/util/logger"
	"go.uber.org/zap"
)

// SessionAction is one entry of the logged-in menu.
type SessionAction func(ctx context.Context, session model.Session) error

// SessionGuard validates the session before every action it wraps.
func SessionGuard(authService core.AuthService) func(SessionAction) SessionAction {
	return func(next SessionAction) SessionAction {
		return func(ctx context.Context, session model.Session) error {
			clientID, err := authService.ValidateSession(session)
			if err != nil {
				logger.Log.Warn("Session rejected",
					zap.Int64("client_id", session.ClientID),
					zap.Error(err))
				return err
			}

			ctx = context.WithValue(ctx, types.ClientIDKey, clientID)
			logger.Log.Debug("Session validated", zap.Int64("client_id", clientID))

			return next(ctx, session)
		}
	}
}

func GetClientIDFromContext(ctx context.Context) (int64, bool) {
	clientID, ok := ctx.Value(types.ClientIDKey).(int64)
	return clientID, ok
}
