package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"github.com/Evgen-Mutagen/atm/internal/repository"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MinLoginAge is the youngest age allowed to open a session.
const MinLoginAge = 14

type AuthService interface {
	Login(ctx context.Context, phone, pin string) (*model.Session, error)
	ValidateSession(session model.Session) (int64, error)
}

type sessionClaims struct {
	ClientID int64  `json:"client_id"`
	Phone    string `json:"phone"`
	jwt.RegisteredClaims
}

type authService struct {
	db          *repository.Database
	clientRepo  repository.ClientRepository
	credentials CredentialService
	secretKey   []byte
	sessionTTL  time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewAuthService(
	db *repository.Database,
	clientRepo repository.ClientRepository,
	credentials CredentialService,
	secretKey []byte,
	sessionTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		db:          db,
		clientRepo:  clientRepo,
		credentials: credentials,
		secretKey:   secretKey,
		sessionTTL:  sessionTTL,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *authService) Login(ctx context.Context, phone, pin string) (*model.Session, error) {
	if err := validateStruct(loginInput{Phone: phone, Pin: pin}); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByPhone(ctx, s.db.DB(), phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("Login refused, unknown phone")
			return nil, ErrClientNotFound
		}
		s.logger.Error("Login failed", zap.Error(err))
		return nil, err
	}

	ok, err := s.credentials.Verify(ctx, phone, pin)
	if err != nil {
		s.logger.Error("Login failed", zap.Error(err))
		return nil, err
	}
	if !ok {
		s.logger.Warn("Login refused, wrong pin", zap.Int64("client_id", client.ID))
		return nil, ErrInvalidCredentials
	}

	if client.Age < MinLoginAge {
		s.logger.Info("Login refused, age restriction",
			zap.Int64("client_id", client.ID),
			zap.Int("age", client.Age))
		return nil, ErrAgeRestricted
	}

	session, err := s.issueSession(client)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client logged in", zap.Int64("client_id", client.ID))
	return session, nil
}

// ValidateSession checks the session token and returns the client id it was
// issued for.
func (s *authService) ValidateSession(session model.Session) (int64, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return 0, ErrSessionExpired
		}
		return 0, ErrInvalidCredentials
	}
	if !token.Valid || claims.ClientID != session.ClientID || claims.Phone != session.Phone {
		return 0, ErrInvalidCredentials
	}
	if claims.ExpiresAt != nil && !s.now().Before(claims.ExpiresAt.Time) {
		return 0, ErrSessionExpired
	}
	return claims.ClientID, nil
}

func (s *authService) issueSession(client *model.Client) (*model.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)

	claims := sessionClaims{
		ClientID: client.ID,
		Phone:    client.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(client.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return nil, err
	}

	return &model.Session{
		ClientID:  client.ID,
		Phone:     client.Phone,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
