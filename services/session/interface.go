package session

import (
	"context"
	"time"

	"carbook/config"
	sessionRepo "carbook/database/repository/session"
	"carbook/models"
	"carbook/utils"

	"go.uber.org/zap"
)

// Mutator changes a session in place. Returning an error discards the change.
type Mutator func(s *models.Session) error

// SessionManager owns session lifecycle and per-session serialization.
type SessionManager interface {
	CreateSession(ctx context.Context, userID string) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateSession(ctx context.Context, sessionID string, mutate Mutator) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListActiveSessions(ctx context.Context) ([]models.SessionStatus, error)
	Status(ctx context.Context, sessionID string) (*models.SessionStatus, error)
	Ping(ctx context.Context) error
}

// DefaultSessionManager implements SessionManager on top of a SessionStore.
type DefaultSessionManager struct {
	Store  sessionRepo.SessionStore
	Config config.SessionConfig
	Now    func() time.Time
	Logger *zap.Logger

	locks *utils.KeyedMutex
}

func NewSessionManager(store sessionRepo.SessionStore, cfg config.SessionConfig) *DefaultSessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &DefaultSessionManager{
		Store:  store,
		Config: cfg,
		Now:    time.Now,
		Logger: utils.GetLogger(),
		locks:  utils.NewKeyedMutex(),
	}
}
