package usecase

import (
	"context"
	"time"

	"roostermarket/internal/domain/entity"
)

// IdentityProvider is the hosted identity service that owns credentials.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	RevokeSessions(ctx context.Context, uid string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// ChatEventPublisher pushes conversation changes to connected participants.
type ChatEventPublisher interface {
	Publish(ctx context.Context, userIDs []string, event *entity.ChatEvent) error
}

type RateLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}

var now = time.Now
