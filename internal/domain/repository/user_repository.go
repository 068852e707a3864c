package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// RoleRepository manages named role groups. Groups are a denormalised index
// written at sign-up; access checks read User.Role, never group membership.
type RoleRepository interface {
	EnsureRole(ctx context.Context, name string) (*entity.RoleGroup, error)
	AddMember(ctx context.Context, name, userID string) error
}
