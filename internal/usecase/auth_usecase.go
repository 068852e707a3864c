package usecase

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/policy"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	identity IdentityProvider
}

func NewAuthUseCase(userRepo repository.UserRepository, roleRepo repository.RoleRepository, identity IdentityProvider) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		identity: identity,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     string
}

type AuthResult struct {
	User   *entity.User       `json:"user"`
	Tokens *entity.AuthTokens `json:"tokens,omitempty"`
}

// Register creates the identity account first and the user record second. When
// the second step fails the identity account is deleted again.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if input.Role == "" {
		input.Role = entity.RoleGeneralUser
	}
	if !entity.IsValidRole(input.Role) {
		return nil, errors.BadRequest("Invalid role", nil)
	}

	if err := uc.ensureAvailable(ctx, input.Email, input.Username); err != nil {
		return nil, err
	}

	uid, err := uc.identity.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	ts := now()
	user := &entity.User{
		ID:          uuid.New().String(),
		Username:    input.Username,
		Email:       input.Email,
		FirebaseUID: uid,
		Role:        input.Role,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	user.ACL, err = policy.Build(policy.KindUser, policy.Owner(user.ID))
	if err == nil {
		err = uc.userRepo.Create(ctx, user)
	}
	if err != nil {
		return nil, uc.compensateRegistration(ctx, uid, err)
	}

	uc.joinRoleGroup(ctx, user)

	tokens, err := uc.identity.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		// the account exists, the client can still log in explicitly
		logger.Warn("Sign-in after registration failed for %s: %v", user.ID, err)
		return &AuthResult{User: user}, nil
	}

	logger.WithFields(map[string]interface{}{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (uc *AuthUseCase) ensureAvailable(ctx context.Context, email, username string) error {
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return errors.Conflict("Email already in use")
	} else if !errors.IsNotFound(err) {
		return err
	}

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return errors.Conflict("Username already taken")
	} else if !errors.IsNotFound(err) {
		return err
	}
	return nil
}

func (uc *AuthUseCase) compensateRegistration(ctx context.Context, uid string, cause error) error {
	if err := uc.identity.DeleteUser(ctx, uid); err != nil {
		logger.WithFields(map[string]interface{}{"firebase_uid": uid}).
			Errorf("Orphaned identity account: record creation failed (%v) and cleanup failed (%v)", cause, err)
		return errors.Internal("Failed to create user record; identity cleanup also failed", stderrors.Join(cause, err))
	}
	return errors.Internal("Failed to create user record", cause)
}

func (uc *AuthUseCase) joinRoleGroup(ctx context.Context, user *entity.User) {
	if _, err := uc.roleRepo.EnsureRole(ctx, user.Role); err != nil {
		logger.Warn("Failed to ensure role %s: %v", user.Role, err)
		return
	}
	if err := uc.roleRepo.AddMember(ctx, user.Role, user.ID); err != nil {
		logger.Warn("Failed to add %s to role %s: %v", user.ID, user.Role, err)
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	tokens, err := uc.identity.SignInWithEmailPassword(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		logger.Debug("Login failed: %v", err)
		if errors.Is(err, "UNAUTHORIZED") {
			return nil, err
		}
		return nil, errors.Internal("Failed to sign in", err)
	}

	user, err := uc.userRepo.GetByFirebaseUID(ctx, tokens.UID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("No account is linked to these credentials", err)
		}
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Authenticate turns an ID token into the caller's session.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	uid, err := uc.identity.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := uc.userRepo.GetByFirebaseUID(ctx, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("No account is linked to this token", err)
		}
		return nil, err
	}
	return user.Session(), nil
}

func (uc *AuthUseCase) CurrentUser(ctx context.Context, sess *entity.Session) (*entity.User, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return uc.userRepo.GetByID(ctx, sess.UserID)
}

// Logout revokes every refresh token so other devices are signed out too.
func (uc *AuthUseCase) Logout(ctx context.Context, sess *entity.Session) error {
	if !sess.IsAuthenticated() {
		return errors.Unauthorized("Authentication required", nil)
	}
	if err := uc.identity.RevokeSessions(ctx, sess.FirebaseUID); err != nil {
		return errors.Internal("Failed to revoke sessions", err)
	}
	return nil
}

func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	if err := uc.identity.SendPasswordReset(ctx, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return errors.Internal("Failed to send password reset email", err)
	}
	return nil
}
