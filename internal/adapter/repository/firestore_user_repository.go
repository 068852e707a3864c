package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = r.client.Collection(usersCollection).NewDoc().ID
	}
	if _, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user); err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getDoc[entity.User](ctx, r.client.Collection(usersCollection).Doc(id), "User")
}

func (r *firestoreUserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*entity.User, error) {
	return first[entity.User](ctx, r.client.Collection(usersCollection).Where("firebaseUid", "==", uid), "User")
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return first[entity.User](ctx, r.client.Collection(usersCollection).Where("email", "==", email), "User")
}

func (r *firestoreUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return first[entity.User](ctx, r.client.Collection(usersCollection).Where("username", "==", username), "User")
}

// Update writes the mutable profile fields only; identity fields never change.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Update(ctx, []firestore.Update{
		{Path: "username", Value: user.Username},
		{Path: "bio", Value: user.Bio},
		{Path: "profileImageId", Value: user.ProfileImageID},
		{Path: "updatedAt", Value: user.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

type firestoreRoleRepository struct {
	client *firestore.Client
}

func NewFirestoreRoleRepository(client *firestore.Client) repository.RoleRepository {
	return &firestoreRoleRepository{
		client: client,
	}
}

// EnsureRole returns the named role, creating it on first use.
func (r *firestoreRoleRepository) EnsureRole(ctx context.Context, name string) (*entity.RoleGroup, error) {
	ref := r.client.Collection(rolesCollection).Doc(name)
	var role entity.RoleGroup

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err == nil {
			return doc.DataTo(&role)
		}
		if !isNotFound(err) {
			return err
		}
		role = entity.RoleGroup{Name: name, Members: []string{}, CreatedAt: time.Now()}
		return tx.Create(ref, role)
	})
	if err != nil {
		return nil, errors.Internal("Failed to ensure role "+name, err)
	}
	return &role, nil
}

func (r *firestoreRoleRepository) AddMember(ctx context.Context, name, userID string) error {
	_, err := r.client.Collection(rolesCollection).Doc(name).Set(ctx, map[string]interface{}{
		"name":    name,
		"members": firestore.ArrayUnion(userID),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to add role member", err)
	}
	return nil
}
