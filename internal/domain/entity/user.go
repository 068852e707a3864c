package entity

import (
	"time"
)

const (
	RoleFarmer      = "Farmer"
	RoleGeneralUser = "GeneralUser"
	RoleEnthusiast  = "Enthusiast"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleGeneralUser, RoleEnthusiast:
		return true
	}
	return false
}

type User struct {
	ID             string `json:"id" firestore:"id"`
	Username       string `json:"username" firestore:"username"`
	Email          string `json:"email" firestore:"email"`
	FirebaseUID    string `json:"-" firestore:"firebaseUid"`
	Role           string `json:"role" firestore:"role"`
	Bio            string `json:"bio,omitempty" firestore:"bio,omitempty"`
	ProfileImageID string `json:"profile_image_id,omitempty" firestore:"profileImageId,omitempty"`
	ACL            ACL    `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsFarmer() bool {
	return u.Role == RoleFarmer
}

func (u *User) IsGeneralUser() bool {
	return u.Role == RoleGeneralUser
}

// Session builds the per-request session for this user.
func (u *User) Session() *Session {
	return &Session{
		UserID:      u.ID,
		FirebaseUID: u.FirebaseUID,
		Username:    u.Username,
		Role:        u.Role,
	}
}

// RoleGroup is a named set of users kept for listing members by role.
// User.Role is authoritative; ACL role grants match against Session.Role.
type RoleGroup struct {
	Name      string    `json:"name" firestore:"name"`
	Members   []string  `json:"members" firestore:"members"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
