package entity

// Session is the authenticated caller of an operation. It is built per request by
// the auth middleware and passed explicitly into every use case.
type Session struct {
	UserID      string
	FirebaseUID string
	Username    string
	Role        string
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// AuthTokens is what the identity provider hands back on a password sign-in.
type AuthTokens struct {
	UID          string
	IDToken      string
	RefreshToken string
	ExpiresIn    string
}
