package firebase

import (
	"errors"
	"fmt"
)

// IdentityError is a rejected Identity Toolkit call, e.g. INVALID_PASSWORD.
type IdentityError struct {
	Status int
	Reason string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity toolkit: %d %s", e.Status, e.Reason)
}

// isCredentialError reports whether the provider rejected the credentials rather
// than failing.
func isCredentialError(err error) bool {
	var idErr *IdentityError
	if !errors.As(err, &idErr) {
		return false
	}
	return idErr.Status == 400
}

func hasReason(err error, reason string) bool {
	var idErr *IdentityError
	return errors.As(err, &idErr) && idErr.Reason == reason
}
