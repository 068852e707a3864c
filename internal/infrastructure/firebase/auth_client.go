package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/errors"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:"

// FirebaseAuthClient wraps the admin SDK. Password sign-in and reset mails are not
// part of the admin API, so those go through the Identity Toolkit REST endpoints.
type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    identityToolkitURL,
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", errors.Conflict("Email already in use")
		}
		return "", err
	}
	return user.UID, nil
}

func (f *FirebaseAuthClient) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

// VerifyToken also rejects tokens issued before the user's last logout.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	return result.UID, nil
}

// RevokeSessions invalidates every refresh token issued to uid.
func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	var out struct {
		LocalID      string `json:"localId"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    string `json:"expiresIn"`
	}
	err := f.post(ctx, "signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		if isCredentialError(err) {
			return nil, errors.Unauthorized("Invalid credentials", err)
		}
		return nil, err
	}

	return &entity.AuthTokens{
		UID:          out.LocalID,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}, nil
}

// SendPasswordReset treats unknown emails as success.
func (f *FirebaseAuthClient) SendPasswordReset(ctx context.Context, email string) error {
	err := f.post(ctx, "sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
	if hasReason(err, "EMAIL_NOT_FOUND") {
		return nil
	}
	return err
}

func (f *FirebaseAuthClient) post(ctx context.Context, method string, body interface{}, out interface{}) error {
	if f.apiKey == "" {
		return fmt.Errorf("firebase api key is not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+method+"?key="+f.apiKey, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &IdentityError{Status: resp.StatusCode, Reason: apiErr.Error.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
