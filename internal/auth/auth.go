// Package auth turns sign-in assertions into user records. The ID-token
// payload is trusted as-is, mirroring the reference client: no signature
// verification is performed.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultAvatarURL is used for locally created accounts.
const DefaultAvatarURL = "/VerdictX5.png"

// User is the signed-in account record.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	PictureURL string `json:"picture"`
}

// credentialClaims are the fields we read out of an ID-token payload.
type credentialClaims struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// DecodeCredential decodes an OAuth ID token into a user record.
func DecodeCredential(token string) (*User, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, errors.New("credential is not a three-segment token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, errors.Wrap(err, "decoding payload segment")
	}
	claims := &credentialClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, errors.Wrap(err, "unmarshaling claims")
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("credential is missing subject or email")
	}
	picture := claims.Picture
	if picture == "" {
		picture = DefaultAvatarURL
	}
	return &User{
		ID:         claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		PictureURL: picture,
	}, nil
}

// LocalUser creates an account for the local signup path.
func LocalUser(name, email string) (*User, error) {
	if name == "" || email == "" {
		return nil, errors.New("name and email are required")
	}
	return &User{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      email,
		PictureURL: DefaultAvatarURL,
	}, nil
}
