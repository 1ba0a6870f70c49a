package service

import (
	"errors"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleVerifier checks a Google ID token and returns its identity.
type GoogleVerifier interface {
	Verify(idToken string) (GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(idToken string) (GoogleIdentity, error) {
	if g.clientID == "" {
		return GoogleIdentity{}, errors.New("google client id not configured")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return GoogleIdentity{}, err
	}
	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return GoogleIdentity{}, err
	}
	return GoogleIdentity{Sub: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}
