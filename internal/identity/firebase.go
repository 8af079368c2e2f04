package identity

import (
	"context"
	"fmt"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"

	"firebase.google.com/go/v4/auth"
)

type Verifier interface {
	// Verify resolves a client credential to the identity it belongs to.
	Verify(ctx context.Context, credential string) (string, error)
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase Auth ID tokens.
type FirebaseVerifier struct {
	client tokenVerifier
}

var _ Verifier = FirebaseVerifier{}

func NewFirebaseVerifier(client *auth.Client) FirebaseVerifier {
	return FirebaseVerifier{client: client}
}

func (v FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", ierr.Invalid("idToken", "must not be empty")
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	return token.UID, nil
}

// TrustedVerifier takes the credential as the identity itself. It is only
// wired when the service runs against the in-memory store.
type TrustedVerifier struct{}

var _ Verifier = TrustedVerifier{}

func (TrustedVerifier) Verify(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ierr.Invalid("userId", "must not be empty")
	}
	return userID, nil
}
