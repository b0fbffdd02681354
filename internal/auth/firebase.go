// Package auth verifies caller identity. Two token types are accepted:
// Firebase ID tokens on first contact, and locally signed session JWTs
// afterwards.
package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// TokenData is the identity extracted from a verified Firebase ID token.
type TokenData struct {
	UID            string
	Email          string
	DisplayName    string
	ProfilePicture string
}

// Verifier validates Firebase ID tokens. The interface exists so handlers
// and middleware can be tested without a Firebase project.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*TokenData, error)
}

// FirebaseVerifier verifies tokens against a real Firebase project.
type FirebaseVerifier struct {
	client *fbauth.Client
}

var _ Verifier = (*FirebaseVerifier)(nil)

// NewFirebaseVerifier initializes the Firebase app. credentialsFile may be
// empty, in which case application default credentials apply.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	config := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify validates the ID token and extracts the standard identity claims.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*TokenData, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	data := &TokenData{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		data.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		data.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		data.ProfilePicture = picture
	}
	return data, nil
}
