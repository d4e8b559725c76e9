// services/identity.go
package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// IdentityProvider is the external identity collaborator: it owns identity
// records, role claims and custom token minting. Controllers depend on this
// interface so the Firebase client can be swapped out in tests.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password, displayName string) (string, error)
	SetRoleClaim(ctx context.Context, uid, role string) error
	UpdateIdentity(ctx context.Context, uid string, displayName, photoURL *string) error
	DeleteIdentity(ctx context.Context, uid string) error
	CustomToken(ctx context.Context, uid string, claims map[string]interface{}) (string, error)
}

// FirebaseIdentity implements IdentityProvider on the Firebase Admin SDK
type FirebaseIdentity struct {
	client *auth.Client
}

// NewFirebaseIdentity creates the identity service from an initialized app
func NewFirebaseIdentity(app *firebase.App) (*FirebaseIdentity, error) {
	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}
	return &FirebaseIdentity{client: client}, nil
}

// CreateIdentity creates the identity record and returns its uid
func (f *FirebaseIdentity) CreateIdentity(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	u, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create identity: %w", err)
	}
	return u.UID, nil
}

// SetRoleClaim sets the role custom claim on an identity
func (f *FirebaseIdentity) SetRoleClaim(ctx context.Context, uid, role string) error {
	return f.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role})
}

// UpdateIdentity propagates display-name and photo changes to the identity record
func (f *FirebaseIdentity) UpdateIdentity(ctx context.Context, uid string, displayName, photoURL *string) error {
	params := &auth.UserToUpdate{}
	changed := false
	if displayName != nil {
		params = params.DisplayName(*displayName)
		changed = true
	}
	if photoURL != nil {
		params = params.PhotoURL(*photoURL)
		changed = true
	}
	if !changed {
		return nil
	}

	_, err := f.client.UpdateUser(ctx, uid, params)
	return err
}

// DeleteIdentity removes the identity record
func (f *FirebaseIdentity) DeleteIdentity(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

// CustomToken mints a custom auth token for the given identity
func (f *FirebaseIdentity) CustomToken(ctx context.Context, uid string, claims map[string]interface{}) (string, error) {
	if len(claims) == 0 {
		return f.client.CustomToken(ctx, uid)
	}
	return f.client.CustomTokenWithClaims(ctx, uid, claims)
}
