// Package chat covers both ends of the hosted chat integration: the backend
// registers users with the hosted messaging service and mints their tokens,
// and the client bootstraps one connected session from stored credentials.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
)

// ErrNoUserID is returned when a token is requested for an empty user.
var ErrNoUserID = errors.New("chat: user id is required")

// StreamAPI is the part of *stream.Client the issuer uses.
type StreamAPI interface {
	CreateToken(userID string, expire time.Time, issuedAt ...time.Time) (string, error)
	UpsertUser(ctx context.Context, user *stream.User) (*stream.UpsertUserResponse, error)
}

// TokenIssuer registers users with Stream and creates the user tokens the
// chat SDK connects with.
type TokenIssuer struct {
	apiKey string
	client StreamAPI
}

// NewTokenIssuer builds an issuer over a Stream server client. No request is
// made until a user is upserted.
func NewTokenIssuer(apiKey, apiSecret string) (*TokenIssuer, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("stream client: %w", err)
	}
	return NewTokenIssuerWithClient(apiKey, client), nil
}

func NewTokenIssuerWithClient(apiKey string, client StreamAPI) *TokenIssuer {
	return &TokenIssuer{apiKey: apiKey, client: client}
}

// APIKey is the public key the client passes to the chat SDK.
func (i *TokenIssuer) APIKey() string { return i.apiKey }

// UpsertUser creates or updates the chat user for an account.
func (i *TokenIssuer) UpsertUser(ctx context.Context, userID, name string) error {
	if userID == "" {
		return ErrNoUserID
	}
	if _, err := i.client.UpsertUser(ctx, &stream.User{ID: userID, Name: name}); err != nil {
		return fmt.Errorf("upsert chat user %s: %w", userID, err)
	}
	return nil
}

// UserToken creates a non-expiring token for userID.
func (i *TokenIssuer) UserToken(userID string) (string, error) {
	if userID == "" {
		return "", ErrNoUserID
	}
	return i.client.CreateToken(userID, time.Time{})
}
