package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"childguard/backend/internal/chat"

	stream "github.com/GetStream/stream-chat-go/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConnector struct {
	mock.Mock
	connected string
}

func (m *MockConnector) ConnectedUserID() string { return m.connected }

func (m *MockConnector) ConnectUser(ctx context.Context, user chat.User, token string) error {
	args := m.Called(user, token)
	if args.Error(0) == nil {
		m.connected = user.ID
	}
	return args.Error(0)
}

func (m *MockConnector) DisconnectUser(ctx context.Context) error {
	args := m.Called()
	m.connected = ""
	return args.Error(0)
}

func storedCreds(c chat.Credentials, err error) chat.CredentialStore {
	return chat.CredentialsFunc(func(context.Context) (chat.Credentials, error) { return c, err })
}

type MockStream struct {
	mock.Mock
}

func (m *MockStream) CreateToken(userID string, expire time.Time, issuedAt ...time.Time) (string, error) {
	args := m.Called(userID, expire)
	return args.String(0), args.Error(1)
}

func (m *MockStream) UpsertUser(ctx context.Context, user *stream.User) (*stream.UpsertUserResponse, error) {
	args := m.Called(user)
	if resp, ok := args.Get(0).(*stream.UpsertUserResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestTokenIssuer_UserToken(t *testing.T) {
	issuer, err := chat.NewTokenIssuer("key", "secret")
	require.NoError(t, err)

	signed, err := issuer.UserToken("user-1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.NotContains(t, claims, "exp")
	assert.Equal(t, "key", issuer.APIKey())

	_, err = issuer.UserToken("")
	assert.ErrorIs(t, err, chat.ErrNoUserID)
}

func TestNewTokenIssuer_RequiresCredentials(t *testing.T) {
	_, err := chat.NewTokenIssuer("", "")
	assert.Error(t, err)
}

func TestTokenIssuer_UpsertUser(t *testing.T) {
	t.Run("sends id and name", func(t *testing.T) {
		// Arrange
		client := new(MockStream)
		client.On("UpsertUser", &stream.User{ID: "user-1", Name: "Ana"}).Return(&stream.UpsertUserResponse{}, nil).Once()
		issuer := chat.NewTokenIssuerWithClient("key", client)

		// Act
		err := issuer.UpsertUser(context.Background(), "user-1", "Ana")

		// Assert
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("wraps service errors", func(t *testing.T) {
		client := new(MockStream)
		boom := errors.New("503")
		client.On("UpsertUser", mock.Anything).Return(nil, boom).Once()
		issuer := chat.NewTokenIssuerWithClient("key", client)

		err := issuer.UpsertUser(context.Background(), "user-1", "Ana")

		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty id", func(t *testing.T) {
		client := new(MockStream)
		issuer := chat.NewTokenIssuerWithClient("key", client)

		err := issuer.UpsertUser(context.Background(), "", "Ana")

		assert.ErrorIs(t, err, chat.ErrNoUserID)
		client.AssertNotCalled(t, "UpsertUser", mock.Anything)
	})
}

func TestSession_DisconnectsPreviousUserBeforeConnecting(t *testing.T) {
	// Arrange
	connector := &MockConnector{connected: "old-user"}
	connector.On("DisconnectUser").Return(nil).Once()
	connector.On("ConnectUser", chat.User{ID: "u1", Name: "Ana"}, "tok").Return(nil).Once()
	session := chat.NewSession(storedCreds(chat.Credentials{UserID: "u1", Name: "Ana", Token: "tok"}, nil), connector, nil)

	// Act
	err := session.Bootstrap(context.Background())

	// Assert
	require.NoError(t, err)
	connector.AssertExpectations(t)
	assert.Equal(t, "u1", connector.ConnectedUserID())
	select {
	case <-session.Ready():
	default:
		t.Fatal("session should be ready")
	}
}

func TestSession_NameFallsBackToUserID(t *testing.T) {
	connector := &MockConnector{}
	connector.On("ConnectUser", chat.User{ID: "u1", Name: "u1"}, "tok").Return(nil)
	session := chat.NewSession(storedCreds(chat.Credentials{UserID: "u1", Token: "tok"}, nil), connector, nil)

	require.NoError(t, session.Bootstrap(context.Background()))
	connector.AssertNotCalled(t, "DisconnectUser")
}

func TestSession_FailureStillBecomesReady(t *testing.T) {
	tests := []struct {
		name    string
		store   chat.CredentialStore
		connect error
		wantErr error
	}{
		{"missing token", storedCreds(chat.Credentials{UserID: "u1"}, nil), nil, chat.ErrMissingCredentials},
		{"store error", storedCreds(chat.Credentials{}, errors.New("disk")), nil, nil},
		{"connect error", storedCreds(chat.Credentials{UserID: "u1", Token: "t"}, nil), errors.New("offline"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector := &MockConnector{}
			connector.On("ConnectUser", mock.Anything, mock.Anything).Return(tt.connect)
			session := chat.NewSession(tt.store, connector, nil)

			err := session.Bootstrap(context.Background())

			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, err, session.Err())
			select {
			case <-session.Ready():
			default:
				t.Fatal("session must be ready after a failed attempt")
			}
		})
	}
}

func TestSession_CloseDisconnects(t *testing.T) {
	connector := &MockConnector{}
	connector.On("ConnectUser", mock.Anything, "tok").Return(nil)
	connector.On("DisconnectUser").Return(nil).Once()
	session := chat.NewSession(storedCreds(chat.Credentials{UserID: "u1", Token: "tok"}, nil), connector, nil)
	require.NoError(t, session.Bootstrap(context.Background()))

	require.NoError(t, session.Close(context.Background()))
	require.NoError(t, session.Close(context.Background()), "second close is a no-op")

	connector.AssertNumberOfCalls(t, "DisconnectUser", 1)
}
