package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"childguard/backend/internal/api/handler"
	"childguard/backend/internal/auth"
	"childguard/backend/internal/chat"
	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"

	stream "github.com/GetStream/stream-chat-go/v5"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []models.ReportNotice
}

func (n *recordingNotifier) NotifyReport(notice models.ReportNotice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

// fakeStream stands in for the hosted chat service.
type fakeStream struct {
	mu        sync.Mutex
	upserted  []stream.User
	upsertErr error
}

func (s *fakeStream) CreateToken(userID string, expire time.Time, issuedAt ...time.Time) (string, error) {
	return "chat-token-" + userID, nil
}

func (s *fakeStream) UpsertUser(ctx context.Context, user *stream.User) (*stream.UpsertUserResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.upserted = append(s.upserted, *user)
	return &stream.UpsertUserResponse{}, nil
}

type fixture struct {
	router   *gin.Engine
	storage  *MockStorage
	tokens   *auth.TokenManager
	notifier *recordingNotifier
	chat     *fakeStream
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := new(MockStorage)
	s.On("IsTokenRevoked", mock.Anything).Return(false, nil).Maybe()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	notifier := &recordingNotifier{}
	chatService := &fakeStream{}

	h := handler.NewHandler(s, tokens, chat.NewTokenIssuerWithClient("key", chatService), nil, notifier, nil, nil)
	r := gin.New()
	h.RegisterRoutes(r)

	return &fixture{router: r, storage: s, tokens: tokens, notifier: notifier, chat: chatService}
}

func (f *fixture) bearer(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := f.tokens.Issue(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *fixture) do(method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Backend is running!", w.Body.String())
}

func TestCreateReport_Success(t *testing.T) {
	// Arrange
	f := newFixture(t)
	submission := models.ReportSubmission{
		AbuserName:    "Unknown",
		NatureOfAbuse: "Neglect",
		Location:      "Quezon City",
		VictimName:    "Unknown",
		ReporterPhone: "09171234567",
		Evidence: []models.EvidenceFile{
			{Filename: "a.jpg", Base64: "QQ=="},
			{Filename: "b.jpg", Base64: "Qg=="},
		},
		Latitude:        14.676,
		Longitude:       121.0437,
		VictimAnonymous: true,
	}
	payload, _ := json.Marshal(submission)

	var saved *models.Report
	f.storage.On("SaveReport", mock.AnythingOfType("*models.Report")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.Report)
			saved.ID = "report-1"
		}).
		Return(nil)
	f.storage.On("PublishReportNotice", mock.AnythingOfType("models.ReportNotice")).Return(errors.New("redis down"))

	// Act
	w := f.do(http.MethodPost, "/api/reports", string(payload), "")

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Report submitted successfully", decode(t, w)["message"])
	require.NotNil(t, saved)
	assert.Equal(t, "Neglect", saved.NatureOfAbuse)
	require.Len(t, saved.Evidence, 2)
	assert.Equal(t, "a.jpg", saved.Evidence[0].Filename)
	assert.True(t, saved.VictimAnonymous)
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, "report-1", f.notifier.notices[0].ID)
	assert.Equal(t, 2, f.notifier.notices[0].EvidenceCount)
}

func TestCreateReport_AcceptsEmptyFields(t *testing.T) {
	f := newFixture(t)
	f.storage.On("SaveReport", mock.Anything).Return(nil)
	f.storage.On("PublishReportNotice", mock.Anything).Return(nil)

	w := f.do(http.MethodPost, "/api/reports", `{}`, "")

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateReport_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		saveErr   error
		wantCode  int
		wantError string
	}{
		{"malformed json", `{"natureOfAbuse":`, nil, http.StatusBadRequest, "Invalid input"},
		{"wrong type", `{"latitude":"north"}`, nil, http.StatusBadRequest, "Invalid input"},
		{"storage failure", `{"natureOfAbuse":"Neglect"}`, errors.New("connection refused"), http.StatusInternalServerError, "Failed to submit report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.storage.On("SaveReport", mock.Anything).Return(tt.saveErr)

			w := f.do(http.MethodPost, "/api/reports", tt.body, "")

			assert.Equal(t, tt.wantCode, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotEmpty(t, body["details"])
			assert.Empty(t, f.notifier.notices)
		})
	}
}

func TestSignup(t *testing.T) {
	existing := &models.User{ID: "u0", Email: "taken@example.com"}

	tests := []struct {
		name      string
		body      string
		setup     func(*MockStorage)
		wantCode  int
		wantField string
		wantValue string
	}{
		{
			name:      "missing password",
			body:      `{"email":"a@example.com"}`,
			setup:     func(*MockStorage) {},
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "Missing email or password",
		},
		{
			name: "duplicate email",
			body: `{"email":"taken@example.com","password":"pw"}`,
			setup: func(s *MockStorage) {
				s.On("GetUserByEmail", "taken@example.com").Return(existing, nil)
			},
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "User already exists",
		},
		{
			name: "duplicate phone",
			body: `{"email":"new@example.com","password":"pw","phone":"0917"}`,
			setup: func(s *MockStorage) {
				s.On("GetUserByEmail", "new@example.com").Return(nil, storage.ErrNotFound)
				s.On("GetUserByPhone", "0917").Return(existing, nil)
			},
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "User already exists",
		},
		{
			name: "success",
			body: `{"name":"Ana","email":"new@example.com","password":"pw","phone":"0917"}`,
			setup: func(s *MockStorage) {
				s.On("GetUserByEmail", "new@example.com").Return(nil, storage.ErrNotFound)
				s.On("GetUserByPhone", "0917").Return(nil, storage.ErrNotFound)
				s.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
					return u.Email == "new@example.com" && u.PasswordHash != "pw" && auth.CheckPassword(u.PasswordHash, "pw")
				})).Return(nil)
			},
			wantCode:  http.StatusCreated,
			wantField: "message",
			wantValue: "Signup successful",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f.storage)

			w := f.do(http.MethodPost, "/signup", tt.body, "")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantValue, decode(t, w)[tt.wantField])
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct")
	require.NoError(t, err)
	user := &models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Phone: "0917", PasswordHash: hash, Role: models.RoleUser}

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.storage.On("GetUserByEmail", "nobody@example.com").Return(nil, storage.ErrNotFound)

		w := f.do(http.MethodPost, "/login", `{"email":"nobody@example.com","password":"x"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w)["error"])
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.storage.On("GetUserByEmail", "ana@example.com").Return(user, nil)

		w := f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.storage.On("GetUserByEmail", "ana@example.com").Return(user, nil)

		w := f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"correct"}`, "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "u1", resp.UserID)
		assert.Equal(t, "0917", resp.Phone)
		assert.Equal(t, "chat-token-u1", resp.ChatToken)
		assert.Equal(t, []stream.User{{ID: "u1", Name: "Ana"}}, f.chat.upserted)
		claims, err := f.tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
	})

	t.Run("chat upsert failure", func(t *testing.T) {
		f := newFixture(t)
		f.chat.upsertErr = errors.New("stream unavailable")
		f.storage.On("GetUserByEmail", "ana@example.com").Return(user, nil)

		w := f.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"correct"}`, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "chatToken")
	})
}

func TestGetUser(t *testing.T) {
	caller := &models.User{ID: "u1", Role: models.RoleUser}

	t.Run("requires token", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodGet, "/api/users/u1", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.storage.On("GetUserByID", "missing").Return(nil, storage.ErrNotFound)

		w := f.do(http.MethodGet, "/api/users/missing", "", f.bearer(t, caller))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("profile without password", func(t *testing.T) {
		f := newFixture(t)
		f.storage.On("GetUserByID", "u1").Return(&models.User{ID: "u1", Phone: "0917", PasswordHash: "secret-hash"}, nil)

		w := f.do(http.MethodGet, "/api/users/u1", "", f.bearer(t, caller))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret-hash")
		assert.Equal(t, "0917", decode(t, w)["phone"])
	})
}

func TestUpdateAvatar(t *testing.T) {
	f := newFixture(t)
	f.storage.On("UpdateUserAvatar", "u1", "aGVsbG8=").Return(nil)
	owner := f.bearer(t, &models.User{ID: "u1", Role: models.RoleUser})
	other := f.bearer(t, &models.User{ID: "u2", Role: models.RoleUser})

	w := f.do(http.MethodPost, "/api/users/u1/avatar", `{"avatar":"aGVsbG8="}`, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/api/users/u1/avatar", `{"avatar":"aGVsbG8="}`, owner)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Avatar updated", decode(t, w)["message"])
}

func TestSignout_RevokesToken(t *testing.T) {
	f := newFixture(t)
	token, claims, err := f.tokens.Issue(&models.User{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)
	f.storage.On("RevokeToken", claims.ID, mock.AnythingOfType("time.Duration")).Return(nil)

	w := f.do(http.MethodPost, "/signout", "", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	f.storage.AssertCalled(t, "RevokeToken", claims.ID, mock.AnythingOfType("time.Duration"))
}

func TestChatToken_OnlyForCaller(t *testing.T) {
	f := newFixture(t)
	bearer := f.bearer(t, &models.User{ID: "u1", Role: models.RoleUser})

	w := f.do(http.MethodPost, "/chat/token", `{"userId":"u2"}`, bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/chat/token", `{}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chat-token-u1", decode(t, w)["token"])
}

func TestListReports_AdminOnly(t *testing.T) {
	f := newFixture(t)
	f.storage.On("ListReports", 50, 10).Return([]models.Report{{ID: "r1"}}, nil)
	user := f.bearer(t, &models.User{ID: "u1", Role: models.RoleUser})
	admin := f.bearer(t, &models.User{ID: "a1", Role: models.RoleAdmin})

	w := f.do(http.MethodGet, "/api/reports", "", user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/reports?limit=5000&offset=10", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 50, body["limit"])
	assert.Len(t, body["reports"], 1)
}

func TestListArticles(t *testing.T) {
	f := newFixture(t)
	f.storage.On("ListArticles").Return([]models.Article{{ID: "a1", Title: "Spotting neglect"}}, nil)

	w := f.do(http.MethodGet, "/api/articles", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Spotting neglect")
}

func TestListResources_Search(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/resources?q=trafficking", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "RA 9208", got[0]["title"])
}

func TestListLaws_Unmapped(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/laws?category=Other", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No specific laws found")
}

func TestLocate(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/locate", `{"lat":14.5995,"lon":120.9842}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Manila, Metro Manila", decode(t, w)["label"])

	w = f.do(http.MethodPost, "/api/locate", `{"lat":123,"lon":0}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAreaLabel(t *testing.T) {
	assert.Equal(t, "Lat 0.00000, Lng 0.00000", handler.AreaLabel(0, 0))
	assert.True(t, strings.HasPrefix(handler.AreaLabel(10.40, 123.90), "Near Cebu City, Cebu"))
}

func TestLimitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.LimitBody(8))
	r.POST("/", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"a":"0123456789"}`)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
