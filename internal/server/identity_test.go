package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func TestUserRequired(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "alice"}, nil)
	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, models.NewNotFoundError("User", 2))

	cfg := testConfig()
	auth := service.NewAuthService(mockRepo, cfg.JWTSecret)
	s := &Server{config: cfg, userRepo: mockRepo, authService: auth}

	app := fiber.New()
	app.Get("/me", s.UserRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": currentUserID(c)})
	})

	token, err := auth.IssueToken(1)
	assert.NoError(t, err)
	foreignToken, err := service.NewAuthService(mockRepo, "some-other-secret-of-32-characters!").IssueToken(1)
	assert.NoError(t, err)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
		expectedError  string
	}{
		{"missing identity", nil, http.StatusUnauthorized, "User not authenticated"},
		{"unparsable header", map[string]string{UserIDHeader: "abc"}, http.StatusUnauthorized, "Invalid user ID"},
		{"unknown user", map[string]string{UserIDHeader: "2"}, http.StatusNotFound, "User not found"},
		{"header identity", map[string]string{UserIDHeader: "1"}, http.StatusOK, ""},
		{"bearer token", map[string]string{"Authorization": "Bearer " + token}, http.StatusOK, ""},
		{"forged token", map[string]string{"Authorization": "Bearer " + foreignToken}, http.StatusUnauthorized, "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedError != "" {
				var body map[string]any
				assert.NoError(t, decodeBody(resp, &body))
				assert.Equal(t, tt.expectedError, body["error"])
			}
		})
	}
}

func TestUserRequired_HeaderIdentityDisabled(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cfg := testConfig()
	cfg.AllowUserIDHeader = false
	s := &Server{config: cfg, userRepo: mockRepo, authService: service.NewAuthService(mockRepo, cfg.JWTSecret)}

	app := fiber.New()
	app.Get("/me", s.UserRequired(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(UserIDHeader, "1")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
