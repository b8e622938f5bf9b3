package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripmarket/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, name, email, passwordHash, role, agentStatus string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, agentStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) ListAgents(ctx context.Context, status string, limit, offset int) ([]User, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]User), args.Int(1), args.Error(2)
}

func (m *MockRepo) ApproveAgent(ctx context.Context, agentID int, walletCurrency string) (*User, error) {
	args := m.Called(ctx, agentID, walletCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

const testSecret = "test-secret"

func setupRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(repo, testSecret, "INR")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/agents/:agentID/approve", h.ApproveAgent)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_AgentStartsPending(t *testing.T) {
	repo := new(MockRepo)
	repo.On("EmailExists", mock.Anything, "asha@example.com").Return(false, nil).Once()
	repo.On("Create", mock.Anything, "Asha", "asha@example.com", mock.Anything, auth.RoleAgent, AgentStatusPending).
		Return(&User{ID: 5, Email: "asha@example.com", Role: auth.RoleAgent, AgentStatus: AgentStatusPending}, nil).Once()

	w := postJSON(setupRouter(repo), "/auth/register", RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "supersecret", Role: auth.RoleAgent,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.Equal(t, AgentStatusPending, resp.Data.User.AgentStatus)
	repo.AssertExpectations(t)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	repo := new(MockRepo)

	w := postJSON(setupRouter(repo), "/auth/register", RegisterRequest{
		Name: "Eve", Email: "eve@example.com", Password: "supersecret", Role: auth.RoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(MockRepo)
	repo.On("EmailExists", mock.Anything, "asha@example.com").Return(true, nil).Once()

	w := postJSON(setupRouter(repo), "/auth/register", RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("rightpassword")
	require.NoError(t, err)

	repo := new(MockRepo)
	repo.On("FindByEmail", mock.Anything, "asha@example.com").
		Return(&User{ID: 5, Email: "asha@example.com", PasswordHash: hash}, nil).Once()

	w := postJSON(setupRouter(repo), "/auth/login", LoginRequest{
		Email: "asha@example.com", Password: "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.HashPassword("rightpassword")
	require.NoError(t, err)

	repo := new(MockRepo)
	repo.On("FindByEmail", mock.Anything, "asha@example.com").
		Return(&User{ID: 5, Email: "asha@example.com", PasswordHash: hash, Role: auth.RoleAgent}, nil).Once()

	w := postJSON(setupRouter(repo), "/auth/login", LoginRequest{
		Email: "asha@example.com", Password: "rightpassword",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	claims, err := auth.ValidateToken(resp.Data.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
	assert.Equal(t, auth.RoleAgent, claims.Role)
}

func TestApproveAgent_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{name: "missing", repoErr: ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "not an agent", repoErr: ErrNotAnAgent, wantStatus: http.StatusBadRequest},
		{name: "already approved", repoErr: ErrNotPending, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			repo.On("ApproveAgent", mock.Anything, 5, "INR").
				Return(nil, tt.repoErr).Once()

			w := postJSON(setupRouter(repo), "/agents/5/approve", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestApproveAgent_Success(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ApproveAgent", mock.Anything, 5, "INR").
		Return(&User{ID: 5, Role: auth.RoleAgent, AgentStatus: AgentStatusApproved}, nil).Once()

	w := postJSON(setupRouter(repo), "/agents/5/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, AgentStatusApproved, resp.Data.AgentStatus)
	repo.AssertExpectations(t)
}
