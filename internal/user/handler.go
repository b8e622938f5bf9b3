package user

import (
	"errors"
	"net/http"
	"strconv"

	"tripmarket/internal/api"
	"tripmarket/internal/auth"
	"tripmarket/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo               Repository
	jwtSecret          string
	settlementCurrency string
}

func NewHandler(repo Repository, jwtSecret, settlementCurrency string) *Handler {
	return &Handler{repo: repo, jwtSecret: jwtSecret, settlementCurrency: settlementCurrency}
}

// Register godoc
// @Summary      Register new user
// @Description  Creates a customer or agent account. Agents start pending and cannot claim until approved.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = auth.RoleCustomer
	}
	if role != auth.RoleCustomer && role != auth.RoleAgent {
		api.Error(c, http.StatusBadRequest, "role must be customer or agent")
		return
	}

	agentStatus := AgentStatusNone
	if role == auth.RoleAgent {
		agentStatus = AgentStatusPending
	}

	exists, err := h.repo.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		api.Error(c, http.StatusConflict, "Email already registered")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	u, err := h.repo.Create(c.Request.Context(), req.Name, req.Email, passwordHash, role, agentStatus)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			api.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Email, u.Role, h.jwtSecret, h.jwtSecret)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	api.Created(c, LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: *u})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  api.Response
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		api.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Email, u.Role, h.jwtSecret, h.jwtSecret)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	api.OK(c, LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: *u})
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      map[string]string  true  "Refresh token payload"
// @Success      200      {object}  api.Response
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		api.Error(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	_, claims, err := auth.RefreshAccessToken(req.RefreshToken, h.jwtSecret, h.jwtSecret)
	if err != nil {
		api.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	u, err := h.repo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		api.Error(c, http.StatusNotFound, "User not found")
		return
	}

	accessToken, err := auth.GenerateAccessToken(u.ID, u.Email, u.Role, h.jwtSecret)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to generate access token")
		return
	}

	api.OK(c, gin.H{"accessToken": accessToken, "user": u})
}

// GetMe godoc
// @Summary      Current user profile
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Response
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := h.repo.FindByID(c.Request.Context(), userID)
	if err != nil {
		api.Error(c, http.StatusNotFound, "User not found")
		return
	}

	api.OK(c, u)
}

// ListAgents godoc
// @Summary      List agents
// @Tags         agents
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by agent status"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  api.Response
// @Router       /admin/agents [get]
func (h *Handler) ListAgents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	agents, total, err := h.repo.ListAgents(c.Request.Context(), c.Query("status"), limit, (page-1)*limit)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to fetch agents")
		return
	}

	api.Paginated(c, agents, api.NewPagination(page, limit, total))
}

// ApproveAgent godoc
// @Summary      Approve agent
// @Description  Marks a pending agent approved and provisions their wallet as one unit.
// @Tags         agents
// @Security     BearerAuth
// @Produce      json
// @Param        agentID  path      int  true  "Agent ID"
// @Success      200      {object}  api.Response
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/agents/{agentID}/approve [post]
func (h *Handler) ApproveAgent(c *gin.Context) {
	agentID, err := strconv.Atoi(c.Param("agentID"))
	if err != nil || agentID <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid agent ID")
		return
	}

	u, err := h.repo.ApproveAgent(c.Request.Context(), agentID, h.settlementCurrency)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			api.Error(c, http.StatusNotFound, "Agent not found")
		case errors.Is(err, ErrNotAnAgent):
			api.Error(c, http.StatusBadRequest, "User is not an agent")
		case errors.Is(err, ErrNotPending):
			api.Error(c, http.StatusConflict, "Agent is not pending approval")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to approve agent")
		}
		return
	}

	logger.Info("agent approved", "agent_id", u.ID)
	api.OKMessage(c, u, "Agent approved")
}
