package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/internal/user/usecase/command"
	"github.com/tair/mini-erp/internal/user/usecase/query"
	"github.com/tair/mini-erp/internal/validation"
	"github.com/tair/mini-erp/pkg/logger"
	"github.com/tair/mini-erp/pkg/middleware"
	"github.com/tair/mini-erp/pkg/response"
)

// UserHandler handles HTTP requests for authentication and accounts
type UserHandler struct {
	// Command handlers
	registerHandler     *command.RegisterUserHandler
	loginHandler        *command.LoginUserHandler
	changeRoleHandler   *command.ChangeRoleHandler
	toggleActiveHandler *command.ToggleActiveHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler

	metrics *middleware.HTTPMetrics
	limiter *middleware.RateLimiter
}

// NewUserHandler creates a new user handler. limiter guards login and
// registration and may be nil.
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	changeRoleHandler *command.ChangeRoleHandler,
	toggleActiveHandler *command.ToggleActiveHandler,
	getUserHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	metrics *middleware.HTTPMetrics,
	limiter *middleware.RateLimiter,
) *UserHandler {
	return &UserHandler{
		registerHandler:     registerHandler,
		loginHandler:        loginHandler,
		changeRoleHandler:   changeRoleHandler,
		toggleActiveHandler: toggleActiveHandler,
		getUserHandler:      getUserHandler,
		listHandler:         listHandler,
		metrics:             metrics,
		limiter:             limiter,
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router, authn *Authenticator) {
	admin := authn.RequireModule(domain.ModuleAdmin)

	// Public routes
	router.HandleFunc("/api/auth/login", h.metrics.Instrument("/api/auth/login", h.limiter.Limit(h.Login))).Methods("POST")
	router.HandleFunc("/api/auth/register", h.metrics.Instrument("/api/auth/register", h.limiter.Limit(authn.OptionalAuthenticate(h.Register)))).Methods("POST")

	// Authenticated routes
	router.HandleFunc("/api/auth/me", h.metrics.Instrument("/api/auth/me", authn.Authenticate(h.GetProfile))).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/users", h.metrics.Instrument("/api/users", admin(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}/role", h.metrics.Instrument("/api/users/{id}/role", admin(h.ChangeRole))).Methods("PUT")
	router.HandleFunc("/api/users/{id:[0-9]+}/active", h.metrics.Instrument("/api/users/{id}/active", admin(h.ToggleActive))).Methods("PUT")
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,data=object{token=string,expiresIn=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 429 {object} object{success=bool,error=string}
// @Router /api/auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, "user.login", err)
		return
	}

	logger.Info(r.Context()).
		Uint("user_id", result.User.ID).
		Str("username", result.User.Username).
		Msg("User logged in")
	response.OK(w, http.StatusOK, "Login successful", result)
}

// Register godoc
// @Summary Register a user
// @Description Creating an Administrator requires an Administrator token, except for the first account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,role=string} true "Account"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=[]string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		CallerRole: RoleFromContext(r.Context()),
	})
	if err != nil {
		h.writeError(w, r, "user.register", err)
		return
	}
	response.OK(w, http.StatusCreated, "User registered successfully", user)
}

// GetProfile godoc
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/auth/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.getUserHandler.Handle(r.Context(), UserIDFromContext(r.Context()))
	if errors.Is(err, domain.ErrUserNotFound) {
		response.Error(w, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if err != nil {
		h.writeError(w, r, "user.me", err)
		return
	}
	response.OK(w, http.StatusOK, "", user)
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=[]object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.listHandler.Handle(r.Context(), query.ListUsersQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.writeError(w, r, "user.list", err)
		return
	}
	response.OK(w, http.StatusOK, "", users)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "Role"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/users/{id}/role [put]
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.changeRoleHandler.Handle(r.Context(), command.ChangeRoleCommand{
		UserID:   id,
		Role:     req.Role,
		CallerID: UserIDFromContext(r.Context()),
	})
	if err != nil {
		h.writeError(w, r, "user.change_role", err)
		return
	}
	response.OK(w, http.StatusOK, "User role updated", user)
}

// ToggleActive godoc
// @Summary Activate or deactivate a user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{isActive=bool} true "Status"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/users/{id}/active [put]
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		response.Error(w, http.StatusBadRequest, "isActive is required")
		return
	}

	user, err := h.toggleActiveHandler.Handle(r.Context(), command.ToggleActiveCommand{
		UserID:   id,
		IsActive: *req.IsActive,
		CallerID: UserIDFromContext(r.Context()),
	})
	if err != nil {
		h.writeError(w, r, "user.toggle_active", err)
		return
	}
	response.OK(w, http.StatusOK, "User status updated", user)
}

func (h *UserHandler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	ctx := r.Context()

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		logger.ValidationError(ctx, operation, verr.Errors)
		response.ValidationFailed(w, verr.Errors)
	case errors.Is(err, domain.ErrInvalidCredentials):
		logger.Warn(ctx).Str("operation", operation).Msg("Failed login attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrAccountDisabled):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusForbidden, "Account is deactivated")
	case errors.Is(err, domain.ErrUsernameExists), errors.Is(err, domain.ErrEmailExists):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "Username or email already exists")
	case errors.Is(err, domain.ErrRoleNotPermitted):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusForbidden, "Only administrators can create administrator accounts")
	case errors.Is(err, domain.ErrSelfModification):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "You cannot change your own role or status")
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(w, http.StatusNotFound, "User not found")
	default:
		logger.SystemError(ctx, operation, err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	return uint(id), true
}
