package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/request"
	"github.com/awarehq/aware-api/internal/services/auth"
	"github.com/awarehq/aware-api/internal/services/session"
)

// AuthHandler handles registration, login and session management
type AuthHandler struct {
	auth          *auth.Service
	sessions      *session.Manager
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, sessions *session.Manager, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, secureCookies: secureCookies, logger: logger}
}

// RegisterPublicRoutes registers the unauthenticated auth routes.
// The router should already have the /api/v1/auth prefix.
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
}

// RegisterProtectedRoutes registers the auth routes that require a session.
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.GetMe).Methods("GET")
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account and starts a session for it
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakCredentials):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, auth.ErrUsernameTaken):
			respondJSONError(w, http.StatusConflict, "Conflict", "Username is already taken")
		default:
			h.logger.Error("registration failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		}
		return
	}

	if !h.startSession(w, user.ID) {
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to log in")
		return
	}

	if !h.startSession(w, user.ID) {
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie. Idempotent; succeeds without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID int64) bool {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to start session")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
