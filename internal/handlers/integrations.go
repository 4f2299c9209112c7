package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/request"
	"github.com/awarehq/aware-api/internal/services/platforms"
)

// stateCookieName holds the OAuth state between connect and callback.
const stateCookieName = "aware_oauth_state"

// stateTTL bounds how long a pending OAuth flow stays valid.
const stateTTL = 10 * time.Minute

// IntegrationsHandler handles platform integration requests
type IntegrationsHandler struct {
	registry      *platforms.Registry
	frontendURL   string
	secureCookies bool
	logger        *zap.Logger
}

// NewIntegrationsHandler creates a new integrations handler
func NewIntegrationsHandler(registry *platforms.Registry, frontendURL string, secureCookies bool, logger *zap.Logger) *IntegrationsHandler {
	return &IntegrationsHandler{registry: registry, frontendURL: frontendURL, secureCookies: secureCookies, logger: logger}
}

// RegisterRoutes registers integration routes on the given router.
// The router should already have the /integrations prefix.
func (h *IntegrationsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListIntegrations).Methods("GET")
	r.HandleFunc("/{provider}/connect", h.Connect).Methods("GET")
	r.HandleFunc("/{provider}/callback", h.Callback).Methods("GET")
}

// ListIntegrations lists the configured providers and whether the user has
// connected each one
func (h *IntegrationsHandler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, h.registry.List(user.ID))
}

// Connect starts the OAuth flow for a provider with a 302 to its consent
// page. The state nonce rides in a short-lived cookie.
func (h *IntegrationsHandler) Connect(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	provider := mux.Vars(r)["provider"]
	state := uuid.NewString()

	authURL, err := h.registry.AuthURL(provider, state)
	if err != nil {
		if errors.Is(err, platforms.ErrUnknownProvider) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Unknown integration provider")
			return
		}
		h.logger.Error("failed to build auth url", zap.Error(err), zap.String("provider", provider))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to start integration flow")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/v1/integrations",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback finishes the OAuth flow: verifies the state nonce, exchanges the
// code and sends the user back to the dashboard.
func (h *IntegrationsHandler) Callback(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	provider := mux.Vars(r)["provider"]
	query := r.URL.Query()

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "OAuth state mismatch")
		return
	}

	// The flow is done with the nonce either way.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/api/v1/integrations",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	code := query.Get("code")
	if code == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing authorization code")
		return
	}

	if err := h.registry.Exchange(r.Context(), user.ID, provider, code); err != nil {
		if errors.Is(err, platforms.ErrUnknownProvider) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Unknown integration provider")
			return
		}
		h.logger.Error("oauth exchange failed", zap.Error(err), zap.String("provider", provider))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Provider rejected the authorization code")
		return
	}

	http.Redirect(w, r, h.frontendURL+"/integrations?connected="+provider, http.StatusFound)
}
