package platforms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrUnknownProvider is returned for a provider name with no registered
// OAuth config.
var ErrUnknownProvider = errors.New("unknown platform provider")

// ProviderConfig carries the OAuth2 credentials for one usage-data platform.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

// Integration is the connection state of one platform for a user.
type Integration struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
}

// Registry holds the configured platform integrations and which users have
// connected them. Tokens are held in memory only; a restart asks users to
// reconnect.
type Registry struct {
	mu        sync.RWMutex
	configs   map[string]*oauth2.Config
	connected map[int64]map[string]*oauth2.Token
	logger    *zap.Logger
}

// NewRegistry builds a registry from provider configs. Providers with
// missing credentials are skipped so a partially configured deployment still
// serves the rest.
func NewRegistry(configs []ProviderConfig, redirectBase string, logger *zap.Logger) *Registry {
	r := &Registry{
		configs:   make(map[string]*oauth2.Config),
		connected: make(map[int64]map[string]*oauth2.Token),
		logger:    logger,
	}

	for _, pc := range configs {
		if pc.ClientID == "" || pc.ClientSecret == "" {
			logger.Info("skipping unconfigured platform provider", zap.String("provider", pc.Name))
			continue
		}
		r.configs[pc.Name] = &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  fmt.Sprintf("%s/api/v1/integrations/%s/callback", redirectBase, pc.Name),
			Scopes:       pc.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  pc.AuthURL,
				TokenURL: pc.TokenURL,
			},
		}
	}

	return r
}

// List returns every configured provider with the user's connection state,
// sorted by name.
func (r *Registry) List(userID int64) []Integration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Integration, 0, len(r.configs))
	for name := range r.configs {
		_, connected := r.connected[userID][name]
		out = append(out, Integration{Provider: name, Connected: connected})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// AuthURL returns the provider's consent page URL for the given state.
func (r *Registry) AuthURL(provider, state string) (string, error) {
	r.mu.RLock()
	cfg, ok := r.configs[provider]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for a token and records the user as
// connected.
func (r *Registry) Exchange(ctx context.Context, userID int64, provider, code string) error {
	r.mu.RLock()
	cfg, ok := r.configs[provider]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code with %s: %w", provider, err)
	}

	r.mu.Lock()
	if r.connected[userID] == nil {
		r.connected[userID] = make(map[string]*oauth2.Token)
	}
	r.connected[userID][provider] = token
	r.mu.Unlock()

	r.logger.Info("platform connected",
		zap.Int64("user_id", userID),
		zap.String("provider", provider))

	return nil
}

// Token returns the stored token for a connected provider, or nil.
func (r *Registry) Token(userID int64, provider string) *oauth2.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected[userID][provider]
}
