package platforms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testConfigs() []ProviderConfig {
	return []ProviderConfig{
		{
			Name:         "screentime",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AuthURL:      "https://screentime.example/oauth/authorize",
			TokenURL:     "https://screentime.example/oauth/token",
			Scopes:       []string{"usage.read"},
		},
		{
			Name: "unconfigured",
		},
	}
}

func TestRegistrySkipsUnconfiguredProviders(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testConfigs(), "https://api.aware.example", zap.NewNop())

	list := r.List(1)
	if len(list) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(list))
	}
	if list[0].Provider != "screentime" || list[0].Connected {
		t.Errorf("unexpected integration state: %+v", list[0])
	}
}

func TestAuthURL(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testConfigs(), "https://api.aware.example", zap.NewNop())

	url, err := r.AuthURL("screentime", "state-123")
	if err != nil {
		t.Fatalf("auth url: %v", err)
	}
	for _, want := range []string{
		"https://screentime.example/oauth/authorize",
		"state=state-123",
		"client_id=client-id",
		"callback",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("auth url missing %q: %s", want, url)
		}
	}

	if _, err := r.AuthURL("nope", "s"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestExchangeUnknownProvider(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testConfigs(), "https://api.aware.example", zap.NewNop())

	err := r.Exchange(context.Background(), 1, "nope", "code")
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}
