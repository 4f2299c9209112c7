package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/models"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second
	// maxGeneratedRecommendations caps how many items one call may produce.
	maxGeneratedRecommendations = 5
)

// OpenAIProvider generates recommendations with a chat model, falling back
// to the rule provider when the call or the response parse fails. Insights
// are advisory; a model outage must never break the endpoint.
type OpenAIProvider struct {
	client   openai.Client
	model    string
	fallback Provider
	logger   *zap.Logger
}

// NewOpenAIProvider creates a model-backed provider.
func NewOpenAIProvider(apiKey, model string, fallback Provider, logger *zap.Logger) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}

	httpClient := &http.Client{Timeout: DefaultTimeout}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:   client,
		model:    model,
		fallback: fallback,
		logger:   logger,
	}
}

// Generate asks the model for recommendations over the snapshot.
func (p *OpenAIProvider) Generate(ctx context.Context, snapshot Snapshot) ([]*models.Recommendation, error) {
	recs, err := p.generate(ctx, snapshot)
	if err != nil {
		p.logger.Warn("model-backed insights failed, using rule fallback", zap.Error(err))
		return p.fallback.Generate(ctx, snapshot)
	}
	return recs, nil
}

func (p *OpenAIProvider) generate(ctx context.Context, snapshot Snapshot) ([]*models.Recommendation, error) {
	prompt, err := buildPrompt(snapshot)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	return parseRecommendations(resp.Choices[0].Message.Content, snapshot.User.ID)
}

const systemPrompt = `You are a digital wellness assistant. Given a user's goals, app usage and app permission data, produce short actionable recommendations. Respond with a JSON object: {"recommendations": [{"title": "...", "description": "...", "type": "alert|privacy|goal|productivity"}]}. At most 5 items, each description one or two sentences.`

func buildPrompt(snapshot Snapshot) (string, error) {
	payload := map[string]any{
		"goals":   snapshot.Goals,
		"usage":   snapshot.Usage,
		"privacy": snapshot.Privacy,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return "User data:\n" + string(data), nil
}

func parseRecommendations(content string, userID int64) ([]*models.Recommendation, error) {
	var parsed struct {
		Recommendations []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Type        string `json:"type"`
		} `json:"recommendations"`
	}

	raw := content
	if len(raw) > 0 && raw[0] != '{' {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	var recs []*models.Recommendation
	for _, item := range parsed.Recommendations {
		if len(recs) == maxGeneratedRecommendations {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		recType := models.RecommendationType(item.Type)
		switch recType {
		case models.RecommendationTypeAlert, models.RecommendationTypePrivacy,
			models.RecommendationTypeGoal, models.RecommendationTypeProductivity:
		default:
			recType = models.RecommendationTypeProductivity
		}
		recs = append(recs, &models.Recommendation{
			UserID:      userID,
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			Type:        recType,
			Status:      models.RecommendationStatusNew,
		})
	}

	return recs, nil
}
