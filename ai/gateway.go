package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/metrics"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Profile selects a model for a use case.
type Profile string

const (
	ProfilePlanning Profile = "planning"
	ProfileSummary  Profile = "summary"
)

type Generator interface {
	GenerateText(ctx context.Context, prompt string, profile Profile) (string, error)
}

// GeminiGateway sends prompts to the Gemini API. Calls are made exactly once.
type GeminiGateway struct {
	client *genai.Client
	models map[Profile]string
	logger *zap.Logger
}

// NewGeminiGateway creates a client for the Gemini developer API. baseURL is
// only set in tests.
func NewGeminiGateway(ctx context.Context, cfg config.AIConfig, logger *zap.Logger, baseURL string) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGateway{
		client: client,
		models: map[Profile]string{
			ProfilePlanning: cfg.PlanningModel,
			ProfileSummary:  cfg.SummaryModel,
		},
		logger: logger,
	}, nil
}

func (g *GeminiGateway) GenerateText(ctx context.Context, prompt string, profile Profile) (string, error) {
	model, ok := g.models[profile]
	if !ok || model == "" {
		return "", fmt.Errorf("%w: unknown model profile %q", common.ErrAIGateway, profile)
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	metrics.ObserveExternalCall("gemini", string(profile), err, start)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", common.ErrAIGateway, model, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: %s returned no text", common.ErrAIGateway, model)
	}

	g.logger.Debug("Generated text",
		zap.String("profile", string(profile)),
		zap.String("model", model),
		zap.Int("chars", len(text)),
		zap.Duration("latency", time.Since(start)),
	)
	return text, nil
}
