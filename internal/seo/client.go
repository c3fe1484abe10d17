package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 160

	promptDescriptionLimit = 500
	defaultModel           = "gpt-4"
	temperature            = 0.7
	maxTokens              = 300
)

const systemPrompt = "Eres un experto en SEO y marketing de e-commerce. Generas títulos y descripciones optimizados para productos. Responde siempre en formato JSON válido sin ningún texto adicional."

// Request describes the product the copy is generated for
type Request struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Type        string `json:"type"`
}

// Client generates short search-engine copy through a chat completion model
type Client struct {
	api    *openai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates an SEO copy generator. It returns a configuration error
// when no API key is set.
func NewClient(cfg config.OpenAIConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &errors.ErrConfiguration{Message: "OPENAI_API_KEY not configured"}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		api:    openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}, nil
}

// Generate returns an SEO title and meta description for the product
func (c *Client) Generate(ctx context.Context, req Request) (*domain.SEOCopy, error) {
	if strings.TrimSpace(req.ProductName) == "" {
		return nil, &errors.ErrValidation{
			Message: "product name is required",
			Fields:  map[string]string{"product_name": "required"},
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Warn("SEO completion request failed", zap.String("product_name", req.ProductName), zap.Error(err))
		return nil, fmt.Errorf("seo completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("seo completion returned no choices")
	}

	result, err := parseCopy(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("SEO copy generated",
		zap.String("product_name", req.ProductName),
		zap.Int("title_length", len([]rune(result.Title))),
	)
	return result, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Genera un título SEO optimizado y una meta descripción para un producto de e-commerce.\n\n")
	fmt.Fprintf(&b, "Producto: %s\n", req.ProductName)
	fmt.Fprintf(&b, "Marca: %s\n", orNA(req.Brand))
	fmt.Fprintf(&b, "Tipo: %s\n", orNA(req.Type))
	fmt.Fprintf(&b, "Descripción: %s\n\n", orNA(clip(req.Description, promptDescriptionLimit)))
	b.WriteString("Genera:\n")
	fmt.Fprintf(&b, "1. Un título SEO (máximo %d caracteres) optimizado para Google Shopping y búsquedas\n", MaxTitleLength)
	fmt.Fprintf(&b, "2. Una meta descripción (máximo %d caracteres) atractiva que incentive el clic\n\n", MaxDescriptionLength)
	b.WriteString("Responde SOLO en formato JSON válido:\n")
	b.WriteString(`{"title": "título SEO optimizado aquí", "description": "meta descripción aquí"}`)
	return b.String()
}

func parseCopy(content string) (*domain.SEOCopy, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("seo completion returned empty content")
	}

	var out domain.SEOCopy
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("seo completion returned invalid JSON: %w", err)
	}
	out.Title = clip(strings.TrimSpace(out.Title), MaxTitleLength)
	out.Description = clip(strings.TrimSpace(out.Description), MaxDescriptionLength)
	if out.Title == "" || out.Description == "" {
		return nil, fmt.Errorf("seo completion is missing title or description")
	}
	return &out, nil
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
