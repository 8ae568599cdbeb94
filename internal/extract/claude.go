package extract

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/dgallion1/pagesift/internal/retry"
)

const claudeMaxTokens = 4096

// ClaudeBackend calls the Anthropic Messages API.
type ClaudeBackend struct {
	client sdk.Client
	model  string
}

// NewClaudeBackend creates a backend for model. The SDK's own retries are
// disabled; the extractor retries transient failures itself.
func NewClaudeBackend(apiKey, model, baseURL string, httpClient *http.Client) *ClaudeBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &ClaudeBackend{client: sdk.NewClient(opts...), model: model}
}

func (c *ClaudeBackend) Name() string { return "anthropic" }

func (c *ClaudeBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: claudeMaxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(p.User))},
	}
	if p.System != "" {
		params.System = []sdk.TextBlockParam{{Text: p.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		wrapped := eris.Wrap(err, "anthropic: create message")
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) && retry.RetryableStatus(apiErr.StatusCode) {
			return "", retry.Transient(wrapped, apiErr.StatusCode)
		}
		return "", wrapped
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
