package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/gptranslate/internal/config"
)

// ErrMissingAPIKey is returned when the active provider has no key.
var ErrMissingAPIKey = errors.New("API key not found. Set GPTRANSLATE_API_KEY or run 'gptranslate config set'")

// Lister handles listing available models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a model lister for the provider selected in cfg.
func NewLister(cfg *config.Config) *Lister {
	return NewListerWithConfig(cfg.ActiveAPIKey(), clientConfig(cfg))
}

// NewListerWithConfig creates a lister from an explicit go-openai client
// configuration.
func NewListerWithConfig(apiKey string, cc openai.ClientConfig) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cc),
	}
}

func clientConfig(cfg *config.Config) openai.ClientConfig {
	if cfg.APIProvider == config.ProviderAzureOpenAI {
		cc := openai.DefaultAzureConfig(cfg.AzureAPIKey, strings.TrimSuffix(cfg.AzureEndpoint, "/"))
		if cfg.AzureAPIVersion != "" {
			cc.APIVersion = cfg.AzureAPIVersion
		}
		return cc
	}
	return openai.DefaultConfig(cfg.OpenAIAPIKey)
}

// Catalog is the model listing split by usefulness for translation.
type Catalog struct {
	Chat  []string
	Other []string
}

// ListModels fetches and categorizes the available models.
func (l *Lister) ListModels(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	catalog := &Catalog{}
	for _, model := range models.Models {
		if IsChatModel(model.ID) {
			catalog.Chat = append(catalog.Chat, model.ID)
		} else {
			catalog.Other = append(catalog.Other, model.ID)
		}
	}
	sort.Strings(catalog.Chat)
	sort.Strings(catalog.Other)
	return catalog, nil
}

// IsChatModel reports whether id names a model usable for translation.
func IsChatModel(id string) bool {
	id = strings.ToLower(id)
	for _, skip := range []string{"tts", "audio", "dall-e", "embedding", "whisper", "moderation", "realtime", "transcribe", "image"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	for _, prefix := range []string{"gpt", "o1", "o3", "o4", "chatgpt"} {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return strings.Contains(id, "chat")
}

// Print writes the catalog in the layout of the models command.
func (c *Catalog) Print(w io.Writer, current string) {
	fmt.Fprintln(w, "Chat/Translation Models:")
	if len(c.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range c.Chat {
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s\n", marker, model)
	}

	if len(c.Other) > 0 {
		fmt.Fprintf(w, "\nOther models: %d (not suitable for translation)\n", len(c.Other))
	}
}
