package translation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/gptranslate/internal/config"
)

func TestNewProvider(t *testing.T) {
	cfg := config.Defaults()
	cfg.OpenAIAPIKey = "sk"

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", p.ChatURL())
	assert.Equal(t, "https://api.openai.com/v1/models", p.ModelsURL())
	assert.Equal(t, "gpt-4.1-nano", p.Model())

	cfg.APIProvider = config.ProviderAzureOpenAI
	cfg.AzureEndpoint = "https://res.openai.azure.com/"
	cfg.AzureDeploymentName = "dep"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://res.openai.azure.com/openai/deployments/dep/chat/completions?api-version=2024-08-01-preview", p.ChatURL())
	assert.Equal(t, "", p.Model())

	cfg.APIProvider = "gemini"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}

func TestProviderAuthorize(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)
	OpenAI{APIKey: "sk"}.Authorize(req)
	assert.Equal(t, "Bearer sk", req.Header.Get("Authorization"))

	req, err = http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)
	AzureOpenAI{APIKey: "az"}.Authorize(req)
	assert.Equal(t, "az", req.Header.Get("api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}
