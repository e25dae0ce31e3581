package translation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/snonux/gptranslate/internal/config"
)

const openAIBaseURL = "https://api.openai.com/v1"

// Provider is one upstream chat completion back end.
type Provider interface {
	// Name is used in error messages and logs.
	Name() string
	ChatURL() string
	ModelsURL() string
	// Authorize adds the credential header to req.
	Authorize(req *http.Request)
	// Model is the model name to send, or "" when the endpoint implies it.
	Model() string
}

// OpenAI talks to api.openai.com with bearer authentication.
type OpenAI struct {
	APIKey    string
	ModelName string
	// BaseURL overrides https://api.openai.com/v1.
	BaseURL string
}

func (p OpenAI) base() string {
	if p.BaseURL != "" {
		return strings.TrimSuffix(p.BaseURL, "/")
	}
	return openAIBaseURL
}

func (p OpenAI) Name() string      { return "OpenAI" }
func (p OpenAI) ChatURL() string   { return p.base() + "/chat/completions" }
func (p OpenAI) ModelsURL() string { return p.base() + "/models" }
func (p OpenAI) Model() string     { return p.ModelName }

func (p OpenAI) Authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
}

// AzureOpenAI talks to an Azure hosted deployment. The deployment selects
// the model, so none is sent.
type AzureOpenAI struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

func (p AzureOpenAI) endpoint() string {
	return strings.TrimSuffix(strings.TrimSpace(p.Endpoint), "/")
}

func (p AzureOpenAI) Name() string  { return "Azure OpenAI" }
func (p AzureOpenAI) Model() string { return "" }

func (p AzureOpenAI) ChatURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint(), url.PathEscape(p.Deployment), url.QueryEscape(p.APIVersion))
}

func (p AzureOpenAI) ModelsURL() string {
	return azureModelsURL(p.endpoint(), p.APIVersion)
}

func (p AzureOpenAI) Authorize(req *http.Request) {
	req.Header.Set("api-key", p.APIKey)
}

// NewProvider builds the provider selected by cfg.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.APIProvider {
	case config.ProviderOpenAI:
		return OpenAI{APIKey: cfg.OpenAIAPIKey, ModelName: cfg.Model}, nil
	case config.ProviderAzureOpenAI:
		return AzureOpenAI{
			Endpoint:   cfg.AzureEndpoint,
			APIKey:     cfg.AzureAPIKey,
			Deployment: cfg.AzureDeploymentName,
			APIVersion: cfg.AzureAPIVersion,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported API provider %q", cfg.APIProvider)
	}
}
