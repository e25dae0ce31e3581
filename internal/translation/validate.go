package translation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/gptranslate/internal/config"
)

// FallbackValidationAPIVersion is used for Azure key checks when neither the
// caller nor the endpoint URL names an api-version.
const FallbackValidationAPIVersion = "2025-01-01-preview"

// ErrAzureEndpointRequired is returned when an Azure key is validated
// without an endpoint.
var ErrAzureEndpointRequired = errors.New("Azure endpoint is required")

// ValidateRequest describes the credentials to probe.
type ValidateRequest struct {
	Provider   config.ProviderKind
	APIKey     string
	Endpoint   string
	APIVersion string
}

// KeyValidator probes a models listing endpoint to check credentials.
type KeyValidator struct {
	client        *http.Client
	openAIBaseURL string
}

// NewKeyValidator creates a validator using the default HTTP client.
func NewKeyValidator() *KeyValidator {
	return &KeyValidator{client: http.DefaultClient, openAIBaseURL: openAIBaseURL}
}

// WithOpenAIBaseURL points OpenAI probes at base instead of api.openai.com.
func (v *KeyValidator) WithOpenAIBaseURL(base string) *KeyValidator {
	v.openAIBaseURL = strings.TrimSuffix(base, "/")
	return v
}

// Validate reports whether the upstream accepted the key, i.e. answered the
// probe with a 2xx status. Errors mean the probe could not be made.
func (v *KeyValidator) Validate(ctx context.Context, r ValidateRequest) (bool, error) {
	var probe Provider
	switch r.Provider {
	case config.ProviderOpenAI:
		probe = OpenAI{APIKey: r.APIKey, BaseURL: v.openAIBaseURL}
	case config.ProviderAzureOpenAI:
		if strings.TrimSpace(r.Endpoint) == "" {
			return false, ErrAzureEndpointRequired
		}
		probe = AzureOpenAI{
			Endpoint:   r.Endpoint,
			APIKey:     r.APIKey,
			APIVersion: validationAPIVersion(r.APIVersion, r.Endpoint),
		}
	default:
		return false, fmt.Errorf("unsupported API provider %q", r.Provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probe.ModelsURL(), nil)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	probe.Authorize(req)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	log.Info().Str("provider", probe.Name()).Int("status", resp.StatusCode).Bool("valid", ok).Msg("API key validation")
	return ok, nil
}

// ValidateAPIKey checks r with a default validator.
func ValidateAPIKey(ctx context.Context, r ValidateRequest) (bool, error) {
	return NewKeyValidator().Validate(ctx, r)
}

func validationAPIVersion(explicit, endpoint string) string {
	if explicit != "" {
		return explicit
	}
	if u, err := url.Parse(endpoint); err == nil {
		if v := u.Query().Get("api-version"); v != "" {
			return v
		}
	}
	return FallbackValidationAPIVersion
}

// azureModelsURL returns the models listing URL of an Azure endpoint. AI
// Foundry endpoints on services.ai.azure.com serve /models directly, other
// resources serve /openai/models.
func azureModelsURL(endpoint, apiVersion string) string {
	base := endpoint
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		u.RawQuery = ""
		u.Fragment = ""
		base = strings.TrimSuffix(u.String(), "/")
		host = u.Host
	}

	path := "/openai/models"
	if strings.Contains(host, "services.ai.azure.com") {
		path = "/models"
	}
	return fmt.Sprintf("%s%s?api-version=%s", base, path, url.QueryEscape(apiVersion))
}
