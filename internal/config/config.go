package config

import (
	"fmt"
	"strings"
)

// ProviderKind selects the upstream translation back end.
type ProviderKind string

const (
	ProviderOpenAI      ProviderKind = "openai"
	ProviderAzureOpenAI ProviderKind = "azure_openai"
)

// Theme modes accepted in Config.Theme.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const (
	DefaultModel           = "gpt-4.1-nano"
	DefaultAzureAPIVersion = "2024-08-01-preview"
	DefaultTargetLanguage  = "English"
	DefaultAlternative     = "Norwegian"
	DefaultHotkey          = "CommandOrControl+Alt+C"

	// deprecatedModel was the default before gpt-4.1-nano and is rewritten on load.
	deprecatedModel = "gpt-4o-mini"
)

// DefaultPrompt is the translation instruction used when none is configured.
const DefaultPrompt = "Translate the given text from {detected_language} to {target_language} accurately while preserving the meaning, tone, and nuance of the original content.\n\n" +
	"# Additional Details\n" +
	"- Ensure the translation retains the context, cultural meaning, tone, formal/informal style, and any idiomatic expressions.\n" +
	"- Do **not** alter names, technical terms, or specific formatting unless required for grammatical correctness in the target language.\n" +
	"- If the detected language is the same as the target language, choose the most appropriate alternative language for translation.\n\n" +
	"# Output Format\n" +
	"The translation output should be provided as valid JSON containing 'detected_language' and 'translated_text' fields.\n\n" +
	"# Notes\n" +
	"- Ensure punctuation and capitalization match the norms of the target language.\n" +
	"- When encountering idiomatic expressions, adapt them to equivalent phrases in the target language rather than direct word-for-word translation.\n" +
	"- For ambiguous content, aim for the most contextually appropriate meaning.\n" +
	"- Take into consideration the whole text and what it is about."

// Config is the persisted user configuration. The JSON layout is the
// on-disk format of config.json.
type Config struct {
	APIProvider               ProviderKind `json:"api_provider"`
	OpenAIAPIKey              string       `json:"openai_api_key"`
	AzureEndpoint             string       `json:"azure_endpoint"`
	AzureAPIKey               string       `json:"azure_api_key"`
	AzureAPIVersion           string       `json:"azure_api_version"`
	AzureDeploymentName       string       `json:"azure_deployment_name"`
	Model                     string       `json:"model"`
	TargetLanguage            string       `json:"target_language"`
	AlternativeTargetLanguage string       `json:"alternative_target_language"`
	AutoStart                 bool         `json:"auto_start"`
	Hotkey                    string       `json:"hotkey"`
	Theme                     string       `json:"theme"`
	MinimizeToTray            bool         `json:"minimize_to_tray"`
	CustomPrompt              string       `json:"custom_prompt"`
}

// Defaults returns a fresh configuration with every field at its default.
func Defaults() *Config {
	return &Config{
		APIProvider:               ProviderOpenAI,
		AzureAPIVersion:           DefaultAzureAPIVersion,
		AzureDeploymentName:       DefaultModel,
		Model:                     DefaultModel,
		TargetLanguage:            DefaultTargetLanguage,
		AlternativeTargetLanguage: DefaultAlternative,
		AutoStart:                 true,
		Hotkey:                    DefaultHotkey,
		Theme:                     ThemeAuto,
		MinimizeToTray:            true,
		CustomPrompt:              DefaultPrompt,
	}
}

// Clone returns a copy that can be handed to another goroutine.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks the fields the translation client depends on.
func (c *Config) Validate() error {
	switch c.APIProvider {
	case ProviderOpenAI, ProviderAzureOpenAI:
	default:
		return fmt.Errorf("unsupported API provider %q", c.APIProvider)
	}

	switch strings.ToLower(c.Theme) {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unsupported theme %q", c.Theme)
	}

	if strings.TrimSpace(c.TargetLanguage) == "" {
		return fmt.Errorf("target language must not be empty")
	}
	return nil
}

// ActiveAPIKey returns the key of the selected provider.
func (c *Config) ActiveAPIKey() string {
	if c.APIProvider == ProviderAzureOpenAI {
		return c.AzureAPIKey
	}
	return c.OpenAIAPIKey
}

// SetActiveAPIKey stores key for the selected provider.
func (c *Config) SetActiveAPIKey(key string) {
	if c.APIProvider == ProviderAzureOpenAI {
		c.AzureAPIKey = key
		return
	}
	c.OpenAIAPIKey = key
}
