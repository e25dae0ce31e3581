package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/gptranslate/internal"
	"codeberg.org/snonux/gptranslate/internal/config"
)

const (
	maxTokens   = 800
	temperature = 0.3

	jsonInstruction = "Always respond with valid JSON containing 'detected_language' and 'translated_text' fields. " +
		"Make sure to properly escape newlines in the translated_text field."
)

// chatRequest is the chat completion body. Model is omitted for Azure
// deployments, which go-openai's own request type cannot express.
type chatRequest struct {
	Model       string                         `json:"model,omitempty"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	MaxTokens   int                            `json:"max_tokens"`
	Temperature float32                        `json:"temperature"`
}

// Translator translates text with one provider and one configuration
// snapshot. Replace it instead of mutating it when the configuration
// changes.
type Translator struct {
	provider    Provider
	prompt      string
	target      string
	alternative string
	dedup       *Deduplicator
	client      *http.Client
}

// NewTranslator creates a translator for the provider selected in cfg.
// dedup is shared between translators; nil gives the translator its own.
func NewTranslator(cfg *config.Config, dedup *Deduplicator) (*Translator, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewTranslatorForProvider(provider, cfg, dedup), nil
}

// NewTranslatorForProvider creates a translator that sends requests to
// provider using the prompt and languages of cfg.
func NewTranslatorForProvider(provider Provider, cfg *config.Config, dedup *Deduplicator) *Translator {
	if dedup == nil {
		dedup = NewDeduplicator()
	}
	return &Translator{
		provider:    provider,
		prompt:      cfg.CustomPrompt,
		target:      cfg.TargetLanguage,
		alternative: cfg.AlternativeTargetLanguage,
		dedup:       dedup,
		client:      http.DefaultClient,
	}
}

// SetHTTPClient replaces the HTTP client used for requests.
func (t *Translator) SetHTTPClient(client *http.Client) {
	t.client = client
}

// Provider returns the back end the translator talks to.
func (t *Translator) Provider() Provider {
	return t.provider
}

// TargetLanguage returns the primary target language.
func (t *Translator) TargetLanguage() string {
	return t.target
}

// Translate detects the language of text and translates it. It returns
// ErrDuplicateRequest if the same text is already being translated and was
// submitted less than 500ms ago.
func (t *Translator) Translate(ctx context.Context, text string) (Result, error) {
	fp, ok := t.dedup.CheckAndRegister(text)
	if !ok {
		return Result{}, ErrDuplicateRequest
	}
	defer t.dedup.Release(fp)

	return t.translate(ctx, text)
}

func (t *Translator) translate(ctx context.Context, text string) (Result, error) {
	cleaned := NormalizeText(text)
	log.Debug().Str("text", internal.Abbreviate(cleaned, 100)).Msg("cleaned text for translation")

	body, err := json.Marshal(t.buildRequest(cleaned))
	if err != nil {
		return Result{}, fmt.Errorf("encode chat request: %w", err)
	}

	content, err := t.call(ctx, body)
	if err != nil {
		return Result{}, err
	}

	result := ParseContent(content)
	log.Info().
		Str("provider", t.provider.Name()).
		Str("detected_language", result.DetectedLanguage).
		Str("target_language", t.target).
		Msg("translation completed")
	log.Debug().Str("text", internal.Abbreviate(result.TranslatedText, 100)).Msg("translated text")
	return result, nil
}

func (t *Translator) buildRequest(cleaned string) chatRequest {
	return chatRequest{
		Model: t.provider.Model(),
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: BuildSystemPrompt(t.prompt, t.target, t.alternative) + "\n\n" + jsonInstruction,
					},
				},
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: `Text to translate: "` + cleaned + `"`,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

func (t *Translator) call(ctx context.Context, body []byte) (string, error) {
	name := t.provider.Name()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.provider.ChatURL(), bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Provider: name, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	t.provider.Authorize(req)

	log.Debug().Str("provider", name).Str("url", req.URL.Redacted()).Msg("sending chat completion request")
	resp, err := t.client.Do(req)
	if err != nil {
		return "", &APIError{Provider: name, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Provider: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Str("provider", name).Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("API request failed")
		return "", &APIError{Provider: name, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", &APIError{Provider: name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &APIError{Provider: name, Err: errors.New("no content in response")}
	}
	return completion.Choices[0].Message.Content, nil
}

// NormalizeText trims the whitespace around every line while keeping the
// line breaks, so blank lines between paragraphs survive. A single
// trailing newline is dropped.
func NormalizeText(text string) string {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// BuildSystemPrompt appends the primary/alternative language rule to the
// configured prompt.
func BuildSystemPrompt(prompt, target, alternative string) string {
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\n# Alternative Language Logic\n")
	fmt.Fprintf(&sb, "- Primary target language: %s\n", target)
	fmt.Fprintf(&sb, "- Alternative target language: %s\n", alternative)
	sb.WriteString("- If the detected language matches the primary target language, translate to the alternative target language instead.\n")
	sb.WriteString("- If the detected language is different from the primary target language, translate to the primary target language.")
	return sb.String()
}
