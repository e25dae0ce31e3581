package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/gptranslate/internal"
	"codeberg.org/snonux/gptranslate/internal/archive"
	"codeberg.org/snonux/gptranslate/internal/config"
	"codeberg.org/snonux/gptranslate/internal/history"
	"codeberg.org/snonux/gptranslate/internal/models"
	"codeberg.org/snonux/gptranslate/internal/translation"
)

// ClipboardDelay is how long CaptureClipboard waits for the clipboard owner
// to publish the new selection.
const ClipboardDelay = 100 * time.Millisecond

var (
	// ErrClipboardEmpty is returned when the clipboard holds no text.
	ErrClipboardEmpty = errors.New("clipboard is empty")
	// ErrEmptyText is returned when there is nothing to translate.
	ErrEmptyText = errors.New("nothing to translate")
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Service translates text with one configuration snapshot.
type Service interface {
	Translate(ctx context.Context, text string) (translation.Result, error)
	TargetLanguage() string
}

// ServiceFactory builds the translation service for a configuration.
type ServiceFactory func(cfg *config.Config, dedup *translation.Deduplicator) (Service, error)

// Autostart toggles the login item.
type Autostart interface {
	Apply(enabled bool) error
}

// Response is a completed translation as shown to the user.
type Response struct {
	OriginalText     string `json:"original_text"`
	TranslatedText   string `json:"translated_text"`
	DetectedLanguage string `json:"detected_language"`
	TargetLanguage   string `json:"target_language"`
}

// ConfigListener is notified after a configuration was saved.
type ConfigListener func(old, updated *config.Config)

// Options configures a Processor.
type Options struct {
	// DataDir holds config.json and history.json; empty means ~/.gptranslate.
	DataDir string
	// APIKeyOverride replaces the active provider's key for this process
	// without being saved.
	APIKeyOverride string
	// NewService defaults to a translation.Translator.
	NewService ServiceFactory
	// Validator defaults to translation.NewKeyValidator().
	Validator *translation.KeyValidator
	// Autostart is applied on Start and whenever auto_start changes.
	Autostart Autostart
}

// Processor is the command layer between the user interfaces and the
// translation core. It owns the configuration, the current translation
// service and the stores.
type Processor struct {
	configStore  *config.Store
	historyStore *history.Store
	dedup        *translation.Deduplicator
	newService   ServiceFactory
	validator    *translation.KeyValidator
	autostart    Autostart
	keyOverride  string

	cfgMu sync.Mutex
	cfg   *config.Config

	svcMu  sync.Mutex
	svc    Service
	svcErr error

	listenersMu sync.Mutex
	listeners   []ConfigListener
}

// NewProcessor loads the configuration and builds the translation service.
// Without a usable data directory it runs on defaults for the session.
func NewProcessor(opts Options) *Processor {
	p := &Processor{
		dedup:       translation.NewDeduplicator(),
		newService:  opts.NewService,
		validator:   opts.Validator,
		autostart:   opts.Autostart,
		keyOverride: opts.APIKeyOverride,
	}
	if p.newService == nil {
		p.newService = defaultService
	}
	if p.validator == nil {
		p.validator = translation.NewKeyValidator()
	}

	dir := opts.DataDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultDir(); err != nil {
			log.Error().Err(err).Msg("no data directory, using in-memory defaults for this session")
		}
	}

	p.cfg = config.Defaults()
	if dir != "" {
		p.configStore = config.NewStore(dir)
		p.historyStore = history.NewStore(dir)

		cfg, err := p.configStore.Load()
		if err != nil {
			log.Warn().Err(err).Msg("failed to load config, using defaults")
		}
		p.cfg = cfg
	}

	p.rebuildService(p.cfg)
	return p
}

func defaultService(cfg *config.Config, dedup *translation.Deduplicator) (Service, error) {
	t, err := translation.NewTranslator(cfg, dedup)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DataDir returns the directory holding config and history, or "" when the
// processor runs without stores.
func (p *Processor) DataDir() string {
	if p.configStore == nil {
		return ""
	}
	return p.configStore.Dir()
}

// ConfigPath returns the location of config.json.
func (p *Processor) ConfigPath() string {
	if p.configStore == nil {
		return ""
	}
	return p.configStore.Path()
}

// Start applies settings that live outside the process, such as autostart.
func (p *Processor) Start() {
	p.applyAutostart(p.Config().AutoStart)
}

// Config returns a copy of the current configuration.
func (p *Processor) Config() *config.Config {
	p.cfgMu.Lock()
	defer p.cfgMu.Unlock()
	return p.cfg.Clone()
}

// OnConfigChange registers fn to run after every successful SaveConfig.
func (p *Processor) OnConfigChange(fn ConfigListener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// SaveConfig validates and persists cfg, then replaces the translation
// service. Translations already running finish with the old service.
func (p *Processor) SaveConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	updated := cfg.Clone()

	if p.configStore != nil {
		if err := p.configStore.Save(updated); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	p.cfgMu.Lock()
	old := p.cfg
	p.cfg = updated
	p.cfgMu.Unlock()

	p.rebuildService(updated)
	log.Info().Str("provider", string(updated.APIProvider)).Str("target", updated.TargetLanguage).Msg("config saved")

	if old.AutoStart != updated.AutoStart {
		p.applyAutostart(updated.AutoStart)
	}

	p.listenersMu.Lock()
	listeners := append([]ConfigListener(nil), p.listeners...)
	p.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(old.Clone(), updated.Clone())
	}
	return nil
}

// SetConfigField changes one field by its JSON name and saves.
func (p *Processor) SetConfigField(name, value string) (*config.Config, error) {
	updated, err := config.SetField(p.Config(), name, value)
	if err != nil {
		return nil, err
	}
	if err := p.SaveConfig(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (p *Processor) applyAutostart(enabled bool) {
	if p.autostart == nil {
		return
	}
	if err := p.autostart.Apply(enabled); err != nil {
		log.Error().Err(err).Bool("enabled", enabled).Msg("failed to update autostart")
	}
}

// effectiveConfig applies the process-wide key override.
func (p *Processor) effectiveConfig(cfg *config.Config) *config.Config {
	eff := cfg.Clone()
	if p.keyOverride != "" {
		eff.SetActiveAPIKey(p.keyOverride)
	}
	return eff
}

func (p *Processor) rebuildService(cfg *config.Config) {
	svc, err := p.newService(p.effectiveConfig(cfg), p.dedup)
	if err != nil {
		log.Error().Err(err).Msg("failed to create translation service")
	}

	p.svcMu.Lock()
	defer p.svcMu.Unlock()
	p.svc = svc
	p.svcErr = err
}

func (p *Processor) service() (Service, error) {
	p.svcMu.Lock()
	defer p.svcMu.Unlock()
	return p.svc, p.svcErr
}

// Translate translates text and records it in the history. A
// translation.ErrDuplicateRequest error means the same text is already
// being translated and should be ignored by the caller.
func (p *Processor) Translate(ctx context.Context, text string) (Response, error) {
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyText
	}

	svc, err := p.service()
	if err != nil {
		return Response{}, err
	}

	res, err := svc.Translate(ctx, text)
	if errors.Is(err, translation.ErrDuplicateRequest) {
		log.Debug().Msg("skipping duplicate translation request")
		return Response{}, err
	}
	if err != nil {
		log.Error().Err(err).Msg("translation failed")
		return Response{}, err
	}

	resp := Response{
		OriginalText:     text,
		TranslatedText:   res.TranslatedText,
		DetectedLanguage: res.DetectedLanguage,
		TargetLanguage:   svc.TargetLanguage(),
	}

	if p.historyStore != nil {
		entry := history.NewEntry(resp.OriginalText, resp.TranslatedText, resp.DetectedLanguage, resp.TargetLanguage)
		if err := p.historyStore.Add(entry); err != nil {
			log.Error().Err(err).Msg("failed to add translation to history")
		}
	}
	return resp, nil
}

// ReadClipboard returns the clipboard text, rejecting an empty clipboard.
func (p *Processor) ReadClipboard(cb Clipboard) (string, error) {
	text, err := cb.ReadText()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrClipboardEmpty
	}
	return text, nil
}

// CaptureClipboard waits ClipboardDelay and then reads the clipboard. It is
// used right after the hotkey fired, when the copy may not have landed yet.
func (p *Processor) CaptureClipboard(ctx context.Context, cb Clipboard) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(ClipboardDelay):
	}
	return p.ReadClipboard(cb)
}

// TranslateClipboard translates the current clipboard text.
func (p *Processor) TranslateClipboard(ctx context.Context, cb Clipboard) (Response, error) {
	text, err := p.ReadClipboard(cb)
	if err != nil {
		return Response{}, err
	}
	log.Debug().Str("text", internal.Abbreviate(text, 100)).Msg("translating clipboard text")
	return p.Translate(ctx, text)
}

// CopyToClipboard writes text to the clipboard.
func (p *Processor) CopyToClipboard(cb Clipboard, text string) error {
	if err := cb.WriteText(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// History returns the stored translations, newest first.
func (p *Processor) History() ([]history.Entry, error) {
	if p.historyStore == nil {
		return nil, nil
	}
	h, err := p.historyStore.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to get translation history: %w", err)
	}
	return h.Entries, nil
}

// ClearHistory removes every stored translation.
func (p *Processor) ClearHistory() error {
	if p.historyStore == nil {
		return nil
	}
	if err := p.historyStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear translation history: %w", err)
	}
	return nil
}

// ArchiveHistory moves history.json into the archive directory and starts
// an empty history. It returns the archive path, or "" if there was no
// history file yet.
func (p *Processor) ArchiveHistory() (string, error) {
	if p.historyStore == nil {
		return "", nil
	}
	archived, err := archive.ArchiveFile(p.historyStore.Path())
	if err != nil && !errors.Is(err, archive.ErrNothingToArchive) {
		return "", err
	}
	if err := p.ClearHistory(); err != nil {
		return archived, err
	}
	return archived, nil
}

// ValidateAPIKey probes the upstream with the given credentials.
func (p *Processor) ValidateAPIKey(ctx context.Context, req translation.ValidateRequest) (bool, error) {
	return p.validator.Validate(ctx, req)
}

// ValidateConfiguredKey probes the upstream with the current configuration.
func (p *Processor) ValidateConfiguredKey(ctx context.Context) (bool, error) {
	cfg := p.effectiveConfig(p.Config())
	req := translation.ValidateRequest{Provider: cfg.APIProvider, APIKey: cfg.ActiveAPIKey()}
	if cfg.APIProvider == config.ProviderAzureOpenAI {
		req.Endpoint = cfg.AzureEndpoint
		req.APIVersion = cfg.AzureAPIVersion
	}
	return p.ValidateAPIKey(ctx, req)
}

// Models lists the models available to the current credentials.
func (p *Processor) Models(ctx context.Context) (*models.Catalog, error) {
	return models.NewLister(p.effectiveConfig(p.Config())).ListModels(ctx)
}
