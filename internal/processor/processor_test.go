package processor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/gptranslate/internal/config"
	"codeberg.org/snonux/gptranslate/internal/testutil"
	"codeberg.org/snonux/gptranslate/internal/translation"
)

const okContent = `{"detected_language":"Norwegian","translated_text":"Good morning"}`

// upstreamFactory points every translator at the fake upstream and records
// the configurations it was built from.
func upstreamFactory(up *testutil.FakeUpstream, built *[]*config.Config) ServiceFactory {
	return func(cfg *config.Config, dedup *translation.Deduplicator) (Service, error) {
		if built != nil {
			*built = append(*built, cfg)
		}
		provider := translation.OpenAI{APIKey: cfg.ActiveAPIKey(), ModelName: cfg.Model, BaseURL: up.URL()}
		return translation.NewTranslatorForProvider(provider, cfg, dedup), nil
	}
}

type recordingAutostart struct {
	calls []bool
	err   error
}

func (r *recordingAutostart) Apply(enabled bool) error {
	r.calls = append(r.calls, enabled)
	return r.err
}

func newTestProcessor(t *testing.T, up *testutil.FakeUpstream) *Processor {
	t.Helper()
	return NewProcessor(Options{DataDir: t.TempDir(), NewService: upstreamFactory(up, nil)})
}

func TestNewProcessorWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(Options{DataDir: dir})

	assert.Equal(t, dir, p.DataDir())
	assert.Equal(t, filepath.Join(dir, "config.json"), p.ConfigPath())
	testutil.AssertFileExists(t, p.ConfigPath())
	assert.Equal(t, config.Defaults(), p.Config())
}

func TestTranslateAddsHistory(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	p := newTestProcessor(t, up)

	resp, err := p.Translate(context.Background(), "God morgen")
	require.NoError(t, err)
	assert.Equal(t, Response{
		OriginalText:     "God morgen",
		TranslatedText:   "Good morning",
		DetectedLanguage: "Norwegian",
		TargetLanguage:   "English",
	}, resp)

	entries, err := p.History()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "God morgen", entries[0].OriginalText)
	assert.Equal(t, "Good morning", entries[0].TranslatedText)
	assert.Equal(t, "English", entries[0].TargetLanguage)
}

func TestTranslateFailureLeavesHistoryAlone(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	up.Respond(http.StatusTooManyRequests, "slow down")
	p := newTestProcessor(t, up)

	_, err := p.Translate(context.Background(), "hello")
	var apiErr *translation.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "slow down")

	entries, err := p.History()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTranslateRejectsEmptyText(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	p := newTestProcessor(t, up)

	_, err := p.Translate(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, up.Requests())
}

func TestTranslateClipboard(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	p := newTestProcessor(t, up)

	_, err := p.TranslateClipboard(context.Background(), &testutil.MockClipboard{Text: "   "})
	assert.ErrorIs(t, err, ErrClipboardEmpty)

	_, err = p.TranslateClipboard(context.Background(), &testutil.MockClipboard{ReadErr: errors.New("no display")})
	assert.ErrorContains(t, err, "failed to read clipboard")

	resp, err := p.TranslateClipboard(context.Background(), &testutil.MockClipboard{Text: "God morgen"})
	require.NoError(t, err)
	assert.Equal(t, "Good morning", resp.TranslatedText)
}

func TestCaptureClipboardHonoursContext(t *testing.T) {
	p := NewProcessor(Options{DataDir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.CaptureClipboard(ctx, &testutil.MockClipboard{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)

	text, err := p.CaptureClipboard(context.Background(), &testutil.MockClipboard{Text: "copied"})
	require.NoError(t, err)
	assert.Equal(t, "copied", text)
}

func TestCopyToClipboard(t *testing.T) {
	p := NewProcessor(Options{DataDir: t.TempDir()})
	cb := &testutil.MockClipboard{}

	require.NoError(t, p.CopyToClipboard(cb, "Good morning"))
	assert.Equal(t, []string{"Good morning"}, cb.Writes)

	cb.WriteErr = errors.New("denied")
	assert.ErrorContains(t, p.CopyToClipboard(cb, "x"), "failed to copy to clipboard")
}

func TestSaveConfigSwapsServiceAndNotifies(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	var built []*config.Config
	p := NewProcessor(Options{DataDir: t.TempDir(), NewService: upstreamFactory(up, &built)})
	require.Len(t, built, 1)

	var notified [][2]string
	p.OnConfigChange(func(old, updated *config.Config) {
		notified = append(notified, [2]string{old.Hotkey, updated.Hotkey})
	})

	cfg := p.Config()
	cfg.TargetLanguage = "German"
	cfg.Hotkey = "Ctrl+Shift+T"
	require.NoError(t, p.SaveConfig(cfg))

	require.Len(t, built, 2)
	assert.Equal(t, "German", built[1].TargetLanguage)
	assert.Equal(t, [][2]string{{"CommandOrControl+Alt+C", "Ctrl+Shift+T"}}, notified)

	resp, err := p.Translate(context.Background(), "God morgen")
	require.NoError(t, err)
	assert.Equal(t, "German", resp.TargetLanguage)

	// The file on disk carries the change.
	reloaded := NewProcessor(Options{DataDir: p.DataDir(), NewService: upstreamFactory(up, nil)})
	assert.Equal(t, "German", reloaded.Config().TargetLanguage)
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	p := NewProcessor(Options{DataDir: t.TempDir()})

	cfg := p.Config()
	cfg.Theme = "sepia"
	assert.Error(t, p.SaveConfig(cfg))
	assert.Equal(t, config.ThemeAuto, p.Config().Theme)
}

func TestSetConfigField(t *testing.T) {
	p := NewProcessor(Options{DataDir: t.TempDir()})

	cfg, err := p.SetConfigField("alternative_target_language", "Swedish")
	require.NoError(t, err)
	assert.Equal(t, "Swedish", cfg.AlternativeTargetLanguage)
	assert.Equal(t, "Swedish", p.Config().AlternativeTargetLanguage)

	_, err = p.SetConfigField("nope", "x")
	assert.Error(t, err)
}

func TestAPIKeyOverrideIsNotPersisted(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	dir := t.TempDir()
	p := NewProcessor(Options{DataDir: dir, APIKeyOverride: "sk-env", NewService: upstreamFactory(up, nil)})

	_, err := p.Translate(context.Background(), "hei")
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-env", up.Requests()[0].Header.Get("Authorization"))

	require.NoError(t, p.SaveConfig(p.Config()))
	raw := testutil.ReadJSONObject(t, filepath.Join(dir, "config.json"))
	assert.Equal(t, "", raw["openai_api_key"])
}

func TestAutostartFollowsConfig(t *testing.T) {
	auto := &recordingAutostart{}
	p := NewProcessor(Options{DataDir: t.TempDir(), Autostart: auto})

	p.Start()
	assert.Equal(t, []bool{true}, auto.calls)

	cfg := p.Config()
	cfg.TargetLanguage = "Dutch"
	require.NoError(t, p.SaveConfig(cfg))
	assert.Equal(t, []bool{true}, auto.calls, "unchanged auto_start is not reapplied")

	cfg.AutoStart = false
	auto.err = errors.New("read-only home")
	require.NoError(t, p.SaveConfig(cfg), "autostart failures are logged, not returned")
	assert.Equal(t, []bool{true, false}, auto.calls)
}

func TestClearAndArchiveHistory(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	p := newTestProcessor(t, up)

	archived, err := p.ArchiveHistory()
	require.NoError(t, err)
	assert.Empty(t, archived, "nothing to archive yet")

	_, err = p.Translate(context.Background(), "one")
	require.NoError(t, err)

	archived, err = p.ArchiveHistory()
	require.NoError(t, err)
	testutil.AssertFileExists(t, archived)
	testutil.AssertFileContains(t, archived, `"original_text": "one"`)

	entries, err := p.History()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = p.Translate(context.Background(), "two")
	require.NoError(t, err)
	require.NoError(t, p.ClearHistory())
	entries, err = p.History()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidateConfiguredKey(t *testing.T) {
	up := testutil.NewFakeUpstream(t, "")
	up.Respond(http.StatusOK, `{"data":[]}`)

	dir := t.TempDir()
	p := NewProcessor(Options{
		DataDir:        dir,
		APIKeyOverride: "sk-probe",
		Validator:      translation.NewKeyValidator().WithOpenAIBaseURL(up.URL()),
	})

	ok, err := p.ValidateConfiguredKey(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer sk-probe", up.Requests()[0].Header.Get("Authorization"))
}

func TestProcessorWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	if _, err := os.UserHomeDir(); err == nil {
		t.Skip("home directory still resolvable on this platform")
	}

	p := NewProcessor(Options{})
	assert.Equal(t, "", p.DataDir())
	assert.Equal(t, config.Defaults(), p.Config())

	entries, err := p.History()
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, p.SaveConfig(p.Config()))
}

// dedupService registers every text with the shared deduplicator and never
// releases it, so a repeat inside the window is rejected.
type dedupService struct {
	dedup *translation.Deduplicator
}

func (s dedupService) Translate(_ context.Context, text string) (translation.Result, error) {
	if _, ok := s.dedup.CheckAndRegister(text); !ok {
		return translation.Result{}, translation.ErrDuplicateRequest
	}
	return translation.Result{TranslatedText: "Good morning", DetectedLanguage: "Norwegian"}, nil
}

func (dedupService) TargetLanguage() string { return "English" }

func TestDuplicateTranslateLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	t.Cleanup(func() { log.Logger = saved })

	p := NewProcessor(Options{
		DataDir: t.TempDir(),
		NewService: func(_ *config.Config, dedup *translation.Deduplicator) (Service, error) {
			return dedupService{dedup: dedup}, nil
		},
	})

	_, err := p.Translate(context.Background(), "God morgen")
	require.NoError(t, err)
	_, err = p.Translate(context.Background(), "God morgen")
	require.ErrorIs(t, err, translation.ErrDuplicateRequest)

	var duplicates int
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "duplicate") {
			duplicates++
		}
	}
	assert.Equal(t, 1, duplicates, buf.String())
}
