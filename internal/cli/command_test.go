package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/gptranslate/internal/config"
	"codeberg.org/snonux/gptranslate/internal/processor"
	"codeberg.org/snonux/gptranslate/internal/testutil"
	"codeberg.org/snonux/gptranslate/internal/translation"
)

const okContent = `{"detected_language":"Norwegian","translated_text":"Good morning"}`

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "gptranslate" {
		t.Errorf("Expected Use to be 'gptranslate', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Clipboard translation") {
		t.Errorf("Expected Short description to contain 'Clipboard translation'")
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"data-dir", true},
		{"log-level", true},
		{"autostart", true},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestAddCommands(t *testing.T) {
	flags := NewFlags()
	root := CreateRootCommand(flags)
	AddCommands(root, flags, func() *processor.Processor { return nil })

	for _, path := range [][]string{
		{"translate"},
		{"history"},
		{"history", "clear"},
		{"config", "show"},
		{"config", "path"},
		{"config", "set"},
		{"validate-key"},
		{"models"},
		{"version"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not found: %v", path, err)
		}
	}
}

func TestBindFlagsToViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.PersistentFlags().Set("log-level", "debug")
	cmd.PersistentFlags().Set("data-dir", "/test/data")

	if viper.GetString("log.level") != "debug" {
		t.Errorf("Expected log.level to be debug, got %s", viper.GetString("log.level"))
	}
	if DataDir() != "/test/data" {
		t.Errorf("Expected data dir to be /test/data, got %s", DataDir())
	}
}

func TestInitConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantKey string
		wantDir string
	}{
		{
			name:    "from config file",
			content: "api_key: file-key\ndata:\n  dir: /from/file\n",
			wantKey: "file-key",
			wantDir: "/from/file",
		},
		{
			name:    "environment wins",
			content: "api_key: file-key\n",
			env:     map[string]string{"GPTRANSLATE_API_KEY": "env-key", "GPTRANSLATE_DATA_DIR": "/from/env"},
			wantKey: "env-key",
			wantDir: "/from/env",
		},
		{
			name: "neither set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()
			t.Setenv("GPTRANSLATE_API_KEY", "")
			t.Setenv("GPTRANSLATE_DATA_DIR", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfgPath := ""
			if tt.content != "" {
				cfgPath = filepath.Join(t.TempDir(), "prefs.yaml")
				if err := os.WriteFile(cfgPath, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
			} else {
				t.Setenv("HOME", t.TempDir())
			}

			InitConfig(cfgPath)

			if got := GetAPIKey(); got != tt.wantKey {
				t.Errorf("GetAPIKey() = %q, want %q", got, tt.wantKey)
			}
			if got := DataDir(); got != tt.wantDir {
				t.Errorf("DataDir() = %q, want %q", got, tt.wantDir)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLoggerWritesToWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	SetupLogger("warn", &buf)
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %v, want warn", zerolog.GlobalLevel())
	}
}

// runCLI executes args against a processor whose translator talks to up.
func runCLI(t *testing.T, up *testutil.FakeUpstream, dataDir string, stdin string, args ...string) (string, error) {
	t.Helper()

	factory := func(cfg *config.Config, dedup *translation.Deduplicator) (processor.Service, error) {
		provider := translation.OpenAI{APIKey: cfg.ActiveAPIKey(), ModelName: cfg.Model, BaseURL: up.URL()}
		return translation.NewTranslatorForProvider(provider, cfg, dedup), nil
	}
	open := func() *processor.Processor {
		return processor.NewProcessor(processor.Options{DataDir: dataDir, NewService: factory})
	}

	flags := NewFlags()
	root := CreateRootCommand(flags)
	AddCommands(root, flags, open)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	dir := t.TempDir()

	out, err := runCLI(t, up, dir, "", "translate", "God", "morgen")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(out, "[Norwegian -> English]") || !strings.Contains(out, "Good morning") {
		t.Errorf("unexpected output: %q", out)
	}

	body := up.Requests()[0].JSON(t)
	msgs := body["messages"].([]any)
	user := msgs[1].(map[string]any)
	if user["content"] != `Text to translate: "God morgen"` {
		t.Errorf("user content = %v", user["content"])
	}
}

func TestTranslateCommandFromStdinAsJSON(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)

	out, err := runCLI(t, up, t.TempDir(), "God morgen\n", "translate", "--json")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	var resp processor.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.OriginalText != "God morgen\n" || resp.TranslatedText != "Good morning" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTranslateCommandBatch(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	dir := t.TempDir()
	batchFile := filepath.Join(dir, "batch.txt")
	testutil.CreateTestFile(t, batchFile, []byte("# greetings\nGod morgen\n\nHei\n"))

	out, err := runCLI(t, up, dir, "", "translate", "--batch", batchFile, "--json")
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	var results []processor.Response
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(results) != 2 || len(up.Requests()) != 2 {
		t.Errorf("got %d results and %d requests, want 2 each", len(results), len(up.Requests()))
	}
}

func TestTranslateCommandUpstreamError(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	up.Respond(401, `{"error":"bad key"}`)

	_, err := runCLI(t, up, t.TempDir(), "", "translate", "hello")
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestHistoryCommands(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	dir := t.TempDir()

	out, err := runCLI(t, up, dir, "", "history")
	if err != nil || !strings.Contains(out, "No translations yet") {
		t.Fatalf("empty history: %q, %v", out, err)
	}

	for _, text := range []string{"one", "two", "three"} {
		if _, err := runCLI(t, up, dir, "", "translate", text); err != nil {
			t.Fatalf("translate %q: %v", text, err)
		}
	}

	out, err = runCLI(t, up, dir, "", "history", "--limit", "2")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "three") {
		t.Errorf("expected newest two entries, got %q", out)
	}

	out, err = runCLI(t, up, dir, "", "history", "clear", "--archive")
	if err != nil || !strings.Contains(out, "History archived to") {
		t.Fatalf("archive: %q, %v", out, err)
	}
	testutil.AssertFileExists(t, filepath.Join(dir, "archive"))

	out, err = runCLI(t, up, dir, "", "history")
	if err != nil || !strings.Contains(out, "No translations yet") {
		t.Errorf("history after archive: %q, %v", out, err)
	}
}

func TestConfigCommands(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	dir := t.TempDir()

	out, err := runCLI(t, up, dir, "", "config", "path")
	if err != nil || strings.TrimSpace(out) != filepath.Join(dir, "config.json") {
		t.Errorf("config path: %q, %v", out, err)
	}

	if _, err := runCLI(t, up, dir, "", "config", "set", "openai_api_key", "sk-1234567890abcd"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := runCLI(t, up, dir, "", "config", "set", "no_such_field", "x"); err == nil {
		t.Error("expected error for unknown field")
	}

	out, err = runCLI(t, up, dir, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-1234567890abcd") || !strings.Contains(out, "abcd") {
		t.Errorf("key not masked: %s", out)
	}

	raw := testutil.ReadJSONObject(t, filepath.Join(dir, "config.json"))
	if raw["openai_api_key"] != "sk-1234567890abcd" {
		t.Errorf("stored key = %v", raw["openai_api_key"])
	}
}

func TestVersionCommand(t *testing.T) {
	up := testutil.NewFakeUpstream(t, okContent)
	out, err := runCLI(t, up, t.TempDir(), "", "version")
	if err != nil || !strings.HasPrefix(out, "gptranslate ") {
		t.Errorf("version: %q, %v", out, err)
	}
}
