package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	dirName  = ".gptranslate"
	fileName = "config.json"
)

// DefaultDir returns ~/.gptranslate, the per-user data directory shared by
// the config and history files.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Store loads and saves config.json inside a data directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the location of config.json.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Load reads the configuration, migrating older layouts forward. It always
// returns a usable configuration; a non-nil error reports a read or write
// failure after which defaults were returned.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", s.Path()).Msg("no config file, writing defaults")
		return s.saveDefaults()
	}
	if err != nil {
		return Defaults(), fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := decodeStrict(data)
	if err == nil {
		return cfg, nil
	}
	log.Warn().Err(err).Str("path", s.Path()).Msg("config does not match current layout, migrating")

	cfg, err = migrate(data)
	if err != nil {
		log.Warn().Err(err).Msg("config migration failed, falling back to defaults")
		return s.saveDefaults()
	}
	if err := s.save(cfg); err != nil {
		return cfg, err
	}
	log.Info().Str("path", s.Path()).Msg("config migrated")
	return cfg, nil
}

// Save writes cfg as pretty-printed JSON.
func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

func (s *Store) save(cfg *Config) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// The file holds API keys.
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (s *Store) saveDefaults() (*Config, error) {
	cfg := Defaults()
	if err := s.save(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// migrate rewrites an old or partial config document into the current
// layout.
func migrate(data []byte) (*Config, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != KindObject {
		return nil, fmt.Errorf("config document is a %s, not an object", doc.Kind())
	}

	if !doc.Has("custom_prompt") {
		doc.Set("custom_prompt", String(DefaultPrompt))
	}
	if !doc.Has("alternative_target_language") {
		doc.Set("alternative_target_language", String(DefaultAlternative))
	}
	if model, ok := doc.Get("model"); !ok {
		doc.Set("model", String(DefaultModel))
	} else if s, _ := model.AsString(); s == deprecatedModel {
		doc.Set("model", String(DefaultModel))
	}
	doc.Delete("source_language")
	if target, ok := doc.Get("target_language"); !ok {
		doc.Set("target_language", String(DefaultTargetLanguage))
	} else if s, _ := target.AsString(); s == "auto" {
		doc.Set("target_language", String(DefaultTargetLanguage))
	}

	defaults, err := toDocument(Defaults())
	if err != nil {
		return nil, err
	}
	for _, key := range defaults.Keys() {
		if !doc.Has(key) {
			v, _ := defaults.Get(key)
			doc.Set(key, v)
		}
	}

	migrated, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode migrated config: %w", err)
	}
	return decodeStrict(migrated)
}

// decodeStrict accepts data only if every Config field is present and
// non-null, so partially written files go through the migration.
func decodeStrict(data []byte) (*Config, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != KindObject {
		return nil, fmt.Errorf("config document is a %s, not an object", doc.Kind())
	}

	var missing []string
	for _, name := range fieldNames() {
		if v, ok := doc.Get(name); !ok || v.IsNull() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing config fields: %s", strings.Join(missing, ", "))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func toDocument(cfg *Config) (Value, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return Value{}, fmt.Errorf("encode config: %w", err)
	}
	return ParseDocument(data)
}

// fieldNames lists the JSON names of all Config fields.
func fieldNames() []string {
	t := reflect.TypeOf(Config{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}
