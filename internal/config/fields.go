package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Fields returns the JSON field names that SetField accepts.
func Fields() []string {
	return fieldNames()
}

// SetField returns a copy of cfg with the named field replaced by value.
// Boolean fields accept anything strconv.ParseBool does.
func SetField(cfg *Config, name, value string) (*Config, error) {
	doc, err := toDocument(cfg)
	if err != nil {
		return nil, err
	}

	current, ok := doc.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown config field %q", name)
	}

	switch current.Kind() {
	case KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("field %s expects true or false: %w", name, err)
		}
		doc.Set(name, Bool(b))
	case KindString:
		doc.Set(name, String(value))
	default:
		return nil, fmt.Errorf("field %s has unsupported kind %s", name, current.Kind())
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	updated, err := decodeStrict(data)
	if err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return updated, nil
}
