package translation

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/gptranslate/internal/config"
)

const (
	unknownLanguage   = "unknown"
	translationFailed = "translation failed"
)

// Result is the outcome of one translation.
type Result struct {
	DetectedLanguage string `json:"detected_language"`
	TranslatedText   string `json:"translated_text"`
}

// ParseContent extracts a Result from the assistant message. Content that
// is not the requested JSON object is tried as JSON embedded in prose and
// finally passed through as plain text; it never fails.
func ParseContent(content string) Result {
	cleaned := stripControl(content)
	if cleaned != content {
		log.Warn().Msg("removed control characters from API response")
	}

	doc, ok := parseResponseDocument(cleaned)
	if !ok {
		return Result{DetectedLanguage: unknownLanguage, TranslatedText: cleaned}
	}

	return Result{
		DetectedLanguage: detectedLanguage(doc),
		TranslatedText:   translatedText(doc),
	}
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func parseResponseDocument(content string) (config.Value, bool) {
	doc, err := config.ParseDocument([]byte(content))
	if err == nil {
		return doc, true
	}
	log.Debug().Err(err).Msg("response is not plain JSON, scanning for an object")

	obj, found := firstObject(content)
	if !found {
		log.Warn().Msg("no JSON object found in response")
		return config.Value{}, false
	}
	doc, err = config.ParseDocument([]byte(obj))
	if err != nil {
		log.Warn().Err(err).Msg("embedded JSON object does not parse")
		return config.Value{}, false
	}
	return doc, true
}

// firstObject returns the text from the first '{' up to its matching '}'.
// Braces inside strings are counted too.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func detectedLanguage(doc config.Value) string {
	if v, ok := doc.Get("detected_language"); ok {
		if s, ok := v.AsString(); ok && s != "" {
			return s
		}
	}

	// Some models wrap the answer, e.g. {"result": {"detected_language": ...}}.
	for _, key := range doc.Keys() {
		nested, _ := doc.Get(key)
		if v, ok := nested.Get("detected_language"); ok {
			if s, ok := v.AsString(); ok && s != "" {
				return s
			}
		}
	}
	return unknownLanguage
}

func translatedText(doc config.Value) string {
	if v, ok := doc.Get("translated_text"); ok {
		if s, ok := v.AsString(); ok {
			return s
		}
	}
	if s, ok := doc.AsString(); ok {
		return s
	}
	return translationFailed
}
