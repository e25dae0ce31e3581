package history

import (
	"time"

	"github.com/google/uuid"
)

// MaxEntries is the number of translations kept on disk.
const MaxEntries = 100

// Entry is one completed translation.
type Entry struct {
	ID               string    `json:"id"`
	OriginalText     string    `json:"original_text"`
	TranslatedText   string    `json:"translated_text"`
	DetectedLanguage string    `json:"detected_language"`
	TargetLanguage   string    `json:"target_language"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewEntry stamps a translation with a random id and the current UTC time.
func NewEntry(original, translated, detected, target string) Entry {
	return Entry{
		ID:               uuid.NewString(),
		OriginalText:     original,
		TranslatedText:   translated,
		DetectedLanguage: detected,
		TargetLanguage:   target,
		Timestamp:        time.Now().UTC(),
	}
}

// History is the on-disk document.
type History struct {
	Entries []Entry `json:"entries"`
}

// Add inserts e at the front and evicts the oldest entries beyond MaxEntries.
func (h *History) Add(e Entry) {
	entries := make([]Entry, 0, len(h.Entries)+1)
	entries = append(entries, e)
	entries = append(entries, h.Entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	h.Entries = entries
}
