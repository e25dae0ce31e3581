package translation

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	duplicateWindow = 500 * time.Millisecond
	fingerprintTTL  = 5 * time.Second
	prefixRunes     = 50
)

// Deduplicator remembers texts that are currently being translated so that
// a hotkey firing twice does not cost two API calls. Create one per process
// and share it between translators.
type Deduplicator struct {
	mu       sync.Mutex
	inFlight map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		inFlight: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Fingerprint derives the dedup key of text: its byte length followed by
// its first 50 characters. Different texts of equal length sharing that
// prefix collide.
func Fingerprint(text string) string {
	prefix := text
	n := 0
	for i := range text {
		if n == prefixRunes {
			prefix = text[:i]
			break
		}
		n++
	}
	return fmt.Sprintf("%d-%s", len(text), prefix)
}

// CheckAndRegister prunes stale records and registers text. It returns
// false if the same fingerprint was registered less than 500ms ago.
func (d *Deduplicator) CheckAndRegister(text string) (string, bool) {
	fp := Fingerprint(text)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, at := range d.inFlight {
		if now.Sub(at) >= fingerprintTTL {
			delete(d.inFlight, k)
		}
	}

	if at, ok := d.inFlight[fp]; ok && now.Sub(at) < duplicateWindow {
		log.Info().Msg("duplicate translation request within 500ms, skipping API call")
		return fp, false
	}
	d.inFlight[fp] = now
	return fp, true
}

// Release forgets fp once its request has completed.
func (d *Deduplicator) Release(fp string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, fp)
}

// Len returns the number of tracked fingerprints.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inFlight)
}
