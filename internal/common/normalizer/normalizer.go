package normalizer

import (
	"fmt"
	"html"
	"strings"

	"github.com/project-tktt/job-insight/internal/domain"
)

// Normalizer converts raw CSV rows into typed records.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Setter is implemented by every record the normalizer can fill.
type Setter interface {
	SetField(name, value string) bool
}

// Listing maps a raw row from the primary source.
func (n *Normalizer) Listing(raw *domain.RawRecord) (*domain.Listing, error) {
	if raw.Source != string(domain.SourceListing) {
		return nil, fmt.Errorf("unexpected source %q for listing", raw.Source)
	}
	l := &domain.Listing{}
	if err := n.fill(l, raw, domain.ListingFields); err != nil {
		return nil, err
	}
	return l, nil
}

// Posting maps a raw row from the secondary source.
func (n *Normalizer) Posting(raw *domain.RawRecord) (*domain.Posting, error) {
	if raw.Source != string(domain.SourcePosting) {
		return nil, fmt.Errorf("unexpected source %q for posting", raw.Source)
	}
	p := &domain.Posting{}
	if err := n.fill(p, raw, domain.PostingFields); err != nil {
		return nil, err
	}
	return p, nil
}

func (n *Normalizer) fill(rec Setter, raw *domain.RawRecord, fields []string) error {
	if len(raw.Columns) == 0 {
		return fmt.Errorf("record %s has no columns", raw.ID)
	}
	for _, f := range fields {
		rec.SetField(f, getString(raw.Columns, f))
	}
	// Rows without an id column are keyed by the loader.
	if getString(raw.Columns, "id") == "" {
		rec.SetField("id", raw.ID)
	}
	return nil
}

// getString returns the first non-blank column among keys, trimmed and with
// HTML entities decoded.
func getString(cols map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(cols[key]); v != "" {
			return html.UnescapeString(v)
		}
	}
	return ""
}
