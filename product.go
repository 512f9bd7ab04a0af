package aisle

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// CategoryKey identifies a category a source attaches to its products. Keys
// are opaque source-side identifiers, not display names.
type CategoryKey string

// Product represents a single catalog entry discovered during a run.
type Product struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	URL        string         `json:"url,omitempty"`
	Price      string         `json:"price,omitempty"`
	Categories []CategoryKey  `json:"categories,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// Validate returns an error if the product contains invalid fields.
func (p Product) Validate() error {
	if p.ID == "" {
		return Errorf(EINVALID, "product ID required")
	}
	return nil
}

// Fingerprint returns a stable content hash for a product. Two products with
// identical fields share a fingerprint, so a changed fingerprint for the
// same ID means the source updated the record.
func Fingerprint(p Product) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", xxhash.Sum64(b))
}
