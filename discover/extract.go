package discover

import (
	"strings"

	"github.com/RichardMcSorley/aisle"
)

// ExtractCategories returns the category keys attached to products, in
// first-seen order. Duplicate and empty keys are dropped.
func ExtractCategories(products []aisle.Product) []aisle.CategoryKey {
	var keys []aisle.CategoryKey
	seen := make(map[aisle.CategoryKey]struct{})
	for _, p := range products {
		for _, key := range p.Categories {
			key = aisle.CategoryKey(strings.TrimSpace(string(key)))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
