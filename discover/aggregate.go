package discover

import (
	"github.com/RichardMcSorley/aisle"
	"github.com/elliotchance/orderedmap/v2"
)

// Aggregator collects unique products in discovery order, deduplicating by
// product ID. It is not safe for concurrent use.
type Aggregator struct {
	products *orderedmap.OrderedMap[string, aisle.Product]
	policy   aisle.DedupPolicy
	cap      int
	repeats  int
	changed  int
}

// NewAggregator creates an Aggregator holding at most maxProducts unique
// products. Duplicates are resolved by policy.
func NewAggregator(maxProducts int, policy aisle.DedupPolicy) *Aggregator {
	return &Aggregator{
		products: orderedmap.NewOrderedMap[string, aisle.Product](),
		policy:   policy,
		cap:      maxProducts,
	}
}

// Merge folds a batch into the collection and returns the products that
// were new. Products with empty IDs are dropped. Once the collection is
// full no new products are admitted, but duplicates of held products are
// still counted and, under keep-latest, still refresh the held copy.
func (a *Aggregator) Merge(batch []aisle.Product) []aisle.Product {
	var added []aisle.Product
	for _, p := range batch {
		if p.ID == "" {
			continue
		}
		if existing, ok := a.products.Get(p.ID); ok {
			if aisle.Fingerprint(existing) == aisle.Fingerprint(p) {
				a.repeats++
			} else {
				a.changed++
			}
			if a.policy == aisle.DedupKeepLatest {
				// Set on an existing key keeps its insertion position
				a.products.Set(p.ID, p)
			}
			continue
		}
		if a.Full() {
			continue
		}
		a.products.Set(p.ID, p)
		added = append(added, p)
	}
	return added
}

// Replace swaps the held copy of a product for an enriched one. Returns
// false if the product is not in the collection. Unlike Merge it does not
// touch the duplicate counters.
func (a *Aggregator) Replace(p aisle.Product) bool {
	if _, ok := a.products.Get(p.ID); !ok {
		return false
	}
	a.products.Set(p.ID, p)
	return true
}

// Full reports whether the collection reached its product cap.
func (a *Aggregator) Full() bool {
	return a.cap > 0 && a.products.Len() >= a.cap
}

// Len returns the number of unique products collected.
func (a *Aggregator) Len() int {
	return a.products.Len()
}

// Products returns the collected products in discovery order.
func (a *Aggregator) Products() []aisle.Product {
	out := make([]aisle.Product, 0, a.products.Len())
	for el := a.products.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// DupStats returns how many duplicates repeated an identical record and how
// many arrived with changed fields.
func (a *Aggregator) DupStats() (repeats, changed int) {
	return a.repeats, a.changed
}
