package models

// FeatureCatalog holds the valid filter values the backend currently
// supports. Immutable between loads.
type FeatureCatalog struct {
	// Cities in backend order.
	Cities []string
	// Products maps product name to its category. Every product has a
	// non-empty category.
	Products map[string]string
	// Categories is derived from Products, distinct values in
	// first-occurrence order.
	Categories []string
	// ProductOrder preserves the backend's product iteration order so
	// option lists render deterministically.
	ProductOrder []string
}

// ProductsFor returns the product options for a category. An empty category
// returns the full product set.
func (c *FeatureCatalog) ProductsFor(category string) []string {
	if category == "" {
		return append([]string(nil), c.ProductOrder...)
	}
	var out []string
	for _, p := range c.ProductOrder {
		if c.Products[p] == category {
			out = append(out, p)
		}
	}
	return out
}

// Empty reports whether the catalog has no usable options.
func (c *FeatureCatalog) Empty() bool {
	return c == nil || (len(c.Cities) == 0 && len(c.Products) == 0)
}
