package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/gateway"
	applogger "DemandCast/pkg/logger"
)

// Loader fetches the valid {city, category, product} option sets and owns
// the active filter selection they narrow.
type Loader struct {
	mu          sync.RWMutex
	api         *gateway.Client
	log         *applogger.Logger
	defaultDays int

	catalog   *models.FeatureCatalog
	selection Selection
}

// NewLoader creates a catalog loader. defaultDays seeds the horizon of fresh
// selections.
func NewLoader(api *gateway.Client, defaultDays int, log *applogger.Logger) *Loader {
	if defaultDays == 0 {
		defaultDays = 30
	}
	return &Loader{
		api:         api,
		log:         log,
		defaultDays: defaultDays,
		selection:   Selection{Days: defaultDays},
	}
}

// Load issues one authenticated GET for the feature sets. On success it
// replaces the catalog and seeds a default selection; on failure the prior
// state stays untouched.
func (l *Loader) Load(ctx context.Context) error {
	res := l.api.Do(ctx, "/feature/features", nil)
	if !res.Ok() {
		err := fmt.Errorf("features fetch failed: %s", res.DetailMessage("unknown error"))
		l.log.Error("feature catalog load failed", applogger.Int("status", res.Status), applogger.Error(err))
		return err
	}

	catalog, err := decodeCatalog(res.Data)
	if err != nil {
		l.log.Error("feature catalog malformed", applogger.Error(err))
		return err
	}

	l.mu.Lock()
	l.catalog = catalog
	l.seedDefaultsLocked()
	l.mu.Unlock()

	l.log.Info("feature catalog loaded",
		applogger.Int("cities", len(catalog.Cities)),
		applogger.Int("products", len(catalog.Products)),
		applogger.Int("categories", len(catalog.Categories)),
	)
	return nil
}

// Catalog returns the current catalog, nil before the first successful load.
func (l *Loader) Catalog() *models.FeatureCatalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog
}

// seedDefaultsLocked picks the first category and its first product so a
// fresh selection starts on something the backend accepts. A selection that
// already carries a category (restored from a previous run) is left alone.
func (l *Loader) seedDefaultsLocked() {
	if l.catalog.Empty() {
		return
	}
	if l.selection.Category == "" && len(l.catalog.Categories) > 0 {
		cat := l.catalog.Categories[0]
		l.selection.Category = cat
		if products := l.catalog.ProductsFor(cat); len(products) > 0 {
			l.selection.Product = products[0]
		}
	}
	if l.selection.Days == 0 {
		l.selection.Days = l.defaultDays
	}
}

// featuresEnvelope matches the /feature/features body, keeping the product
// mapping raw so key order can be preserved.
type featuresEnvelope struct {
	City    []string        `json:"city"`
	Product json.RawMessage `json:"product"`
}

func decodeCatalog(data []byte) (*models.FeatureCatalog, error) {
	var env featuresEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}

	order, mapping, err := decodeOrderedMap(env.Product)
	if err != nil {
		return nil, fmt.Errorf("decode product mapping: %w", err)
	}

	// Categories are distinct mapping values in first-occurrence order.
	var categories []string
	seen := make(map[string]bool)
	for _, p := range order {
		cat := mapping[p]
		if cat == "" {
			return nil, fmt.Errorf("product %q has no category", p)
		}
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}

	return &models.FeatureCatalog{
		Cities:       env.City,
		Products:     mapping,
		Categories:   categories,
		ProductOrder: order,
	}, nil
}

// decodeOrderedMap walks the JSON object token by token; encoding/json maps
// would scramble the backend's key order.
func decodeOrderedMap(raw json.RawMessage) ([]string, map[string]string, error) {
	mapping := make(map[string]string)
	if len(raw) == 0 {
		return nil, mapping, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, dup := mapping[key]; !dup {
			order = append(order, key)
		}
		mapping[key] = value
	}
	return order, mapping, nil
}
