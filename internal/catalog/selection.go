package catalog

import (
	"fmt"

	"DemandCast/internal/domain/models"
)

// Selection is the active forecast filter. Category drives product
// narrowing; Days is one of the supported horizons.
type Selection struct {
	City     string
	Category string
	Product  string
	Days     int
}

// Complete reports whether the selection can be submitted.
func (s Selection) Complete() bool {
	return s.City != "" && s.Category != "" && s.Product != ""
}

// Request derives the wire payload from the selection.
func (s Selection) Request() models.ForecastRequest {
	return models.ForecastRequest{
		ProductCategory: s.Category,
		Product:         s.Product,
		City:            s.City,
		NumDays:         s.Days,
	}
}

// Selection returns a copy of the active selection.
func (l *Loader) Selection() Selection {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selection
}

// SetSelection replaces the whole selection, used when rehydrating state
// from a stored result.
func (l *Loader) SetSelection(s Selection) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = s
}

// SetCity changes the city filter. An empty value clears it.
func (l *Loader) SetCity(city string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if city != "" && l.catalog != nil && !contains(l.catalog.Cities, city) {
		return fmt.Errorf("unknown city %q", city)
	}
	l.selection.City = city
	return nil
}

// SetCategory changes the category filter. The product selection is reset
// because the option set narrows to the new category.
func (l *Loader) SetCategory(category string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if category != "" && l.catalog != nil && !contains(l.catalog.Categories, category) {
		return fmt.Errorf("unknown category %q", category)
	}
	l.selection.Category = category
	l.selection.Product = ""
	return nil
}

// SetProduct changes the product filter; it must be inside the currently
// narrowed option set.
func (l *Loader) SetProduct(product string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if product != "" && l.catalog != nil {
		if !contains(l.catalog.ProductsFor(l.selection.Category), product) {
			return fmt.Errorf("product %q is not available for category %q", product, l.selection.Category)
		}
	}
	l.selection.Product = product
	return nil
}

// SetDays changes the forecast horizon.
func (l *Loader) SetDays(days int) error {
	switch days {
	case 30, 60, 90:
	default:
		return fmt.Errorf("forecast horizon must be 30, 60 or 90 days, got %d", days)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection.Days = days
	return nil
}

// ProductOptions returns the product choices narrowed by the active
// category; the full set when no category is selected.
func (l *Loader) ProductOptions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.catalog == nil {
		return nil
	}
	return l.catalog.ProductsFor(l.selection.Category)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
