package models

// KPIs are the headline aggregates.
type KPIs struct {
	TotalSales   float64 `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// InsightCharts are the precomputed aggregate charts.
type InsightCharts struct {
	TopCategories               map[string]float64            `json:"top_categories"`
	TopCities                   map[string]float64            `json:"top_cities"`
	TopProducts                 map[string]float64            `json:"top_products"`
	CategoryProductContribution map[string]map[string]float64 `json:"category_product_contribution"`
}

// Insights is the /insights response.
type Insights struct {
	KPIs      *KPIs          `json:"kpis,omitempty"`
	Charts    *InsightCharts `json:"charts,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	ID        string         `json:"id,omitempty"`
}

// Empty distinguishes "no data yet" from a populated report.
func (i *Insights) Empty() bool {
	return i == nil || (i.KPIs == nil && i.Charts == nil)
}

// SeriesPoint is one labelled value in an ordered chart series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
