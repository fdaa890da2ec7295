package models

// Prediction is one forecasted day, as returned by the backend. Order within
// a result is the backend's order (date ascending); it is never re-sorted.
type Prediction struct {
	Date                  string  `json:"date"`
	PredictedQuantitySold float64 `json:"predicted_quantity_sold"`
}

// ForecastRequest is the prediction payload. Field names match the wire
// format exactly; the canonical cache key is derived from this struct.
type ForecastRequest struct {
	ProductCategory string `json:"product_category"`
	Product         string `json:"product"`
	City            string `json:"city"`
	NumDays         int    `json:"num_days"`
}

// ForecastResult is a completed prediction for one request.
type ForecastResult struct {
	City            string       `json:"city"`
	Product         string       `json:"product"`
	ProductCategory string       `json:"product_category"`
	Predictions     []Prediction `json:"predictions"`
}

// TotalPredicted sums the predicted quantities over the whole horizon.
func (r *ForecastResult) TotalPredicted() float64 {
	var total float64
	for _, p := range r.Predictions {
		total += p.PredictedQuantitySold
	}
	return total
}

// AverageDaily is the mean predicted quantity per day. Zero-length prediction
// sequences yield 0 rather than dividing by zero.
func (r *ForecastResult) AverageDaily() float64 {
	if len(r.Predictions) == 0 {
		return 0
	}
	return r.TotalPredicted() / float64(len(r.Predictions))
}
