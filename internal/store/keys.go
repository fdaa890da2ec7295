// Package store names the durable client-state keys. The same fixed names
// the product has always used; changing them orphans existing state.
package store

const (
	// KeyAuthToken holds the bearer token across restarts.
	KeyAuthToken = "auth_token"
	// KeyLastForecast is the most recent forecast result slot.
	KeyLastForecast = "lastForecastResult"
	// KeyRecentForecasts is the bounded recent-history list.
	KeyRecentForecasts = "recentForecasts"
	// ForecastKeyPrefix prefixes one cache entry per canonical request.
	ForecastKeyPrefix = "forecast:req:"
)
