package forecast

import (
	"encoding/json"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/store"
)

// CanonicalKey serializes a request deterministically. Struct field order is
// fixed, so two selections describing the same request always collide.
func CanonicalKey(req models.ForecastRequest) string {
	b, _ := json.Marshal(req)
	return string(b)
}

// CacheKey is the durable-store key for one canonical request.
func CacheKey(req models.ForecastRequest) string {
	return store.ForecastKeyPrefix + CanonicalKey(req)
}
