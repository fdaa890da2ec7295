package insights

import (
	"context"
	"fmt"
	"sort"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/gateway"
	applogger "DemandCast/pkg/logger"
)

// Service fetches the business-insights report and reshapes its chart maps
// into ordered series. The report is read-only and never cached locally; it
// reflects whatever the backend has aggregated at call time.
type Service struct {
	api *gateway.Client
	log *applogger.Logger
}

func NewService(api *gateway.Client, log *applogger.Logger) *Service {
	return &Service{api: api, log: log}
}

// Fetch retrieves the current insights report. A report with neither KPIs
// nor charts is returned as-is; callers use Empty() to render the no-data
// state instead of zeroed aggregates.
func (s *Service) Fetch(ctx context.Context) (*models.Insights, error) {
	res := s.api.Do(ctx, "/insights", nil)
	if !res.Ok() {
		msg := res.DetailMessage("Failed to load insights")
		s.log.Warn("insights fetch failed",
			applogger.Int("status", res.Status),
			applogger.String("detail", msg),
		)
		return nil, fmt.Errorf("insights request failed: %s", msg)
	}

	var report models.Insights
	if err := res.Decode(&report); err != nil {
		return nil, fmt.Errorf("decode insights response: %w", err)
	}
	return &report, nil
}

// Series orders a chart map by value descending for display. Ties break on
// label so repeated renders are stable.
func Series(chart map[string]float64) []models.SeriesPoint {
	points := make([]models.SeriesPoint, 0, len(chart))
	for label, value := range chart {
		points = append(points, models.SeriesPoint{Label: label, Value: value})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})
	return points
}

// ContributionSeries flattens the per-category product contributions into
// one ordered series per category, each sorted by value descending.
func ContributionSeries(contrib map[string]map[string]float64) map[string][]models.SeriesPoint {
	out := make(map[string][]models.SeriesPoint, len(contrib))
	for category, products := range contrib {
		out[category] = Series(products)
	}
	return out
}
