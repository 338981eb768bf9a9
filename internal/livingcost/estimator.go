// Package livingcost resolves annual living costs by location, household
// profile, and lifestyle tier, falling back from city to country-level data.
package livingcost

import (
	"fmt"

	"github.com/anahmed/career-forecast/internal/refdata"
	"go.uber.org/zap"
)

// Estimator answers cost lookups against one immutable snapshot.
type Estimator struct {
	snap   *refdata.Snapshot
	logger *zap.Logger
}

// NewEstimator returns an Estimator bound to the given snapshot.
func NewEstimator(logger *zap.Logger, snap *refdata.Snapshot) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{snap: snap, logger: logger}
}

// AnnualCost returns the annual living cost in USD thousands for a city and
// household profile at the given lifestyle tier. Each fallback step taken is
// recorded in the returned trail so silent behavior differences stay
// testable: exact city entry, then the country's default city, then a
// country-level entry. When the whole chain misses, the lookup fails with
// ErrNoCostData naming the keys tried.
//
// An empty city skips straight to the country fallbacks, which is how
// study-phase costs are looked up by university country.
func (e *Estimator) AnnualCost(city, country string, profile refdata.Profile, tier refdata.Lifestyle) (float64, []string, error) {
	var trail []string

	if city != "" {
		if cost, ok := e.snap.CostFor(city, profile, tier); ok {
			return cost, nil, nil
		}
		trail = append(trail, fmt.Sprintf("no cost entry for city %q", city))
	}

	if country != "" {
		if defaultCity, ok := e.snap.DefaultCities[country]; ok && defaultCity != city {
			if cost, ok := e.snap.CostFor(defaultCity, profile, tier); ok {
				trail = append(trail, fmt.Sprintf("using default city %q for country %q", defaultCity, country))
				e.logger.Debug("living cost resolved via country default city",
					zap.String("op", "livingcost.Estimator.AnnualCost"),
					zap.String("city", city),
					zap.String("defaultCity", defaultCity),
					zap.String("country", country),
				)
				return cost, trail, nil
			}
		}

		if cost, ok := e.snap.CostFor(country, profile, tier); ok {
			trail = append(trail, fmt.Sprintf("using country-level entry for %q", country))
			return cost, trail, nil
		}
	}

	return 0, trail, fmt.Errorf("city %q country %q profile %q tier %q: %w",
		city, country, profile, tier, refdata.ErrNoCostData)
}
