// Package market resolves free-text primary-market strings into structured
// work locations: the country whose taxes apply, the city whose living costs
// apply, and the US state when relevant.
package market

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anahmed/career-forecast/internal/refdata"
	"go.uber.org/zap"
)

// relocSuffix marks strings where graduates relocate to the last-listed
// market, e.g. "Canada / USA (reloc)".
const relocSuffix = "(reloc)"

// Resolver maps primary-market strings to locations using the snapshot's
// mapping table, the documented compound-string rules, and the US region
// keyword lookup. It never guesses silently: an unrecognized string fails
// with ErrUnresolvedMarket and callers decide how to proceed.
type Resolver struct {
	snap   *refdata.Snapshot
	logger *zap.Logger
}

// NewResolver returns a Resolver bound to the given snapshot.
func NewResolver(logger *zap.Logger, snap *refdata.Snapshot) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{snap: snap, logger: logger}
}

// Resolve returns the work location for a primary-market string. salaryK,
// when positive, disambiguates dual-location strings whose mapping carries a
// salary threshold: at or above the threshold the alternate (higher-salary)
// location wins, otherwise the first-listed one does.
func (r *Resolver) Resolve(primaryMarket string, salaryK float64) (refdata.Location, error) {
	raw := strings.TrimSpace(primaryMarket)
	if raw == "" {
		return refdata.Location{}, fmt.Errorf("empty primary market: %w", refdata.ErrUnresolvedMarket)
	}

	if m, ok := r.snap.Markets[raw]; ok {
		return r.fromMapping(m, salaryK), nil
	}

	// Relocation-contingent strings resolve to the destination, the
	// last-listed market.
	if stripped, ok := strings.CutSuffix(raw, relocSuffix); ok {
		parts := strings.Split(strings.TrimSpace(stripped), "/")
		destination := strings.TrimSpace(parts[len(parts)-1])
		loc, err := r.Resolve(destination, salaryK)
		if err != nil {
			return refdata.Location{}, fmt.Errorf("relocation market %q: %w", raw, err)
		}
		return loc, nil
	}

	// Dual-location strings without an explicit mapping default to the
	// first-listed market; there is no threshold to apply.
	if strings.Contains(raw, "/") {
		first := strings.TrimSpace(strings.SplitN(raw, "/", 2)[0])
		loc, err := r.Resolve(first, salaryK)
		if err != nil {
			return refdata.Location{}, fmt.Errorf("dual market %q: %w", raw, err)
		}
		return loc, nil
	}

	// US region keywords resolve the state even when the mapping layer only
	// knows "USA", e.g. "USA (Bay Area)" or "Seattle tech market". Keywords
	// are scanned longest-first so the most specific match wins
	// deterministically.
	lower := strings.ToLower(raw)
	if region, ok := r.matchRegion(lower); ok {
		return refdata.Location{
			Country: refdata.CountryUSA,
			City:    region.DisplayCity,
			USState: region.StateCode,
		}, nil
	}

	// Bare country names resolve to the country's default city.
	if _, ok := r.snap.Rules[raw]; ok {
		return refdata.Location{
			Country: raw,
			City:    r.snap.DefaultCities[raw],
		}, nil
	}

	return refdata.Location{}, fmt.Errorf("primary market %q: %w", raw, refdata.ErrUnresolvedMarket)
}

func (r *Resolver) matchRegion(lower string) (refdata.RegionState, bool) {
	keywords := make([]string, 0, len(r.snap.USRegions))
	for keyword := range r.snap.USRegions {
		keywords = append(keywords, keyword)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return r.snap.USRegions[keyword], true
		}
	}
	return refdata.RegionState{}, false
}

func (r *Resolver) fromMapping(m refdata.MarketMapping, salaryK float64) refdata.Location {
	if m.Alt != nil && m.SalaryThresholdK > 0 && salaryK >= m.SalaryThresholdK {
		r.logger.Debug("salary threshold selects alternate market",
			zap.String("op", "market.Resolver.Resolve"),
			zap.String("market", m.Raw),
			zap.Float64("salaryK", salaryK),
			zap.Float64("thresholdK", m.SalaryThresholdK),
		)
		return *m.Alt
	}
	return m.Primary
}
