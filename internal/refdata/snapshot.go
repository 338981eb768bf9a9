package refdata

import (
	"fmt"
	"math"
	"sort"
)

// Snapshot is the complete reference-data set: exchange rates, tax rules and
// bracket tables, living costs, market mappings, and the program catalog.
// All monetary thresholds are already converted to USD at load time using
// the exchange rates, so the projection modules never touch local currency.
type Snapshot struct {
	// Rates maps a currency code to its rate per 1 USD.
	Rates map[string]float64

	// Brackets holds ordered bracket tables keyed by (country, scope).
	Brackets map[BracketKey][]Bracket

	// Rules holds the per-country tax rule descriptors.
	Rules map[string]TaxRule

	// Costs holds annual living costs in USD thousands.
	Costs map[CostKey]float64

	// DefaultCities maps a country to the city used when a resolved city
	// has no direct cost entry.
	DefaultCities map[string]string

	// Markets maps raw primary-market strings to resolved locations.
	Markets map[string]MarketMapping

	// USRegions maps lowercase region keywords to their state and city.
	USRegions map[string]RegionState

	// Programs is the full program catalog, ordered by id ascending.
	Programs []Program

	byID map[int64]*Program
}

// Finalize sorts the program catalog, builds the id index, and validates the
// data set. It must be called exactly once, by the loader, before the
// snapshot is shared.
func (s *Snapshot) Finalize() error {
	sort.Slice(s.Programs, func(i, j int) bool { return s.Programs[i].ID < s.Programs[j].ID })
	s.byID = make(map[int64]*Program, len(s.Programs))
	for i := range s.Programs {
		s.byID[s.Programs[i].ID] = &s.Programs[i]
	}
	return s.validate()
}

// ProgramByID returns the program with the given id.
func (s *Snapshot) ProgramByID(id int64) (*Program, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("program %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// BracketsFor returns the ordered bracket table for a (country, scope) pair,
// or nil when none is configured. A missing table means zero tax for that
// scope, not an error; jurisdiction existence is checked against Rules.
func (s *Snapshot) BracketsFor(country, scope string) []Bracket {
	return s.Brackets[BracketKey{Country: country, Scope: scope}]
}

// CostFor returns the living-cost entry for an exact key.
func (s *Snapshot) CostFor(location string, profile Profile, tier Lifestyle) (float64, bool) {
	c, ok := s.Costs[CostKey{Location: location, Profile: profile, Tier: tier}]
	return c, ok
}

// validate applies the data-quality checks: bracket tables must be
// contiguous and ascending with at most one unbounded top bracket, every
// comfortable cost must be at least its frugal counterpart, every exchange
// rate must be positive, and every market-mapped work country must have a
// tax rule.
func (s *Snapshot) validate() error {
	for currency, rate := range s.Rates {
		if rate <= 0 {
			return fmt.Errorf("exchange rate for %s must be positive, got %v", currency, rate)
		}
	}

	for key, brackets := range s.Brackets {
		prev := 0.0
		for i, b := range brackets {
			if b.Rate < 0 || b.Rate >= 1 {
				return fmt.Errorf("bracket %d for %s/%s has rate %v outside [0,1)", i, key.Country, key.Scope, b.Rate)
			}
			if math.IsInf(b.UpperUSD, 1) {
				if i != len(brackets)-1 {
					return fmt.Errorf("bracket %d for %s/%s is unbounded but not last", i, key.Country, key.Scope)
				}
				continue
			}
			if b.UpperUSD <= prev {
				return fmt.Errorf("bracket %d for %s/%s has threshold %v not above previous %v",
					i, key.Country, key.Scope, b.UpperUSD, prev)
			}
			prev = b.UpperUSD
		}
	}

	for key, frugal := range s.Costs {
		if key.Tier != LifestyleFrugal {
			continue
		}
		comfortKey := key
		comfortKey.Tier = LifestyleComfortable
		if comfort, ok := s.Costs[comfortKey]; ok && comfort < frugal {
			return fmt.Errorf("comfortable cost %v below frugal cost %v for %s/%s",
				comfort, frugal, key.Location, key.Profile)
		}
	}

	for raw, m := range s.Markets {
		locations := []Location{m.Primary}
		if m.Alt != nil {
			locations = append(locations, *m.Alt)
		}
		for _, loc := range locations {
			if _, ok := s.Rules[loc.Country]; !ok {
				return fmt.Errorf("market %q resolves to country %q with no tax rule", raw, loc.Country)
			}
		}
	}

	return nil
}
