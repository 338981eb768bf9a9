// Package tax computes net-of-tax annual income from progressive bracket
// tables and flat social contributions held in the reference snapshot.
//
// All country-specific behavior is data: a country is its bracket tables,
// scope deductions, and social contributions, evaluated by one generic
// routine. Only the USA gets structural special-casing, for its
// federal/state/city scope stack.
package tax

import (
	"fmt"
	"math"

	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Calculator computes after-tax income against one immutable snapshot.
type Calculator struct {
	snap   *refdata.Snapshot
	logger *zap.Logger
}

// NewCalculator returns a Calculator bound to the given snapshot.
func NewCalculator(logger *zap.Logger, snap *refdata.Snapshot) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{snap: snap, logger: logger}
}

// NetIncome returns the annual after-tax income in USD thousands for a gross
// annual income in USD thousands earned at loc. The returned notes record
// any documented fallback taken (currently: USA with no state resolves
// federal-only). An unknown work country fails with ErrUnknownJurisdiction.
//
// Intermediate arithmetic stays in full USD floating point; the only
// rounding is done by callers on final output.
func (c *Calculator) NetIncome(grossK float64, loc refdata.Location) (float64, []string, error) {
	rule, ok := c.snap.Rules[loc.Country]
	if !ok {
		return 0, nil, fmt.Errorf("work country %q: %w", loc.Country, refdata.ErrUnknownJurisdiction)
	}

	gross := grossK * constants.ThousandsPerUnit
	if gross <= 0 {
		return 0, nil, nil
	}

	var tax float64
	var notes []string
	if loc.Country == refdata.CountryUSA {
		tax, notes = c.usTax(gross, loc, rule)
	} else {
		tax = c.countryTax(gross, loc.Country, rule)
	}

	net := math.Max(0, gross-tax)
	return net / constants.ThousandsPerUnit, notes, nil
}

// EffectiveRate returns the effective tax rate as a decimal in [0,1).
func (c *Calculator) EffectiveRate(grossK float64, loc refdata.Location) (float64, error) {
	if grossK <= 0 {
		return 0, nil
	}
	netK, _, err := c.NetIncome(grossK, loc)
	if err != nil {
		return 0, err
	}
	return 1 - netK/grossK, nil
}

// countryTax evaluates a non-US country: national brackets over income net
// of the national standard deduction, plus the rule's social contributions.
func (c *Calculator) countryTax(gross float64, country string, rule refdata.TaxRule) float64 {
	taxable := math.Max(0, gross-rule.DeductionsUSD[refdata.ScopeNational])
	tax := progressiveTax(taxable, c.snap.BracketsFor(country, refdata.ScopeNational))
	tax += socialTax(gross, rule.Social)
	return tax
}

// usTax stacks federal brackets, state brackets (with the state's own
// deduction), city brackets where configured, and the FICA-style
// contributions carried on the USA rule. A missing state is the documented
// federal-only fallback, recorded as a note rather than an error.
func (c *Calculator) usTax(gross float64, loc refdata.Location, rule refdata.TaxRule) (float64, []string) {
	var notes []string

	taxableFederal := math.Max(0, gross-rule.DeductionsUSD[refdata.ScopeNational])
	tax := progressiveTax(taxableFederal, c.snap.BracketsFor(refdata.CountryUSA, refdata.ScopeNational))

	if loc.USState == "" {
		notes = append(notes, "no US state resolved; applying federal tax only")
		c.logger.Debug("missing US state, using federal-only tax",
			zap.String("op", "tax.Calculator.usTax"),
			zap.String("city", loc.City),
		)
	} else {
		stateScope := refdata.StateScope(loc.USState)
		taxableState := math.Max(0, gross-rule.DeductionsUSD[stateScope])
		// A state with no bracket table (e.g. TX, WA) contributes zero.
		tax += progressiveTax(taxableState, c.snap.BracketsFor(refdata.CountryUSA, stateScope))

		if cityBrackets := c.snap.BracketsFor(refdata.CountryUSA, refdata.CityScope(loc.City)); len(cityBrackets) > 0 {
			tax += progressiveTax(taxableState, cityBrackets)
		}
	}

	tax += socialTax(gross, rule.Social)
	return tax, notes
}

// progressiveTax applies an ordered bracket table: income inside each
// bracket is taxed at that bracket's marginal rate, and income above the
// top finite threshold at the top rate indefinitely.
func progressiveTax(gross float64, brackets []refdata.Bracket) float64 {
	tax := 0.0
	prev := 0.0
	for _, b := range brackets {
		if gross <= prev {
			break
		}
		upper := b.UpperUSD
		if math.IsInf(upper, 1) {
			upper = gross
		}
		if taxable := math.Min(gross, upper) - prev; taxable > 0 {
			tax += taxable * b.Rate
		}
		prev = upper
	}
	return tax
}

// socialTax sums the flat contributions: rate times gross clipped to the
// cap (when set) and reduced by the floor (when set).
func socialTax(gross float64, contributions []refdata.SocialContribution) float64 {
	total := 0.0
	for _, sc := range contributions {
		base := gross
		if sc.CapUSD > 0 {
			base = math.Min(base, sc.CapUSD)
		}
		if sc.FloorUSD > 0 {
			base = math.Max(0, base-sc.FloorUSD)
		}
		total += base * sc.Rate
	}
	return total
}
