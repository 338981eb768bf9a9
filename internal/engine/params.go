package engine

import (
	"fmt"

	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/pkg/constants"
)

// AidScenario selects how financial aid is applied to tuition.
type AidScenario string

const (
	// AidNone charges full sticker-price tuition.
	AidNone AidScenario = "no_aid"

	// AidExpected subtracts the expected aid estimate.
	AidExpected AidScenario = "expected"

	// AidBestCase subtracts the best-case aid estimate.
	AidBestCase AidScenario = "best_case"
)

// Valid reports whether the scenario is one of the supported values.
func (a AidScenario) Valid() bool {
	return a == AidNone || a == AidExpected || a == AidBestCase
}

// Params are the query-time knobs of a projection. Violations of the
// documented ranges fail with ErrInvalidParameter; nothing is ever clamped
// silently.
type Params struct {
	Lifestyle refdata.Lifestyle `json:"lifestyle"`

	// FamilyYear is the employment year at which the household switches from
	// single to family costs; 13 means never.
	FamilyYear int `json:"family_transition_year"`

	BaselineSalaryK float64     `json:"baseline_annual_salary_usd_k"`
	BaselineGrowth  float64     `json:"baseline_annual_growth"`
	AidScenario     AidScenario `json:"aid_scenario"`
}

// DefaultParams returns the documented defaults: frugal lifestyle, family at
// employment year 5, a $9.5K baseline salary growing 8% annually, no aid.
func DefaultParams() Params {
	return Params{
		Lifestyle:       refdata.LifestyleFrugal,
		FamilyYear:      constants.DefaultFamilyYear,
		BaselineSalaryK: constants.DefaultBaselineSalaryK,
		BaselineGrowth:  constants.DefaultBaselineGrowth,
		AidScenario:     AidNone,
	}
}

// Validate checks every parameter against its documented range.
func (p Params) Validate() error {
	if !p.Lifestyle.Valid() {
		return fmt.Errorf("lifestyle %q: %w", p.Lifestyle, refdata.ErrInvalidParameter)
	}
	if p.FamilyYear < 1 || p.FamilyYear > constants.FamilyYearNever {
		return fmt.Errorf("family year %d outside [1,%d]: %w",
			p.FamilyYear, constants.FamilyYearNever, refdata.ErrInvalidParameter)
	}
	if p.BaselineSalaryK <= 0 {
		return fmt.Errorf("baseline salary %v not positive: %w", p.BaselineSalaryK, refdata.ErrInvalidParameter)
	}
	if p.BaselineGrowth < 0 {
		return fmt.Errorf("baseline growth %v negative: %w", p.BaselineGrowth, refdata.ErrInvalidParameter)
	}
	if !p.AidScenario.Valid() {
		return fmt.Errorf("aid scenario %q: %w", p.AidScenario, refdata.ErrInvalidParameter)
	}
	return nil
}

// household returns the cost profile for an employment (or baseline) year
// under the family-year rule: single strictly before the family year, family
// from it onward. A family year of 13 never triggers within the 12-year
// horizon.
func household(year, familyYear int) refdata.Profile {
	if year < familyYear {
		return refdata.ProfileSingle
	}
	return refdata.ProfileFamily
}
