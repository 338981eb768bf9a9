// Package refdata defines the immutable reference-data snapshot consumed by
// the tax, living-cost, market, and net-worth engine modules. A Snapshot is
// built once from the backing store at startup and passed by pointer into
// every module constructor; nothing mutates it afterwards.
package refdata

// Lifestyle is a living-cost tier.
type Lifestyle string

const (
	LifestyleFrugal      Lifestyle = "frugal"
	LifestyleComfortable Lifestyle = "comfortable"
)

// Valid reports whether the lifestyle is one of the supported tiers.
func (l Lifestyle) Valid() bool {
	return l == LifestyleFrugal || l == LifestyleComfortable
}

// Profile is a household composition profile.
type Profile string

const (
	ProfileStudent Profile = "student"
	ProfileSingle  Profile = "single"
	ProfileFamily  Profile = "family"
)

// CountryUSA is the only country with sub-national (state and city) tax scopes.
const CountryUSA = "USA"

// ScopeNational is the bracket scope for a country's national income tax.
// USA state scopes are "state_<code>" and city scopes are "city_<name>".
const ScopeNational = "national"

// StateScope returns the bracket scope key for a US state code.
func StateScope(state string) string { return "state_" + state }

// CityScope returns the bracket scope key for a US city.
func CityScope(city string) string { return "city_" + city }

// Program is one graduate-degree option. Immutable reference data; created
// at import, read-only thereafter. All monetary figures in USD thousands.
type Program struct {
	ID            int64   `json:"id"`
	University    string  `json:"university"`
	Name          string  `json:"program_name"`
	Field         string  `json:"field"`
	FundingTier   string  `json:"funding_tier"`
	Country       string  `json:"country"`
	TuitionK      float64 `json:"tuition_k"`
	Y1SalaryK     float64 `json:"y1_salary_k"`
	Y5SalaryK     float64 `json:"y5_salary_k"`
	Y10SalaryK    float64 `json:"y10_salary_k"`
	DurationYears float64 `json:"duration_years"`
	PrimaryMarket string  `json:"primary_market"`
	Notes         string  `json:"notes,omitempty"`

	// InitialCapitalUSD is the upfront cash needed to start the program
	// before any aid applies: blocked account, first-semester tuition,
	// visa and flights. Full USD, not thousands.
	InitialCapitalUSD int `json:"initial_capital_usd,omitempty"`

	// Financial aid data, used by the aid scenarios.
	ExpectedAidK  float64 `json:"expected_aid_k,omitempty"`
	BestCaseAidK  float64 `json:"best_case_aid_k,omitempty"`
	AidType       string  `json:"aid_type,omitempty"`
	CoopEarningsK float64 `json:"coop_earnings_k,omitempty"`
}

// Bracket is one progressive tax bracket. UpperUSD is the inclusive upper
// bound of the bracket in full USD; math.Inf(1) marks the unbounded top
// bracket. The lower bound is the previous bracket's upper bound (0 for the
// first).
type Bracket struct {
	UpperUSD float64
	Rate     float64
}

// BracketKey addresses one ordered bracket table.
type BracketKey struct {
	Country string
	Scope   string
}

// SocialContribution is a flat-rate contribution (FICA component, national
// insurance, Sozialversicherung, ...). The contribution base is gross income
// clipped to CapUSD (when positive) and reduced by FloorUSD (when positive),
// which covers capped schemes (social security), uncapped ones (medicare),
// and surtaxes that apply only above a threshold.
type SocialContribution struct {
	Name     string
	Rate     float64
	CapUSD   float64
	FloorUSD float64
}

// TaxRule is the per-country rule descriptor: which currency its raw data is
// expressed in, the standard deduction per scope, and its flat social
// contributions. Bracket tables live in Snapshot.Brackets keyed by
// (country, scope). A country with no national brackets and no contributions
// is a zero-tax jurisdiction (e.g. UAE).
type TaxRule struct {
	Country       string
	Currency      string
	DeductionsUSD map[string]float64
	Social        []SocialContribution
}

// Location is a resolved work location: the country whose tax rules apply,
// the city whose living costs apply, and the US state code when the country
// is USA.
type Location struct {
	Country string `json:"work_country"`
	City    string `json:"work_city"`
	USState string `json:"us_state,omitempty"`
}

// MarketMapping resolves one raw primary-market string. Alt carries the
// destination of a dual-location string; SalaryThresholdK is the annual
// salary (USD thousands) at or above which Alt wins. A mapping without Alt
// always resolves to Primary.
type MarketMapping struct {
	Raw              string
	Primary          Location
	Alt              *Location
	SalaryThresholdK float64
}

// RegionState maps a US region keyword found in free-text market strings to
// a state code and the city used for living-cost lookups.
type RegionState struct {
	StateCode   string
	DisplayCity string
}

// CostKey addresses one living-cost entry. Location is either a city or a
// country-level fallback entry.
type CostKey struct {
	Location string
	Profile  Profile
	Tier     Lifestyle
}
