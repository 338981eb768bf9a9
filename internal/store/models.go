package store

// Row models for the sqlite reference database. Monetary columns suffixed
// LC hold local-currency amounts converted to USD at snapshot load; the
// UsdK suffix marks columns already in USD thousands.

// ProgramRow is one program catalog entry.
type ProgramRow struct {
	ID            int64   `gorm:"primaryKey"`
	University    string  `gorm:"not null;index"`
	Name          string  `gorm:"column:program_name;not null"`
	Field         string  `gorm:"index"`
	FundingTier   string  `gorm:"index"`
	Country       string  `gorm:"not null"`
	TuitionUsdK   float64 `gorm:"column:tuition_usd_k"`
	Y1SalaryUsdK  float64 `gorm:"column:y1_salary_usd_k"`
	Y5SalaryUsdK  float64 `gorm:"column:y5_salary_usd_k"`
	Y10SalaryUsdK float64 `gorm:"column:y10_salary_usd_k"`
	DurationYears float64
	PrimaryMarket string `gorm:"not null"`
	Notes         string

	ExpectedAidUsdK   float64 `gorm:"column:expected_aid_usd_k"`
	BestCaseAidUsdK   float64 `gorm:"column:best_case_aid_usd_k"`
	AidType           string
	CoopEarningsUsdK  float64 `gorm:"column:coop_earnings_usd_k"`
	InitialCapitalUSD int     `gorm:"column:initial_capital_usd"`
}

func (ProgramRow) TableName() string { return "programs" }

// ExchangeRateRow maps a currency code to its units per 1 USD.
type ExchangeRateRow struct {
	Currency   string  `gorm:"primaryKey;size:8"`
	RatePerUSD float64 `gorm:"column:rate_per_usd;not null"`
}

func (ExchangeRateRow) TableName() string { return "exchange_rates" }

// TaxRuleRow is the per-country tax descriptor.
type TaxRuleRow struct {
	Country  string `gorm:"primaryKey"`
	Currency string `gorm:"not null;size:8"`
}

func (TaxRuleRow) TableName() string { return "tax_rules" }

// TaxDeductionRow is a standard deduction for one (country, scope), in
// local currency.
type TaxDeductionRow struct {
	ID       int64  `gorm:"primaryKey"`
	Country  string `gorm:"uniqueIndex:idx_deduction;not null"`
	Scope    string `gorm:"uniqueIndex:idx_deduction;not null"`
	AmountLC float64
}

func (TaxDeductionRow) TableName() string { return "tax_deductions" }

// SocialRateRow is one flat social contribution for a country. CapLC and
// FloorLC are zero when the scheme is uncapped or floorless.
type SocialRateRow struct {
	ID      int64  `gorm:"primaryKey"`
	Country string `gorm:"index;not null"`
	Name    string `gorm:"not null"`
	Rate    float64
	CapLC   float64
	FloorLC float64
}

func (SocialRateRow) TableName() string { return "social_rates" }

// TaxBracketRow is one progressive bracket. BracketOrder preserves table
// order; a ThresholdLC at or above the unbounded sentinel marks the open
// top bracket.
type TaxBracketRow struct {
	ID           int64  `gorm:"primaryKey"`
	Country      string `gorm:"uniqueIndex:idx_bracket;not null"`
	Scope        string `gorm:"uniqueIndex:idx_bracket;not null"`
	BracketOrder int    `gorm:"uniqueIndex:idx_bracket;not null"`
	ThresholdLC  float64
	Rate         float64
}

func (TaxBracketRow) TableName() string { return "tax_brackets" }

// LivingCostRow is one annual living-cost entry in USD thousands. Location
// is a city, or a country name for the country-level fallback.
type LivingCostRow struct {
	ID             int64  `gorm:"primaryKey"`
	Location       string `gorm:"uniqueIndex:idx_cost;not null"`
	Profile        string `gorm:"uniqueIndex:idx_cost;not null"`
	Tier           string `gorm:"uniqueIndex:idx_cost;not null"`
	AnnualCostUsdK float64 `gorm:"column:annual_cost_usd_k"`
}

func (LivingCostRow) TableName() string { return "living_costs" }

// DefaultCityRow maps a country to its living-cost fallback city.
type DefaultCityRow struct {
	Country string `gorm:"primaryKey"`
	City    string `gorm:"not null"`
}

func (DefaultCityRow) TableName() string { return "country_default_cities" }

// MarketMappingRow resolves one raw primary-market string. The Alt columns
// are empty when the mapping has a single destination.
type MarketMappingRow struct {
	Raw              string `gorm:"primaryKey"`
	PrimaryCountry   string `gorm:"not null"`
	PrimaryCity      string
	PrimaryState     string
	AltCountry       string
	AltCity          string
	AltState         string
	SalaryThresholdK float64 `gorm:"column:salary_threshold_k"`
}

func (MarketMappingRow) TableName() string { return "market_mappings" }

// USRegionRow maps a lowercase region keyword to a US state and display city.
type USRegionRow struct {
	Keyword     string `gorm:"primaryKey"`
	StateCode   string `gorm:"not null;size:2"`
	DisplayCity string `gorm:"not null"`
}

func (USRegionRow) TableName() string { return "us_region_states" }
