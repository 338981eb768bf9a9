package engine

// Phase labels a year of the 12-year horizon.
type Phase string

const (
	PhaseStudy Phase = "study"
	PhaseWork  Phase = "work"
)

// YearRecord is one calendar year of a projection. Monetary fields are in
// $K and rounded to cents-of-thousands at assembly.
type YearRecord struct {
	Year           int     `json:"year"`
	Phase          Phase   `json:"phase"`
	EmploymentYear int     `json:"employment_year,omitempty"`
	Profile        string  `json:"household_profile"`
	GrossSalaryK   float64 `json:"gross_salary_k,omitempty"`
	NetSalaryK     float64 `json:"net_salary_k,omitempty"`
	TuitionK       float64 `json:"tuition_k,omitempty"`
	CoopEarningsK  float64 `json:"coop_earnings_k,omitempty"`
	LivingCostK    float64 `json:"living_cost_k"`
	NetCashFlowK   float64 `json:"net_cash_flow_k"`
	CumulativeK    float64 `json:"cumulative_net_worth_k"`
}

// Result is a full projection for one program.
type Result struct {
	ProgramID   int64  `json:"program_id"`
	University  string `json:"university"`
	Program     string `json:"program"`
	Field       string `json:"field"`
	FundingTier string `json:"funding_tier"`

	WorkCountry string `json:"work_country"`
	WorkCity    string `json:"work_city"`
	USState     string `json:"us_state,omitempty"`

	StudyYears int `json:"study_years"`
	WorkYears  int `json:"work_years"`

	TuitionK      float64 `json:"tuition_k"`
	ScholarshipK  float64 `json:"scholarship_k,omitempty"`
	CoopEarningsK float64 `json:"coop_earnings_k,omitempty"`
	StudyCostK    float64 `json:"total_study_cost_k"`

	Y1SalaryK       float64 `json:"y1_salary_k"`
	Y10SalaryK      float64 `json:"y10_salary_k"`
	EffectiveTaxY1  float64 `json:"effective_tax_rate_y1"`
	EffectiveTaxY10 float64 `json:"effective_tax_rate_y10"`

	InitialCapitalBaseUSD int `json:"initial_capital_base_usd"`
	InitialCapitalUSD     int `json:"initial_capital_usd"`

	TotalNetWorthK float64 `json:"networth_12y_k"`
	NetBenefitK    float64 `json:"net_benefit_vs_baseline_k"`
	Rank           int     `json:"rank,omitempty"`

	Years       []YearRecord `json:"yearly_breakdown,omitempty"`
	Diagnostics []string     `json:"diagnostics,omitempty"`
}

// BaselineResult is the stay-home counterfactual over the same horizon.
type BaselineResult struct {
	Country        string       `json:"country"`
	City           string       `json:"city"`
	StartSalaryK   float64      `json:"start_salary_k"`
	GrowthRate     float64      `json:"growth_rate"`
	TotalNetWorthK float64      `json:"networth_12y_k"`
	Years          []YearRecord `json:"yearly_breakdown,omitempty"`
}

// ProgramFailure records a program that could not be projected in a batch
// run, with the reason attached so one bad row never hides the rest.
type ProgramFailure struct {
	ProgramID  int64  `json:"program_id"`
	University string `json:"university"`
	Program    string `json:"program"`
	Reason     string `json:"reason"`
}

// GroupStats aggregates net benefit over a slice of results.
type GroupStats struct {
	Count int     `json:"count"`
	AvgK  float64 `json:"avg_net_benefit_k"`
	MinK  float64 `json:"min_net_benefit_k"`
	MaxK  float64 `json:"max_net_benefit_k"`
}

// Highlight is a compact row for the top/bottom summary lists.
type Highlight struct {
	ProgramID   int64   `json:"program_id"`
	University  string  `json:"university"`
	Program     string  `json:"program"`
	Field       string  `json:"field"`
	WorkCountry string  `json:"work_country"`
	NetBenefitK float64 `json:"net_benefit_vs_baseline_k"`
}

// Summary carries the batch-level aggregates.
type Summary struct {
	Total         int                   `json:"total_programs"`
	Projected     int                   `json:"projected"`
	Failed        int                   `json:"failed"`
	BeatBaseline  int                   `json:"beat_baseline"`
	ByFundingTier map[string]GroupStats `json:"by_funding_tier"`
	ByField       map[string]GroupStats `json:"by_field"`
	ByWorkCountry map[string]GroupStats `json:"by_work_country"`
	Top           []Highlight           `json:"top"`
	Bottom        []Highlight           `json:"bottom"`
}

// Assumptions echoes back the effective query so a response is
// self-describing.
type Assumptions struct {
	Params
	TotalYears int    `json:"total_years"`
	SortBy     string `json:"sort_by"`
}

// BatchResult is the full ranked comparison across programs.
type BatchResult struct {
	Assumptions Assumptions      `json:"assumptions"`
	Baseline    *BaselineResult  `json:"baseline"`
	Programs    []*Result        `json:"programs"`
	Failures    []ProgramFailure `json:"failures,omitempty"`
	Summary     Summary          `json:"summary"`
}
