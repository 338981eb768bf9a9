package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/anahmed/career-forecast/internal/livingcost"
	"github.com/anahmed/career-forecast/internal/market"
	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/internal/tax"
	"github.com/anahmed/career-forecast/pkg/constants"
	"github.com/anahmed/career-forecast/pkg/mathutil"
)

// Engine runs 12-year net-worth projections against one reference snapshot.
// It is safe for concurrent use; all state is read-only after construction.
type Engine struct {
	logger  *zap.Logger
	snap    *refdata.Snapshot
	taxes   *tax.Calculator
	costs   *livingcost.Estimator
	markets *market.Resolver
	home    refdata.Location
}

// New builds an engine over the snapshot. An empty homeCountry falls back to
// the default baseline country.
func New(logger *zap.Logger, snap *refdata.Snapshot, homeCountry string) *Engine {
	if homeCountry == "" {
		homeCountry = constants.DefaultHomeCountry
	}
	return &Engine{
		logger:  logger,
		snap:    snap,
		taxes:   tax.NewCalculator(logger, snap),
		costs:   livingcost.NewEstimator(logger, snap),
		markets: market.NewResolver(logger, snap),
		home: refdata.Location{
			Country: homeCountry,
			City:    snap.DefaultCities[homeCountry],
		},
	}
}

// Snapshot returns the reference data set the engine was built over.
func (e *Engine) Snapshot() *refdata.Snapshot { return e.snap }

// Project runs the full 12-year projection for one program, including the
// baseline comparison.
func (e *Engine) Project(p *refdata.Program, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	baseline, err := e.baseline(params)
	if err != nil {
		return nil, err
	}
	return e.projectAgainst(p, params, baseline.TotalNetWorthK)
}

// Baseline computes the stay-home counterfactual: the current salary grows
// at the configured rate for all 12 years, taxed and costed in the home
// country, with the same family-year rule as a program projection.
func (e *Engine) Baseline(params Params) (*BaselineResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return e.baseline(params)
}

func (e *Engine) baseline(params Params) (*BaselineResult, error) {
	res := &BaselineResult{
		Country:      e.home.Country,
		City:         e.home.City,
		StartSalaryK: params.BaselineSalaryK,
		GrowthRate:   params.BaselineGrowth,
		Years:        make([]YearRecord, 0, constants.TotalYears),
	}

	salary := params.BaselineSalaryK
	cumulative := 0.0
	for year := 1; year <= constants.TotalYears; year++ {
		profile := household(year, params.FamilyYear)
		net, _, err := e.taxes.NetIncome(salary, e.home)
		if err != nil {
			return nil, fmt.Errorf("baseline year %d: %w", year, err)
		}
		cost, _, err := e.costs.AnnualCost(e.home.City, e.home.Country, profile, params.Lifestyle)
		if err != nil {
			return nil, fmt.Errorf("baseline year %d: %w", year, err)
		}
		cash := net - cost
		cumulative += cash
		res.Years = append(res.Years, YearRecord{
			Year:           year,
			Phase:          PhaseWork,
			EmploymentYear: year,
			Profile:        string(profile),
			GrossSalaryK:   mathutil.Round(salary),
			NetSalaryK:     mathutil.Round(net),
			LivingCostK:    mathutil.Round(cost),
			NetCashFlowK:   mathutil.Round(cash),
			CumulativeK:    mathutil.Round(cumulative),
		})
		salary *= 1 + params.BaselineGrowth
	}
	res.TotalNetWorthK = mathutil.Round(cumulative)
	return res, nil
}

// effectiveTuition applies the aid scenario to the sticker price and returns
// the charged tuition plus the scholarship credit taken, both in $K.
func effectiveTuition(p *refdata.Program, scenario AidScenario) (tuition, scholarship float64) {
	aid := 0.0
	switch scenario {
	case AidExpected:
		aid = p.ExpectedAidK
	case AidBestCase:
		aid = p.BestCaseAidK
	}
	if aid > p.TuitionK {
		aid = p.TuitionK
	}
	return p.TuitionK - aid, aid
}

// initialCapital adjusts the upfront capital requirement for the aid
// scenario. Guaranteed funding needs little beyond flights and visa;
// partial scholarships shrink the tuition half of the requirement in
// proportion to how much of the sticker price they cover.
func initialCapital(p *refdata.Program, scenario AidScenario, scholarshipK float64) int {
	base := p.InitialCapitalUSD
	if scenario == AidNone {
		return base
	}
	if p.AidType == "guaranteed_funding" {
		if base > 3000 {
			return 3000
		}
		return base
	}
	covered := scholarshipK / math.Max(p.TuitionK, 1)
	if covered > 1 {
		covered = 1
	}
	half := float64(base) * 0.5
	return int(half + half*(1-covered))
}

func (e *Engine) projectAgainst(p *refdata.Program, params Params, baselineK float64) (*Result, error) {
	loc, err := e.markets.Resolve(p.PrimaryMarket, p.Y10SalaryK)
	if err != nil {
		return nil, fmt.Errorf("program %d (%s): %w", p.ID, p.University, err)
	}

	studyYears := int(math.Round(p.DurationYears))
	if studyYears <= 0 {
		studyYears = constants.DefaultStudyYears
	}
	workYears := constants.TotalYears - studyYears
	if workYears < 0 {
		return nil, fmt.Errorf("program %d: duration %d exceeds horizon: %w",
			p.ID, studyYears, refdata.ErrInvalidParameter)
	}

	res := &Result{
		ProgramID:   p.ID,
		University:  p.University,
		Program:     p.Name,
		Field:       p.Field,
		FundingTier: p.FundingTier,
		WorkCountry: loc.Country,
		WorkCity:    loc.City,
		USState:     loc.USState,
		StudyYears:  studyYears,
		WorkYears:   workYears,
		Y1SalaryK:   p.Y1SalaryK,
		Y10SalaryK:  p.Y10SalaryK,
		Years:       make([]YearRecord, 0, constants.TotalYears),
	}

	seen := make(map[string]bool)
	note := func(msgs ...string) {
		for _, m := range msgs {
			if !seen[m] {
				seen[m] = true
				res.Diagnostics = append(res.Diagnostics, m)
			}
		}
	}

	tuition, scholarship := effectiveTuition(p, params.AidScenario)
	res.TuitionK = p.TuitionK
	res.ScholarshipK = mathutil.Round(scholarship)
	res.InitialCapitalBaseUSD = p.InitialCapitalUSD
	res.InitialCapitalUSD = initialCapital(p, params.AidScenario, scholarship)
	tuitionPerYear := tuition / float64(studyYears)

	coop := 0.0
	if params.AidScenario != AidNone && p.CoopEarningsK > 0 {
		coop = p.CoopEarningsK
	}
	res.CoopEarningsK = mathutil.Round(coop)
	coopPerYear := coop / float64(studyYears)

	cumulative := 0.0
	studyOutlay := 0.0
	for year := 1; year <= studyYears; year++ {
		cost, trail, err := e.costs.AnnualCost("", p.Country, refdata.ProfileStudent, params.Lifestyle)
		if err != nil {
			return nil, fmt.Errorf("program %d study year %d: %w", p.ID, year, err)
		}
		note(trail...)
		cash := coopPerYear - tuitionPerYear - cost
		cumulative += cash
		studyOutlay += tuitionPerYear + cost - coopPerYear
		res.Years = append(res.Years, YearRecord{
			Year:          year,
			Phase:         PhaseStudy,
			Profile:       string(refdata.ProfileStudent),
			TuitionK:      mathutil.Round(tuitionPerYear),
			CoopEarningsK: mathutil.Round(coopPerYear),
			LivingCostK:   mathutil.Round(cost),
			NetCashFlowK:  mathutil.Round(cash),
			CumulativeK:   mathutil.Round(cumulative),
		})
	}
	res.StudyCostK = mathutil.Round(studyOutlay)

	for empYear := 1; empYear <= workYears; empYear++ {
		gross := InterpolateSalary(p.Y1SalaryK, p.Y5SalaryK, p.Y10SalaryK, empYear)
		net, taxNotes, err := e.taxes.NetIncome(gross, loc)
		if err != nil {
			return nil, fmt.Errorf("program %d employment year %d: %w", p.ID, empYear, err)
		}
		note(taxNotes...)
		profile := household(empYear, params.FamilyYear)
		cost, trail, err := e.costs.AnnualCost(loc.City, loc.Country, profile, params.Lifestyle)
		if err != nil {
			return nil, fmt.Errorf("program %d employment year %d: %w", p.ID, empYear, err)
		}
		note(trail...)
		cash := net - cost
		cumulative += cash
		res.Years = append(res.Years, YearRecord{
			Year:           studyYears + empYear,
			Phase:          PhaseWork,
			EmploymentYear: empYear,
			Profile:        string(profile),
			GrossSalaryK:   mathutil.Round(gross),
			NetSalaryK:     mathutil.Round(net),
			LivingCostK:    mathutil.Round(cost),
			NetCashFlowK:   mathutil.Round(cash),
			CumulativeK:    mathutil.Round(cumulative),
		})
	}

	if rate, err := e.taxes.EffectiveRate(p.Y1SalaryK, loc); err == nil {
		res.EffectiveTaxY1 = mathutil.Round4(rate)
	}
	if rate, err := e.taxes.EffectiveRate(p.Y10SalaryK, loc); err == nil {
		res.EffectiveTaxY10 = mathutil.Round4(rate)
	}
	res.TotalNetWorthK = mathutil.Round(cumulative)
	res.NetBenefitK = mathutil.Round(cumulative - baselineK)

	if e.logger != nil {
		e.logger.Debug("projected program",
			zap.String("op", "engine.Engine.projectAgainst"),
			zap.Int64("programID", p.ID),
			zap.Float64("networthK", res.TotalNetWorthK),
		)
	}
	return res, nil
}
