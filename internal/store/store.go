// Package store persists the reference data set in sqlite and materializes
// the immutable snapshot the projection modules consume. Local-currency
// amounts are converted to USD exactly once, at load time.
package store

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/pkg/constants"
)

// Store wraps the sqlite reference database.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the sqlite database at path and runs the
// schema migration. Use ":memory:" for an ephemeral database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}
	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	logger.Debug("reference database opened",
		zap.String("op", "store.Open"),
		zap.String("path", path),
	)
	return s, nil
}

func (s *Store) migrate() error {
	err := s.db.AutoMigrate(
		&ProgramRow{},
		&ExchangeRateRow{},
		&TaxRuleRow{},
		&TaxDeductionRow{},
		&SocialRateRow{},
		&TaxBracketRow{},
		&LivingCostRow{},
		&DefaultCityRow{},
		&MarketMappingRow{},
		&USRegionRow{},
	)
	if err != nil {
		return fmt.Errorf("migrate reference schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Filter narrows a program listing. Zero values match everything.
type Filter struct {
	Field       string
	FundingTier string
	Country     string
	MaxTuitionK float64
	MinY10K     float64
}

// ListPrograms returns catalog entries matching the filter, ordered by id.
func (s *Store) ListPrograms(f Filter) ([]refdata.Program, error) {
	q := s.db.Model(&ProgramRow{}).Order("id asc")
	if f.Field != "" {
		q = q.Where("lower(field) = ?", strings.ToLower(f.Field))
	}
	if f.FundingTier != "" {
		q = q.Where("lower(funding_tier) = ?", strings.ToLower(f.FundingTier))
	}
	if f.Country != "" {
		q = q.Where("lower(country) = ?", strings.ToLower(f.Country))
	}
	if f.MaxTuitionK > 0 {
		q = q.Where("tuition_usd_k <= ?", f.MaxTuitionK)
	}
	if f.MinY10K > 0 {
		q = q.Where("y10_salary_usd_k >= ?", f.MinY10K)
	}

	var rows []ProgramRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	programs := make([]refdata.Program, 0, len(rows))
	for _, r := range rows {
		programs = append(programs, programFromRow(r))
	}
	return programs, nil
}

func programFromRow(r ProgramRow) refdata.Program {
	return refdata.Program{
		ID:                r.ID,
		University:        r.University,
		Name:              r.Name,
		Field:             r.Field,
		FundingTier:       r.FundingTier,
		Country:           r.Country,
		TuitionK:          r.TuitionUsdK,
		Y1SalaryK:         r.Y1SalaryUsdK,
		Y5SalaryK:         r.Y5SalaryUsdK,
		Y10SalaryK:        r.Y10SalaryUsdK,
		DurationYears:     r.DurationYears,
		PrimaryMarket:     r.PrimaryMarket,
		Notes:             r.Notes,
		ExpectedAidK:      r.ExpectedAidUsdK,
		BestCaseAidK:      r.BestCaseAidUsdK,
		AidType:           r.AidType,
		CoopEarningsK:     r.CoopEarningsUsdK,
		InitialCapitalUSD: r.InitialCapitalUSD,
	}
}

// LoadSnapshot reads the full reference data set, converts every
// local-currency amount to USD, and returns a finalized snapshot.
func (s *Store) LoadSnapshot() (*refdata.Snapshot, error) {
	snap := &refdata.Snapshot{
		Rates:         map[string]float64{},
		Brackets:      map[refdata.BracketKey][]refdata.Bracket{},
		Rules:         map[string]refdata.TaxRule{},
		Costs:         map[refdata.CostKey]float64{},
		DefaultCities: map[string]string{},
		Markets:       map[string]refdata.MarketMapping{},
		USRegions:     map[string]refdata.RegionState{},
	}

	var rates []ExchangeRateRow
	if err := s.db.Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}
	for _, r := range rates {
		snap.Rates[r.Currency] = r.RatePerUSD
	}

	// toUSD converts a local-currency amount using the country's currency.
	currencyOf := map[string]string{}
	var rules []TaxRuleRow
	if err := s.db.Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("load tax rules: %w", err)
	}
	for _, r := range rules {
		currencyOf[r.Country] = r.Currency
	}
	toUSD := func(country string, amountLC float64) (float64, error) {
		currency, ok := currencyOf[country]
		if !ok {
			return 0, fmt.Errorf("country %s has no tax rule", country)
		}
		if currency == "USD" {
			return amountLC, nil
		}
		rate, ok := snap.Rates[currency]
		if !ok {
			return 0, fmt.Errorf("no exchange rate for %s (country %s)", currency, country)
		}
		return amountLC / rate, nil
	}

	var deductions []TaxDeductionRow
	if err := s.db.Find(&deductions).Error; err != nil {
		return nil, fmt.Errorf("load tax deductions: %w", err)
	}
	var socials []SocialRateRow
	if err := s.db.Find(&socials).Error; err != nil {
		return nil, fmt.Errorf("load social rates: %w", err)
	}
	for _, r := range rules {
		rule := refdata.TaxRule{
			Country:       r.Country,
			Currency:      r.Currency,
			DeductionsUSD: map[string]float64{},
		}
		for _, d := range deductions {
			if d.Country != r.Country {
				continue
			}
			usd, err := toUSD(d.Country, d.AmountLC)
			if err != nil {
				return nil, err
			}
			rule.DeductionsUSD[d.Scope] = usd
		}
		for _, c := range socials {
			if c.Country != r.Country {
				continue
			}
			contribution := refdata.SocialContribution{Name: c.Name, Rate: c.Rate}
			var err error
			if c.CapLC > 0 {
				if contribution.CapUSD, err = toUSD(c.Country, c.CapLC); err != nil {
					return nil, err
				}
			}
			if c.FloorLC > 0 {
				if contribution.FloorUSD, err = toUSD(c.Country, c.FloorLC); err != nil {
					return nil, err
				}
			}
			rule.Social = append(rule.Social, contribution)
		}
		snap.Rules[r.Country] = rule
	}

	var brackets []TaxBracketRow
	if err := s.db.Order("country, scope, bracket_order").Find(&brackets).Error; err != nil {
		return nil, fmt.Errorf("load tax brackets: %w", err)
	}
	for _, b := range brackets {
		key := refdata.BracketKey{Country: b.Country, Scope: b.Scope}
		upper := math.Inf(1)
		if b.ThresholdLC < constants.UnboundedThresholdLC {
			var err error
			if upper, err = toUSD(b.Country, b.ThresholdLC); err != nil {
				return nil, err
			}
		}
		snap.Brackets[key] = append(snap.Brackets[key], refdata.Bracket{UpperUSD: upper, Rate: b.Rate})
	}

	var costs []LivingCostRow
	if err := s.db.Find(&costs).Error; err != nil {
		return nil, fmt.Errorf("load living costs: %w", err)
	}
	for _, c := range costs {
		key := refdata.CostKey{
			Location: c.Location,
			Profile:  refdata.Profile(c.Profile),
			Tier:     refdata.Lifestyle(c.Tier),
		}
		snap.Costs[key] = c.AnnualCostUsdK
	}

	var cities []DefaultCityRow
	if err := s.db.Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("load default cities: %w", err)
	}
	for _, c := range cities {
		snap.DefaultCities[c.Country] = c.City
	}

	var markets []MarketMappingRow
	if err := s.db.Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("load market mappings: %w", err)
	}
	for _, m := range markets {
		mapping := refdata.MarketMapping{
			Raw: m.Raw,
			Primary: refdata.Location{
				Country: m.PrimaryCountry,
				City:    m.PrimaryCity,
				USState: m.PrimaryState,
			},
			SalaryThresholdK: m.SalaryThresholdK,
		}
		if m.AltCountry != "" {
			mapping.Alt = &refdata.Location{
				Country: m.AltCountry,
				City:    m.AltCity,
				USState: m.AltState,
			}
		}
		snap.Markets[m.Raw] = mapping
	}

	var regions []USRegionRow
	if err := s.db.Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("load US regions: %w", err)
	}
	for _, r := range regions {
		snap.USRegions[strings.ToLower(r.Keyword)] = refdata.RegionState{
			StateCode:   r.StateCode,
			DisplayCity: r.DisplayCity,
		}
	}

	programs, err := s.ListPrograms(Filter{})
	if err != nil {
		return nil, err
	}
	snap.Programs = programs

	if err := snap.Finalize(); err != nil {
		return nil, fmt.Errorf("validate reference data: %w", err)
	}

	s.logger.Info("reference snapshot loaded",
		zap.String("op", "store.Store.LoadSnapshot"),
		zap.Int("programs", len(snap.Programs)),
		zap.Int("countries", len(snap.Rules)),
		zap.Int("markets", len(snap.Markets)),
	)
	return snap, nil
}
