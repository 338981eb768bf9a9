package store

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a reference data seed.
type seedFile struct {
	ExchangeRates map[string]float64 `yaml:"exchange_rates"`
	TaxRules      []seedTaxRule      `yaml:"tax_rules"`
	LivingCosts   []seedLivingCost   `yaml:"living_costs"`
	DefaultCities map[string]string  `yaml:"default_cities"`
	Markets       []seedMarket       `yaml:"market_mappings"`
	USRegions     []seedUSRegion     `yaml:"us_regions"`
	Programs      []seedProgram      `yaml:"programs"`
}

type seedTaxRule struct {
	Country    string                `yaml:"country"`
	Currency   string                `yaml:"currency"`
	Deductions map[string]float64    `yaml:"deductions,omitempty"`
	Social     []seedSocial          `yaml:"social,omitempty"`
	Brackets   map[string][]seedBand `yaml:"brackets,omitempty"`
}

type seedSocial struct {
	Name    string  `yaml:"name"`
	Rate    float64 `yaml:"rate"`
	CapLC   float64 `yaml:"cap_lc,omitempty"`
	FloorLC float64 `yaml:"floor_lc,omitempty"`
}

type seedBand struct {
	UpperLC float64 `yaml:"upper_lc"`
	Rate    float64 `yaml:"rate"`
}

type seedLivingCost struct {
	Location string  `yaml:"location"`
	Profile  string  `yaml:"profile"`
	Tier     string  `yaml:"tier"`
	AnnualK  float64 `yaml:"annual_usd_k"`
}

type seedLocation struct {
	Country string `yaml:"country"`
	City    string `yaml:"city,omitempty"`
	State   string `yaml:"state,omitempty"`
}

type seedMarket struct {
	Raw              string        `yaml:"raw"`
	Primary          seedLocation  `yaml:"primary"`
	Alt              *seedLocation `yaml:"alt,omitempty"`
	SalaryThresholdK float64       `yaml:"salary_threshold_k,omitempty"`
}

type seedUSRegion struct {
	Keyword     string `yaml:"keyword"`
	StateCode   string `yaml:"state"`
	DisplayCity string `yaml:"city"`
}

type seedProgram struct {
	ID                int64   `yaml:"id"`
	University        string  `yaml:"university"`
	Name              string  `yaml:"program_name"`
	Field             string  `yaml:"field"`
	FundingTier       string  `yaml:"funding_tier"`
	Country           string  `yaml:"country"`
	TuitionK          float64 `yaml:"tuition_k"`
	Y1SalaryK         float64 `yaml:"y1_salary_k"`
	Y5SalaryK         float64 `yaml:"y5_salary_k"`
	Y10SalaryK        float64 `yaml:"y10_salary_k"`
	DurationYears     float64 `yaml:"duration_years"`
	PrimaryMarket     string  `yaml:"primary_market"`
	Notes             string  `yaml:"notes,omitempty"`
	ExpectedAidK      float64 `yaml:"expected_aid_k,omitempty"`
	BestCaseAidK      float64 `yaml:"best_case_aid_k,omitempty"`
	AidType           string  `yaml:"aid_type,omitempty"`
	CoopEarningsK     float64 `yaml:"coop_earnings_k,omitempty"`
	InitialCapitalUSD int     `yaml:"initial_capital_usd,omitempty"`
}

// SeedFromFile replaces the reference data with the contents of a YAML seed
// file.
func (s *Store) SeedFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file %s: %w", path, err)
	}
	defer f.Close()
	if err := s.Seed(f); err != nil {
		return fmt.Errorf("seed from %s: %w", path, err)
	}
	return nil
}

// Seed replaces all reference tables with the YAML document read from r. The
// replacement runs in one transaction, so a malformed seed leaves the
// previous data intact.
func (s *Store) Seed(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&ProgramRow{}, &ExchangeRateRow{}, &TaxRuleRow{}, &TaxDeductionRow{},
			&SocialRateRow{}, &TaxBracketRow{}, &LivingCostRow{}, &DefaultCityRow{},
			&MarketMappingRow{}, &USRegionRow{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return insertSeed(tx, &seed)
	})
	if err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}

	s.logger.Info("reference data seeded",
		zap.String("op", "store.Store.Seed"),
		zap.Int("programs", len(seed.Programs)),
		zap.Int("taxRules", len(seed.TaxRules)),
		zap.Int("livingCosts", len(seed.LivingCosts)),
	)
	return nil
}

func insertSeed(tx *gorm.DB, seed *seedFile) error {
	for currency, rate := range seed.ExchangeRates {
		row := ExchangeRateRow{Currency: currency, RatePerUSD: rate}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, rule := range seed.TaxRules {
		if err := tx.Create(&TaxRuleRow{Country: rule.Country, Currency: rule.Currency}).Error; err != nil {
			return err
		}
		for scope, amount := range rule.Deductions {
			row := TaxDeductionRow{Country: rule.Country, Scope: scope, AmountLC: amount}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, c := range rule.Social {
			row := SocialRateRow{
				Country: rule.Country, Name: c.Name,
				Rate: c.Rate, CapLC: c.CapLC, FloorLC: c.FloorLC,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for scope, bands := range rule.Brackets {
			for i, b := range bands {
				row := TaxBracketRow{
					Country: rule.Country, Scope: scope, BracketOrder: i,
					ThresholdLC: b.UpperLC, Rate: b.Rate,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
	}

	for _, c := range seed.LivingCosts {
		row := LivingCostRow{
			Location: c.Location, Profile: c.Profile, Tier: c.Tier,
			AnnualCostUsdK: c.AnnualK,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for country, city := range seed.DefaultCities {
		if err := tx.Create(&DefaultCityRow{Country: country, City: city}).Error; err != nil {
			return err
		}
	}

	for _, m := range seed.Markets {
		row := MarketMappingRow{
			Raw:              m.Raw,
			PrimaryCountry:   m.Primary.Country,
			PrimaryCity:      m.Primary.City,
			PrimaryState:     m.Primary.State,
			SalaryThresholdK: m.SalaryThresholdK,
		}
		if m.Alt != nil {
			row.AltCountry = m.Alt.Country
			row.AltCity = m.Alt.City
			row.AltState = m.Alt.State
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, r := range seed.USRegions {
		row := USRegionRow{Keyword: r.Keyword, StateCode: r.StateCode, DisplayCity: r.DisplayCity}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, p := range seed.Programs {
		row := ProgramRow{
			ID:                p.ID,
			University:        p.University,
			Name:              p.Name,
			Field:             p.Field,
			FundingTier:       p.FundingTier,
			Country:           p.Country,
			TuitionUsdK:       p.TuitionK,
			Y1SalaryUsdK:      p.Y1SalaryK,
			Y5SalaryUsdK:      p.Y5SalaryK,
			Y10SalaryUsdK:     p.Y10SalaryK,
			DurationYears:     p.DurationYears,
			PrimaryMarket:     p.PrimaryMarket,
			Notes:             p.Notes,
			ExpectedAidUsdK:   p.ExpectedAidK,
			BestCaseAidUsdK:   p.BestCaseAidK,
			AidType:           p.AidType,
			CoopEarningsUsdK:  p.CoopEarningsK,
			InitialCapitalUSD: p.InitialCapitalUSD,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}
