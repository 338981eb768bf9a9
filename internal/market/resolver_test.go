package market

import (
	"errors"
	"testing"

	"github.com/anahmed/career-forecast/internal/refdata"
	"go.uber.org/zap"
)

func testSnapshot() *refdata.Snapshot {
	usa := refdata.Location{Country: refdata.CountryUSA, City: "Bay Area", USState: "CA"}
	return &refdata.Snapshot{
		Rules: map[string]refdata.TaxRule{
			refdata.CountryUSA: {Country: refdata.CountryUSA, Currency: "USD"},
			"Canada":           {Country: "Canada", Currency: "CAD"},
			"Germany":          {Country: "Germany", Currency: "EUR"},
			"Singapore":        {Country: "Singapore", Currency: "SGD"},
		},
		DefaultCities: map[string]string{
			"Canada":    "Toronto",
			"Germany":   "Berlin",
			"Singapore": "Singapore",
		},
		Markets: map[string]refdata.MarketMapping{
			"USA": {
				Raw:     "USA",
				Primary: usa,
			},
			"Germany": {
				Raw:     "Germany",
				Primary: refdata.Location{Country: "Germany", City: "Munich"},
			},
			"Singapore / USA": {
				Raw:              "Singapore / USA",
				Primary:          refdata.Location{Country: "Singapore", City: "Singapore"},
				Alt:              &usa,
				SalaryThresholdK: 120,
			},
		},
		USRegions: map[string]refdata.RegionState{
			"bay area": {StateCode: "CA", DisplayCity: "Bay Area"},
			"nyc":      {StateCode: "NY", DisplayCity: "New York"},
			"new york": {StateCode: "NY", DisplayCity: "New York"},
			"seattle":  {StateCode: "WA", DisplayCity: "Seattle"},
		},
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(zap.NewNop(), testSnapshot())

	tests := []struct {
		name     string
		market   string
		salaryK  float64
		expected refdata.Location
	}{
		{
			name:     "Exact mapping",
			market:   "Germany",
			expected: refdata.Location{Country: "Germany", City: "Munich"},
		},
		{
			name:     "Relocation string resolves to destination",
			market:   "Canada / USA (reloc)",
			expected: refdata.Location{Country: refdata.CountryUSA, City: "Bay Area", USState: "CA"},
		},
		{
			name:     "Dual market below threshold keeps first-listed",
			market:   "Singapore / USA",
			salaryK:  90,
			expected: refdata.Location{Country: "Singapore", City: "Singapore"},
		},
		{
			name:     "Dual market at threshold switches to alternate",
			market:   "Singapore / USA",
			salaryK:  120,
			expected: refdata.Location{Country: refdata.CountryUSA, City: "Bay Area", USState: "CA"},
		},
		{
			name:     "Dual market without salary keeps first-listed",
			market:   "Singapore / USA",
			expected: refdata.Location{Country: "Singapore", City: "Singapore"},
		},
		{
			name:     "US region keyword resolves state",
			market:   "USA (Bay Area)",
			expected: refdata.Location{Country: refdata.CountryUSA, City: "Bay Area", USState: "CA"},
		},
		{
			name:     "Region keyword inside free text",
			market:   "Seattle tech market",
			expected: refdata.Location{Country: refdata.CountryUSA, City: "Seattle", USState: "WA"},
		},
		{
			name:     "Bare country uses its default city",
			market:   "Canada",
			expected: refdata.Location{Country: "Canada", City: "Toronto"},
		},
		{
			name:     "Unmapped dual market falls back to first side",
			market:   "Canada / Germany",
			expected: refdata.Location{Country: "Canada", City: "Toronto"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := r.Resolve(tt.market, tt.salaryK)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.market, err)
			}
			if loc != tt.expected {
				t.Errorf("Resolve(%q) = %+v, expected %+v", tt.market, loc, tt.expected)
			}
		})
	}
}

func TestResolveUnresolved(t *testing.T) {
	r := NewResolver(zap.NewNop(), testSnapshot())

	for _, market := range []string{"", "   ", "Remote (anywhere)", "Atlantis"} {
		if _, err := r.Resolve(market, 0); !errors.Is(err, refdata.ErrUnresolvedMarket) {
			t.Errorf("Resolve(%q) = %v, expected ErrUnresolvedMarket", market, err)
		}
	}
}
