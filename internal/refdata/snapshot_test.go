package refdata

import (
	"errors"
	"math"
	"testing"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Rates: map[string]float64{"USD": 1.0, "GBP": 0.79},
		Brackets: map[BracketKey][]Bracket{
			{Country: "UK", Scope: ScopeNational}: {
				{UpperUSD: 15000, Rate: 0},
				{UpperUSD: 60000, Rate: 0.20},
				{UpperUSD: math.Inf(1), Rate: 0.40},
			},
		},
		Rules: map[string]TaxRule{
			"UK": {Country: "UK", Currency: "GBP"},
		},
		Costs: map[CostKey]float64{
			{Location: "London", Profile: ProfileSingle, Tier: LifestyleFrugal}:      30,
			{Location: "London", Profile: ProfileSingle, Tier: LifestyleComfortable}: 38,
		},
		DefaultCities: map[string]string{"UK": "London"},
		Markets: map[string]MarketMapping{
			"UK": {Raw: "UK", Primary: Location{Country: "UK", City: "London"}},
		},
		Programs: []Program{
			{ID: 3, University: "Imperial", Name: "MSc CS"},
			{ID: 1, University: "Oxford", Name: "MSc Stats"},
		},
	}
}

func TestFinalizeSortsAndIndexesPrograms(t *testing.T) {
	snap := validSnapshot()
	if err := snap.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if snap.Programs[0].ID != 1 || snap.Programs[1].ID != 3 {
		t.Errorf("expected programs sorted by id, got %d, %d", snap.Programs[0].ID, snap.Programs[1].ID)
	}

	p, err := snap.ProgramByID(3)
	if err != nil {
		t.Fatalf("ProgramByID(3) error = %v", err)
	}
	if p.University != "Imperial" {
		t.Errorf("expected Imperial, got %s", p.University)
	}

	if _, err := snap.ProgramByID(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing program, got %v", err)
	}
}

func TestValidateRejectsBadData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{
			name: "Non-ascending bracket thresholds",
			mutate: func(s *Snapshot) {
				key := BracketKey{Country: "UK", Scope: ScopeNational}
				s.Brackets[key] = []Bracket{
					{UpperUSD: 60000, Rate: 0.20},
					{UpperUSD: 15000, Rate: 0},
					{UpperUSD: math.Inf(1), Rate: 0.40},
				}
			},
		},
		{
			name: "Unbounded bracket before last",
			mutate: func(s *Snapshot) {
				key := BracketKey{Country: "UK", Scope: ScopeNational}
				s.Brackets[key] = []Bracket{
					{UpperUSD: math.Inf(1), Rate: 0.20},
					{UpperUSD: 60000, Rate: 0.40},
				}
			},
		},
		{
			name: "Rate out of range",
			mutate: func(s *Snapshot) {
				key := BracketKey{Country: "UK", Scope: ScopeNational}
				s.Brackets[key] = []Bracket{{UpperUSD: math.Inf(1), Rate: 1.2}}
			},
		},
		{
			name: "Comfortable below frugal",
			mutate: func(s *Snapshot) {
				s.Costs[CostKey{Location: "London", Profile: ProfileSingle, Tier: LifestyleComfortable}] = 20
			},
		},
		{
			name: "Market country without tax rule",
			mutate: func(s *Snapshot) {
				s.Markets["Mars"] = MarketMapping{Raw: "Mars", Primary: Location{Country: "Mars", City: "Olympus"}}
			},
		},
		{
			name: "Non-positive exchange rate",
			mutate: func(s *Snapshot) {
				s.Rates["EUR"] = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(snap)
			if err := snap.Finalize(); err == nil {
				t.Errorf("expected validation error, got nil")
			}
		})
	}
}

func TestLifestyleValid(t *testing.T) {
	if !LifestyleFrugal.Valid() || !LifestyleComfortable.Valid() {
		t.Errorf("expected built-in lifestyles to be valid")
	}
	if Lifestyle("lavish").Valid() {
		t.Errorf("expected unknown lifestyle to be invalid")
	}
}
