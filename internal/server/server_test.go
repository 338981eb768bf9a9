package server

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/anahmed/career-forecast/internal/engine"
	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/internal/store"
)

type staticPrograms struct {
	programs []refdata.Program
}

func (s *staticPrograms) ListPrograms(f store.Filter) ([]refdata.Program, error) {
	out := []refdata.Program{}
	for _, p := range s.programs {
		if f.Field != "" && !strings.EqualFold(f.Field, p.Field) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func testSnapshot(t *testing.T) *refdata.Snapshot {
	t.Helper()

	costs := map[refdata.CostKey]float64{}
	set := func(location string, profile refdata.Profile, frugal, comfortable float64) {
		costs[refdata.CostKey{Location: location, Profile: profile, Tier: refdata.LifestyleFrugal}] = frugal
		costs[refdata.CostKey{Location: location, Profile: profile, Tier: refdata.LifestyleComfortable}] = comfortable
	}
	set("Karachi", refdata.ProfileSingle, 5, 7)
	set("Karachi", refdata.ProfileFamily, 8, 11)
	set("Dubai", refdata.ProfileStudent, 12, 18)
	set("Dubai", refdata.ProfileSingle, 24, 36)
	set("Dubai", refdata.ProfileFamily, 40, 60)

	snap := &refdata.Snapshot{
		Rates: map[string]float64{"PKR": 278.0},
		Rules: map[string]refdata.TaxRule{
			"Pakistan": {Country: "Pakistan", Currency: "PKR"},
			"UAE":      {Country: "UAE", Currency: "AED"},
		},
		Brackets: map[refdata.BracketKey][]refdata.Bracket{
			{Country: "Pakistan", Scope: refdata.ScopeNational}: {
				{UpperUSD: math.Inf(1), Rate: 0.10},
			},
		},
		Costs:         costs,
		DefaultCities: map[string]string{"Pakistan": "Karachi", "UAE": "Dubai"},
		Markets: map[string]refdata.MarketMapping{
			"UAE": {Raw: "UAE", Primary: refdata.Location{Country: "UAE", City: "Dubai"}},
		},
		Programs: []refdata.Program{
			{
				ID: 1, University: "Gulf University", Name: "MS CS", Field: "CS", FundingTier: "full",
				Country: "UAE", TuitionK: 20, Y1SalaryK: 80, Y5SalaryK: 110, Y10SalaryK: 140,
				DurationYears: 2, PrimaryMarket: "UAE",
			},
			{
				ID: 2, University: "Lost University", Name: "MS CS", Field: "CS", FundingTier: "none",
				Country: "UAE", TuitionK: 30, Y1SalaryK: 70, Y5SalaryK: 90, Y10SalaryK: 120,
				DurationYears: 2, PrimaryMarket: "Atlantis",
			},
		},
	}
	if err := snap.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return snap
}

func testServer(t *testing.T) *Server {
	t.Helper()
	snap := testSnapshot(t)
	eng := engine.New(zap.NewNop(), snap, "Pakistan")
	return New(zap.NewNop(), eng, &staticPrograms{programs: snap.Programs}, engine.DefaultParams())
}

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := sonic.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, testServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestProjectAllEndpoint(t *testing.T) {
	rec := do(t, testServer(t), "/api/networth?sort_by=networth")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var batch engine.BatchResult
	decode(t, rec, &batch)
	if len(batch.Programs) != 1 || batch.Programs[0].ProgramID != 1 {
		t.Fatalf("programs = %+v", batch.Programs)
	}
	if len(batch.Failures) != 1 || batch.Failures[0].ProgramID != 2 {
		t.Errorf("failures = %+v", batch.Failures)
	}
	if len(batch.Programs[0].Years) != 12 {
		t.Errorf("full detail is the default, got %d year records", len(batch.Programs[0].Years))
	}
	if batch.Baseline == nil || batch.Baseline.TotalNetWorthK == 0 {
		t.Error("batch should include the baseline")
	}
}

func TestProjectAllCompactMode(t *testing.T) {
	rec := do(t, testServer(t), "/api/networth?compact=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var batch engine.BatchResult
	decode(t, rec, &batch)
	if len(batch.Programs) == 0 {
		t.Fatal("no programs in response")
	}
	if batch.Programs[0].Years != nil {
		t.Error("compact=true should omit the yearly breakdown")
	}
	if batch.Baseline.Years != nil {
		t.Error("compact=true should omit the baseline breakdown")
	}
}

func TestProjectAllRejectsBadParams(t *testing.T) {
	tests := []string{
		"/api/networth?lifestyle=lavish",
		"/api/networth?family_year=14",
		"/api/networth?sort_by=alphabetical",
		"/api/networth?aid_scenario=maybe",
		"/api/networth?limit=-1",
		"/api/networth?baseline_growth=-0.1",
		"/api/networth?compact=maybe",
	}
	s := testServer(t)
	for _, target := range tests {
		if rec := do(t, s, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, expected 400", target, rec.Code)
		}
	}
}

func TestProjectOneEndpoint(t *testing.T) {
	s := testServer(t)

	rec := do(t, s, "/api/networth/1?lifestyle=comfortable")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res engine.Result
	decode(t, rec, &res)
	if res.ProgramID != 1 || len(res.Years) != 12 {
		t.Errorf("result = id %d with %d years", res.ProgramID, len(res.Years))
	}

	if rec := do(t, s, "/api/networth/99"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, expected 404", rec.Code)
	}
	if rec := do(t, s, "/api/networth/abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, expected 400", rec.Code)
	}
	if rec := do(t, s, "/api/networth/2"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unresolved market: status = %d, expected 422", rec.Code)
	}
}

func TestBaselineEndpoint(t *testing.T) {
	rec := do(t, testServer(t), "/api/baseline?baseline_salary=12&baseline_growth=0.1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res engine.BaselineResult
	decode(t, rec, &res)
	if res.Country != "Pakistan" || res.StartSalaryK != 12 {
		t.Errorf("baseline = %+v", res)
	}
}

func TestBaselineZeroGrowth(t *testing.T) {
	rec := do(t, testServer(t), "/api/baseline?baseline_growth=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res engine.BaselineResult
	decode(t, rec, &res)
	if res.GrowthRate != 0 {
		t.Errorf("GrowthRate = %v, an explicit 0 must not fall back to the default", res.GrowthRate)
	}
	for _, yr := range res.Years {
		if yr.GrossSalaryK != res.StartSalaryK {
			t.Errorf("year %d: salary %v should stay flat at %v", yr.Year, yr.GrossSalaryK, res.StartSalaryK)
			break
		}
	}
}

func TestListProgramsEndpoint(t *testing.T) {
	rec := do(t, testServer(t), "/api/programs?field=CS")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count    int               `json:"count"`
		Programs []refdata.Program `json:"programs"`
	}
	decode(t, rec, &body)
	if body.Count != 2 || len(body.Programs) != 2 {
		t.Errorf("count = %d, programs = %d", body.Count, len(body.Programs))
	}
}

func TestErrorResponseShape(t *testing.T) {
	rec := do(t, testServer(t), "/api/networth/99")
	var body errorResponse
	decode(t, rec, &body)
	if body.Error == "" || body.RequestID == "" {
		t.Errorf("error response = %+v", body)
	}
}
