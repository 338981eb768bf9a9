package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/pkg/constants"
	"github.com/anahmed/career-forecast/pkg/mathutil"
)

// Sort keys accepted by a batch query.
const (
	SortNetBenefit     = "net_benefit"
	SortCost           = "cost"
	SortY1             = "y1"
	SortY10            = "y10"
	SortNetWorth       = "networth"
	SortInitialCapital = "initial_capital"
)

// Query is a batch projection request: the projection parameters plus
// filtering, ranking and truncation of the result set.
type Query struct {
	Params

	// SortBy is one of net_benefit, cost, y1, y10, networth or
	// initial_capital. Cost and initial_capital sort ascending; everything
	// else descending. Ties break on program ID.
	SortBy string `json:"sort_by"`

	// Limit truncates the ranked list after sorting; 0 means no limit.
	Limit int `json:"limit"`

	Field       string `json:"field,omitempty"`
	FundingTier string `json:"funding_tier,omitempty"`
	WorkCountry string `json:"work_country,omitempty"`
}

// DefaultQuery returns a query with default parameters ranked by net benefit.
func DefaultQuery() Query {
	return Query{Params: DefaultParams(), SortBy: SortNetBenefit}
}

// Validate checks the query including its embedded parameters.
func (q Query) Validate() error {
	if err := q.Params.Validate(); err != nil {
		return err
	}
	switch q.SortBy {
	case SortNetBenefit, SortCost, SortY1, SortY10, SortNetWorth, SortInitialCapital:
	default:
		return fmt.Errorf("sort key %q: %w", q.SortBy, refdata.ErrInvalidParameter)
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit %d negative: %w", q.Limit, refdata.ErrInvalidParameter)
	}
	return nil
}

func (q Query) matches(p *refdata.Program) bool {
	if q.Field != "" && !strings.EqualFold(q.Field, p.Field) {
		return false
	}
	if q.FundingTier != "" && !strings.EqualFold(q.FundingTier, p.FundingTier) {
		return false
	}
	return true
}

// ProjectAll projects every program in the snapshot matching the query,
// ranks the survivors and aggregates summary statistics. A program that
// fails resolution is reported under Failures; only parameter errors or a
// failed baseline abort the whole batch.
func (e *Engine) ProjectAll(ctx context.Context, q Query) (*BatchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	baseline, err := e.baseline(q.Params)
	if err != nil {
		return nil, err
	}

	candidates := make([]*refdata.Program, 0, len(e.snap.Programs))
	for i := range e.snap.Programs {
		p := &e.snap.Programs[i]
		if q.matches(p) {
			candidates = append(candidates, p)
		}
	}

	results := make([]*Result, len(candidates))
	failures := make([]*ProgramFailure, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range candidates {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.projectAgainst(p, q.Params, baseline.TotalNetWorthK)
			if err != nil {
				failures[i] = &ProgramFailure{
					ProgramID:  p.ID,
					University: p.University,
					Program:    p.Name,
					Reason:     err.Error(),
				}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchResult{
		Assumptions: Assumptions{
			Params:     q.Params,
			TotalYears: constants.TotalYears,
			SortBy:     q.SortBy,
		},
		Baseline: baseline,
	}
	total := 0
	for i := range candidates {
		if f := failures[i]; f != nil {
			batch.Failures = append(batch.Failures, *f)
			total++
			continue
		}
		r := results[i]
		if q.WorkCountry != "" && !strings.EqualFold(q.WorkCountry, r.WorkCountry) {
			continue
		}
		batch.Programs = append(batch.Programs, r)
		total++
	}

	sortResults(batch.Programs, q.SortBy)
	for i, r := range batch.Programs {
		r.Rank = i + 1
	}
	batch.Summary = summarize(total, batch.Programs)
	if q.Limit > 0 && len(batch.Programs) > q.Limit {
		batch.Programs = batch.Programs[:q.Limit]
	}

	if e.logger != nil {
		e.logger.Info("batch projection complete",
			zap.String("op", "engine.Engine.ProjectAll"),
			zap.Int("projected", batch.Summary.Projected),
			zap.Int("failed", batch.Summary.Failed),
			zap.String("sortBy", q.SortBy),
		)
	}
	return batch, nil
}

// sortResults orders results by the chosen key with program ID as the tie
// break, so equal-valued rows always come back in the same order.
func sortResults(rs []*Result, key string) {
	less := func(a, b *Result) bool { return a.NetBenefitK > b.NetBenefitK }
	switch key {
	case SortCost:
		less = func(a, b *Result) bool { return a.StudyCostK < b.StudyCostK }
	case SortY1:
		less = func(a, b *Result) bool { return a.Y1SalaryK > b.Y1SalaryK }
	case SortY10:
		less = func(a, b *Result) bool { return a.Y10SalaryK > b.Y10SalaryK }
	case SortNetWorth:
		less = func(a, b *Result) bool { return a.TotalNetWorthK > b.TotalNetWorthK }
	case SortInitialCapital:
		less = func(a, b *Result) bool { return a.InitialCapitalUSD < b.InitialCapitalUSD }
	}
	sort.Slice(rs, func(i, j int) bool {
		if less(rs[i], rs[j]) {
			return true
		}
		if less(rs[j], rs[i]) {
			return false
		}
		return rs[i].ProgramID < rs[j].ProgramID
	})
}

func summarize(total int, rs []*Result) Summary {
	s := Summary{
		Total:         total,
		Projected:     len(rs),
		Failed:        total - len(rs),
		ByFundingTier: map[string]GroupStats{},
		ByField:       map[string]GroupStats{},
		ByWorkCountry: map[string]GroupStats{},
	}
	for _, r := range rs {
		if r.NetBenefitK > 0 {
			s.BeatBaseline++
		}
		accumulate(s.ByFundingTier, r.FundingTier, r.NetBenefitK)
		accumulate(s.ByField, r.Field, r.NetBenefitK)
		accumulate(s.ByWorkCountry, r.WorkCountry, r.NetBenefitK)
	}
	finalize(s.ByFundingTier)
	finalize(s.ByField)
	finalize(s.ByWorkCountry)

	byBenefit := make([]*Result, len(rs))
	copy(byBenefit, rs)
	sortResults(byBenefit, SortNetBenefit)
	s.Top = highlights(byBenefit, 5, false)
	s.Bottom = highlights(byBenefit, 5, true)
	return s
}

func accumulate(m map[string]GroupStats, key string, v float64) {
	g, ok := m[key]
	if !ok {
		g = GroupStats{MinK: v, MaxK: v}
	}
	g.Count++
	g.AvgK += v
	if v < g.MinK {
		g.MinK = v
	}
	if v > g.MaxK {
		g.MaxK = v
	}
	m[key] = g
}

func finalize(m map[string]GroupStats) {
	for k, g := range m {
		g.AvgK = mathutil.Round(g.AvgK / float64(g.Count))
		m[k] = g
	}
}

func highlights(sorted []*Result, n int, fromBottom bool) []Highlight {
	if len(sorted) < n {
		n = len(sorted)
	}
	out := make([]Highlight, 0, n)
	for i := 0; i < n; i++ {
		r := sorted[i]
		if fromBottom {
			r = sorted[len(sorted)-1-i]
		}
		out = append(out, Highlight{
			ProgramID:   r.ProgramID,
			University:  r.University,
			Program:     r.Program,
			Field:       r.Field,
			WorkCountry: r.WorkCountry,
			NetBenefitK: r.NetBenefitK,
		})
	}
	return out
}
