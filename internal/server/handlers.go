package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anahmed/career-forecast/internal/engine"
	"github.com/anahmed/career-forecast/internal/refdata"
	"github.com/anahmed/career-forecast/internal/store"
)

// networthQuery binds the projection knobs from the query string. Unset
// fields mean "use the configured default"; explicit values are validated
// before they reach the engine. baseline_growth binds through a pointer
// because an explicit 0 is a valid growth rate.
type networthQuery struct {
	Lifestyle       string   `query:"lifestyle" validate:"omitempty,oneof=frugal comfortable"`
	FamilyYear      int      `query:"family_year" validate:"omitempty,min=1,max=13"`
	BaselineSalaryK float64  `query:"baseline_salary" validate:"omitempty,gt=0"`
	BaselineGrowth  *float64 `query:"baseline_growth" validate:"omitempty,gte=0"`
	AidScenario     string   `query:"aid_scenario" validate:"omitempty,oneof=no_aid expected best_case"`
	SortBy          string   `query:"sort_by" validate:"omitempty,oneof=net_benefit cost y1 y10 networth initial_capital"`
	Limit           int      `query:"limit" validate:"omitempty,gte=0"`
	Field           string   `query:"field"`
	FundingTier     string   `query:"funding_tier"`
	WorkCountry     string   `query:"work_country"`

	// Compact mode strips the per-year breakdown from batch responses;
	// pass compact=true to enable it.
	Compact string `query:"compact" validate:"omitempty,oneof=true false"`
}

func (s *Server) bindNetworthQuery(c echo.Context) (networthQuery, engine.Query, error) {
	var nq networthQuery
	if err := c.Bind(&nq); err != nil {
		return nq, engine.Query{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&nq); err != nil {
		return nq, engine.Query{}, err
	}

	q := engine.Query{Params: s.defaults, SortBy: engine.SortNetBenefit}
	if nq.Lifestyle != "" {
		q.Lifestyle = refdata.Lifestyle(nq.Lifestyle)
	}
	if nq.FamilyYear != 0 {
		q.FamilyYear = nq.FamilyYear
	}
	if nq.BaselineSalaryK != 0 {
		q.BaselineSalaryK = nq.BaselineSalaryK
	}
	if nq.BaselineGrowth != nil {
		q.BaselineGrowth = *nq.BaselineGrowth
	}
	if nq.AidScenario != "" {
		q.AidScenario = engine.AidScenario(nq.AidScenario)
	}
	if nq.SortBy != "" {
		q.SortBy = nq.SortBy
	}
	q.Limit = nq.Limit
	q.Field = nq.Field
	q.FundingTier = nq.FundingTier
	q.WorkCountry = nq.WorkCountry
	return nq, q, nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listPrograms(c echo.Context) error {
	var f store.Filter
	f.Field = c.QueryParam("field")
	f.FundingTier = c.QueryParam("funding_tier")
	f.Country = c.QueryParam("country")
	if raw := c.QueryParam("max_tuition_k"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "max_tuition_k must be numeric")
		}
		f.MaxTuitionK = v
	}
	if raw := c.QueryParam("min_y10_k"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "min_y10_k must be numeric")
		}
		f.MinY10K = v
	}

	programs, err := s.programs.ListPrograms(f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(programs),
		"programs": programs,
	})
}

func (s *Server) projectAll(c echo.Context) error {
	nq, q, err := s.bindNetworthQuery(c)
	if err != nil {
		return err
	}
	batch, err := s.engine.ProjectAll(c.Request().Context(), q)
	if err != nil {
		return err
	}
	if nq.Compact == "true" {
		for _, r := range batch.Programs {
			r.Years = nil
		}
		batch.Baseline.Years = nil
	}
	return c.JSON(http.StatusOK, batch)
}

func (s *Server) projectOne(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "program id must be an integer")
	}
	_, q, err := s.bindNetworthQuery(c)
	if err != nil {
		return err
	}
	program, err := s.engine.Snapshot().ProgramByID(id)
	if err != nil {
		return err
	}
	res, err := s.engine.Project(program, q.Params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) baseline(c echo.Context) error {
	_, q, err := s.bindNetworthQuery(c)
	if err != nil {
		return err
	}
	res, err := s.engine.Baseline(q.Params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// handleError maps the engine's error taxonomy onto HTTP statuses: invalid
// parameters are the caller's fault, unresolved reference data makes a
// single projection unprocessable, and unknown ids are plain 404s.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
	case errors.Is(err, refdata.ErrInvalidParameter):
		code = http.StatusBadRequest
	case errors.Is(err, refdata.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, refdata.ErrUnresolvedMarket),
		errors.Is(err, refdata.ErrUnknownJurisdiction),
		errors.Is(err, refdata.ErrNoCostData):
		code = http.StatusUnprocessableEntity
	}

	if code == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("op", "server.Server.handleError"),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	id, _ := c.Get(contextKeyRequestID).(string)
	if jsonErr := c.JSON(code, errorResponse{Error: msg, RequestID: id}); jsonErr != nil {
		s.logger.Error("failed to write error response",
			zap.String("op", "server.Server.handleError"),
			zap.Error(jsonErr),
		)
	}
}
