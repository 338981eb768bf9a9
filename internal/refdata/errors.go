package refdata

import "errors"

// Typed failures shared by the projection modules. Callers match with
// errors.Is after wrapping with the failing key.
var (
	// ErrUnknownJurisdiction indicates tax data is missing for a resolved
	// work country or state.
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

	// ErrNoCostData indicates no living-cost entry was resolvable even
	// through the city -> default city -> country fallback chain.
	ErrNoCostData = errors.New("no living cost data")

	// ErrUnresolvedMarket indicates a primary-market string with no mapping
	// and no heuristic match.
	ErrUnresolvedMarket = errors.New("unresolved market")

	// ErrInvalidParameter indicates a query parameter outside its documented
	// range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound indicates a program lookup by id matched nothing.
	ErrNotFound = errors.New("not found")
)
