package tessera

import "github.com/mihiraggarwal/tessera/pkg/model"

// The facade re-exports the shared domain/error types from pkg/model so
// callers only ever need to import pkg/tessera.

type (
	Facility   = model.Facility
	District   = model.District
	Circle     = model.Circle
	Diagnostic = model.Diagnostic

	InvalidInputError       = model.InvalidInputError
	BoundaryNotFoundError   = model.BoundaryNotFoundError
	GeometryDegenerateError = model.GeometryDegenerateError
	RoutingUnavailableError = model.RoutingUnavailableError
	DisconnectedGraphError  = model.DisconnectedGraphError
	NoDataError             = model.NoDataError
	InternalError           = model.InternalError
)
