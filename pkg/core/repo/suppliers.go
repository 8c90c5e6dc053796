// Package repo declares the interfaces which the use cases layer
// expects from the adapters layer in order to reach the outside world.
// Each flight supplier backend is represented by a FlightSupplier
// implementation (see pkg/adapter/supplier/...), so use cases can
// fan a search out to them without knowing their wire formats.
package repo

import (
	"context"
	"errors"

	"github.com/momeni/flightagg/pkg/core/model"
)

// FlightSupplier is the capability of one flight supplier backend.
type FlightSupplier interface {
	// Name returns the stable supplier identifier, as used in the
	// Supplier field of the produced flights and in diagnostics.
	Name() string

	// Search translates req into the supplier wire format, performs
	// exactly one call, and maps the response into canonical flights.
	// An empty response is reported as an empty slice and a nil error.
	Search(
		ctx context.Context, req *model.FlightSearchRequest,
	) ([]model.Flight, error)
}

// Failure kinds of a FlightSupplier.Search call. Returned errors wrap
// one of these sentinel errors, so they can be told apart by errors.Is.
var (
	ErrTimeout     = errors.New("supplier timeout")
	ErrCircuitOpen = errors.New("supplier circuit is open")
	ErrTransport   = errors.New("supplier transport failure")
	ErrMapping     = errors.New("supplier response mapping failure")
)

// FailureKind returns a short label for the kind of err, suitable for
// logs and metric labels. A nil err gives "ok".
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMapping):
		return "mapping"
	default:
		return "unknown"
	}
}
