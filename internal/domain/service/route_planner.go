package service

import (
	"context"

	"itinero/internal/domain/entity"
)

// RoutePlanner obtains a driven path between an ordered coordinate
// sequence from an external routing engine. Implementations interpret only
// the first returned alternative and convert engine-native units into the
// summary's kilometers and minutes.
type RoutePlanner interface {
	// PlanRoute requires len(positions) >= 2; the caller guards shorter
	// sequences. An error means the engine was unreachable or returned a
	// response that could not be interpreted.
	PlanRoute(ctx context.Context, positions []entity.Coordinate) (*entity.RoutePath, error)
}
