package geom

import "errors"

var (
	// ErrNotFinite is returned by queries that need a finite, non-empty cuboid.
	ErrNotFinite = errors.New("geom: cuboid is not finite")

	// ErrEmpty is returned when a block query selects no blocks.
	ErrEmpty = errors.New("geom: no blocks in range")

	// ErrOutOfRange is returned when a block query does not fit in int
	// coordinates or counts.
	ErrOutOfRange = errors.New("geom: block range out of range")

	// ErrNotBlockAligned is returned when a matrix is not one of the eight
	// block orientations.
	ErrNotBlockAligned = errors.New("geom: matrix is not block aligned")
)
