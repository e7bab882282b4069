// Package geom provides block-grid geometry for plex: coarse (block) and fine
// (continuous) vectors, the eight block-aligned rotations and reflections,
// transforms, cuboids, rays and regions.
//
// # Resolutions
//
// A Pos is a coarse, integer block coordinate. A Vec is a fine, real
// coordinate. They are distinct types, so a Pos never equals a Vec even when
// the numbers match:
//
//	geom.Equal(geom.P(1, 2, 3), geom.V(1, 2, 3)) // false
//
// Binary operations accept either resolution. Mixing widens to fine; a Pos
// receiver floors the result back onto the grid:
//
//	geom.P(1, 0, 0).Add(geom.V(0.7, 0, 0)) // Pos{1 0 0}
//	geom.V(1, 0, 0).Add(geom.P(1, 0, 0))   // Vec{2 0 0}
//
// # Transforms
//
// BlockTransform keeps the block grid aligned: an integer translation plus
// one of the eight BlockRotoflection orientations in the X-Z plane. Affine
// covers everything else. Compositions that cancel out return Identity().
//
//	t := geom.Rotation(geom.R90).AndThen(geom.Translation(geom.P(10, 0, 0)))
//	t.Apply(geom.P(1, 64, 0)) // Pos{9 64 1}
//
// # Cuboids
//
// Cuboid is an axis-aligned closed box. Empty() contains nothing and
// Unbounded() contains everything. Block queries clamp Y to [0, BuildHeight).
package geom

// BuildHeight is the exclusive upper bound of block Y coordinates.
const BuildHeight = 256
