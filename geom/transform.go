package geom

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is an invertible map of 3D space. Transforms are immutable and
// safe for concurrent use.
type Transform interface {
	// Apply maps v. A coarse vector is mapped by the centre of its block and
	// floored, so the result is coarse as well.
	Apply(v Vector) Vector
	// ApplyVec maps a fine vector.
	ApplyVec(v Vec) Vec
	// ApplyRotation maps a facing.
	ApplyRotation(r cube.Rotation) cube.Rotation
	// AndThen returns the transform that applies this one and then next.
	AndThen(next Transform) Transform
	// Compose returns the transform that applies prev and then this one.
	Compose(prev Transform) Transform
	// Inverse returns the inverse transform.
	Inverse() Transform
	// Matrix returns the homogeneous matrix.
	Matrix() mgl64.Mat4
	// Equal reports whether both transforms have the same matrix.
	Equal(o Transform) bool
}

// epsilon is the relative tolerance of approximate comparisons. Near zero the
// absolute tolerance is epsilon².
const epsilon = 1e-6

var (
	_ Transform = (*BlockTransform)(nil)
	_ Transform = (*Affine)(nil)
)

// BlockTransform is a block-grid aligned transform: one of the eight
// BlockRotoflection orientations in the X-Z plane followed by an integer
// translation.
type BlockTransform struct {
	m IntMat2
	t Pos

	inv atomic.Pointer[BlockTransform]
}

var identity = &BlockTransform{m: IdentMat2}

// Identity returns the identity transform. Compositions that cancel out return
// this same value.
func Identity() *BlockTransform {
	return identity
}

// Translation returns the transform that moves every point by t.
func Translation(t Pos) *BlockTransform {
	return newBlockTransform(IdentMat2, t)
}

// Rotation returns the transform that rotates about the origin's block column.
func Rotation(r BlockRotation) *BlockTransform {
	return newBlockTransform(r.Matrix(), Pos{})
}

// NewBlockTransform returns the transform that applies m and then translates by
// t. m must be one of the eight block orientations.
func NewBlockTransform(m IntMat2, t Pos) (*BlockTransform, error) {
	if !m.Orthogonal() {
		return nil, fmt.Errorf("%w: %s", ErrNotBlockAligned, m)
	}
	return newBlockTransform(m, t), nil
}

func newBlockTransform(m IntMat2, t Pos) *BlockTransform {
	if m == IdentMat2 && t == (Pos{}) {
		return identity
	}
	return &BlockTransform{m: m, t: t}
}

// Rotoflection returns the orientation part.
func (b *BlockTransform) Rotoflection() BlockRotoflection {
	r, _ := RotoflectionFromMatrix(b.m)
	return r
}

// Offset returns the translation part.
func (b *BlockTransform) Offset() Pos {
	return b.t
}

// IntMatrix returns the X-Z matrix.
func (b *BlockTransform) IntMatrix() IntMat2 {
	return b.m
}

// Apply maps v, keeping its resolution.
func (b *BlockTransform) Apply(v Vector) Vector {
	if v.Coarse() {
		return b.ApplyPos(v.Block())
	}
	return b.ApplyVec(v.Fine())
}

// ApplyPos maps the block p.
func (b *BlockTransform) ApplyPos(p Pos) Pos {
	// (M(2p+1) - 1) / 2 is the block whose centre is M applied to p's centre.
	x, z := b.m.Apply(2*p[0]+1, 2*p[2]+1)
	return Pos{(x-1)/2 + b.t[0], p[1] + b.t[1], (z-1)/2 + b.t[2]}
}

// ApplyVec maps a fine vector.
func (b *BlockTransform) ApplyVec(v Vec) Vec {
	return Vec{
		mulInt(b.m.A, v[0]) + mulInt(b.m.B, v[2]) + float64(b.t[0]),
		v[1] + float64(b.t[1]),
		mulInt(b.m.C, v[0]) + mulInt(b.m.D, v[2]) + float64(b.t[2]),
	}
}

// ApplyRotation maps a facing through the rotoflection part.
func (b *BlockTransform) ApplyRotation(r cube.Rotation) cube.Rotation {
	return cube.Rotation{b.Rotoflection().Yaw(r.Yaw()), r.Pitch()}
}

// ApplyRotoflection maps an orientation.
func (b *BlockTransform) ApplyRotoflection(r BlockRotoflection) BlockRotoflection {
	return r.AndThen(b.Rotoflection())
}

// ApplyDirection maps a horizontal direction.
func (b *BlockTransform) ApplyDirection(d cube.Direction) cube.Direction {
	return b.Rotoflection().Direction(d)
}

// AndThen returns b followed by next. Two block transforms stay block aligned.
func (b *BlockTransform) AndThen(next Transform) Transform {
	if n, ok := next.(*BlockTransform); ok {
		return b.AndThenBlock(n)
	}
	if b == identity {
		return next
	}
	return fromMatrix(next.Matrix().Mul4(b.Matrix()))
}

// AndThenBlock is AndThen for two block transforms; the result stays block
// aligned.
func (b *BlockTransform) AndThenBlock(next *BlockTransform) *BlockTransform {
	switch {
	case b == identity:
		return next
	case next == identity:
		return b
	}
	x, z := next.m.Apply(b.t[0], b.t[2])
	return newBlockTransform(next.m.Mul(b.m), Pos{
		x + next.t[0],
		b.t[1] + next.t[1],
		z + next.t[2],
	})
}

// Compose returns prev followed by b.
func (b *BlockTransform) Compose(prev Transform) Transform {
	return prev.AndThen(b)
}

// Inverse returns the cached inverse.
func (b *BlockTransform) Inverse() Transform {
	return b.InverseBlock()
}

// InverseBlock is Inverse for a block transform. The result is computed once
// per transform and cached.
func (b *BlockTransform) InverseBlock() *BlockTransform {
	if b == identity {
		return b
	}
	if inv := b.inv.Load(); inv != nil {
		return inv
	}
	mt := b.m.Transpose()
	x, z := mt.Apply(b.t[0], b.t[2])
	inv := newBlockTransform(mt, Pos{-x, -b.t[1], -z})
	inv.inv.CompareAndSwap(nil, b)
	b.inv.CompareAndSwap(nil, inv)
	return b.inv.Load()
}

// Matrix returns the homogeneous matrix.
func (b *BlockTransform) Matrix() mgl64.Mat4 {
	return mgl64.Mat4FromRows(
		mgl64.Vec4{float64(b.m.A), 0, float64(b.m.B), float64(b.t[0])},
		mgl64.Vec4{0, 1, 0, float64(b.t[1])},
		mgl64.Vec4{float64(b.m.C), 0, float64(b.m.D), float64(b.t[2])},
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// Equal reports whether o has the same matrix.
func (b *BlockTransform) Equal(o Transform) bool {
	if ob, ok := o.(*BlockTransform); ok {
		return b.m == ob.m && b.t == ob.t
	}
	return b.Matrix().ApproxEqualThreshold(o.Matrix(), epsilon)
}

func (b *BlockTransform) String() string {
	if b == identity {
		return "Identity"
	}
	return fmt.Sprintf("BlockTransform(%s, %s)", b.Rotoflection(), b.t)
}

// Affine is a general affine transform of fine space.
type Affine struct {
	m mgl64.Mat4

	inv atomic.Pointer[Affine]
}

// AffineOf wraps a homogeneous matrix. The matrix must be invertible.
func AffineOf(m mgl64.Mat4) *Affine {
	return &Affine{m: m}
}

// Translate returns the affine translation by v.
func Translate(v Vec) *Affine {
	return AffineOf(mgl64.Translate3D(v[0], v[1], v[2]))
}

// Scale returns the affine scale by v about the origin.
func Scale(v Vec) *Affine {
	return AffineOf(mgl64.Scale3D(v[0], v[1], v[2]))
}

// RotateY returns the affine rotation about the Y axis by angle radians,
// clockwise when viewed from above.
func RotateY(angle float64) *Affine {
	// mgl64 turns +X towards -Z for positive angles.
	return AffineOf(mgl64.HomogRotate3DY(-angle))
}

// Apply maps v. Coarse input is mapped by its block centre and floored.
func (a *Affine) Apply(v Vector) Vector {
	if v.Coarse() {
		return a.ApplyVec(v.Block().Centre()).Block()
	}
	return a.ApplyVec(v.Fine())
}

// ApplyVec maps a fine vector.
func (a *Affine) ApplyVec(v Vec) Vec {
	return Vec(mgl64.TransformCoordinate(mgl64.Vec3(v), a.m))
}

// ApplyRotation maps a facing by transforming its direction.
func (a *Affine) ApplyRotation(r cube.Rotation) cube.Rotation {
	d := mgl64.TransformNormal(mgl64.Vec3(facing(r)), a.m)
	return rotationOf(Vec(d))
}

// AndThen returns a followed by next.
func (a *Affine) AndThen(next Transform) Transform {
	if next == Transform(identity) {
		return a
	}
	return fromMatrix(next.Matrix().Mul4(a.m))
}

// Compose returns prev followed by a.
func (a *Affine) Compose(prev Transform) Transform {
	return prev.AndThen(a)
}

// Inverse returns the inverse transform.
func (a *Affine) Inverse() Transform {
	if inv := a.inv.Load(); inv != nil {
		return inv
	}
	inv := &Affine{m: a.m.Inv()}
	inv.inv.Store(a)
	a.inv.CompareAndSwap(nil, inv)
	return a.inv.Load()
}

// Matrix returns the homogeneous matrix.
func (a *Affine) Matrix() mgl64.Mat4 {
	return a.m
}

// Equal reports whether o has the same matrix within a small tolerance.
func (a *Affine) Equal(o Transform) bool {
	return a.m.ApproxEqualThreshold(o.Matrix(), epsilon)
}

func (a *Affine) String() string {
	return fmt.Sprintf("Affine(%v)", a.m)
}

// fromMatrix returns the narrowest transform for m: Identity, a block
// transform or an affine one.
func fromMatrix(m mgl64.Mat4) Transform {
	if b, ok := blockFromMatrix(m); ok {
		return b
	}
	return AffineOf(m)
}

// blockFromMatrix reports whether m is exactly a block transform.
func blockFromMatrix(m mgl64.Mat4) (*BlockTransform, bool) {
	if m.Row(1) != (mgl64.Vec4{0, 1, 0, m.At(1, 3)}) || m.Row(3) != (mgl64.Vec4{0, 0, 0, 1}) {
		return nil, false
	}
	if m.At(0, 1) != 0 || m.At(2, 1) != 0 {
		return nil, false
	}
	for _, rc := range [...][2]int{{0, 0}, {0, 2}, {0, 3}, {1, 3}, {2, 0}, {2, 2}, {2, 3}} {
		if !isInt(m.At(rc[0], rc[1])) {
			return nil, false
		}
	}
	im := IntMat2{int(m.At(0, 0)), int(m.At(0, 2)), int(m.At(2, 0)), int(m.At(2, 2))}
	if !im.Orthogonal() {
		return nil, false
	}
	return newBlockTransform(im, Pos{int(m.At(0, 3)), int(m.At(1, 3)), int(m.At(2, 3))}), true
}

func isInt(v float64) bool {
	return v == math.Trunc(v) && !math.IsInf(v, 0)
}

// mulInt multiplies without turning 0·Inf into NaN.
func mulInt(a int, x float64) float64 {
	if a == 0 {
		return 0
	}
	return float64(a) * x
}

// facing returns the unit look vector of r. Yaw 0 faces +Z, yaw 90 faces -X.
func facing(r cube.Rotation) Vec {
	yaw, pitch := mgl64.DegToRad(r.Yaw()), mgl64.DegToRad(r.Pitch())
	return Vec{
		-math.Cos(pitch) * math.Sin(yaw),
		-math.Sin(pitch),
		math.Cos(pitch) * math.Cos(yaw),
	}
}

// rotationOf is the inverse of facing.
func rotationOf(d Vec) cube.Rotation {
	l := d.Len()
	if l == 0 {
		return cube.Rotation{}
	}
	yaw := mgl64.RadToDeg(math.Atan2(-d[0], d[2]))
	pitch := mgl64.RadToDeg(math.Asin(mgl64.Clamp(-d[1]/l, -1, 1)))
	return cube.Rotation{wrapYaw(yaw), pitch}
}

// wrapYaw normalises a yaw to [-180, 180).
func wrapYaw(yaw float64) float64 {
	yaw = math.Mod(yaw+180, 360)
	if yaw < 0 {
		yaw += 360
	}
	return yaw - 180
}
