package geom

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// BlockRotation is a rotation about the Y axis by a whole number of quarter
// turns, clockwise when viewed from above.
type BlockRotation uint8

const (
	R0 BlockRotation = iota
	R90
	R180
	R270
)

// Turns returns the rotation by n clockwise quarter turns. n is taken mod 4, so
// Turns(n) == Turns(n+4) for every n.
func Turns(n int) BlockRotation {
	return BlockRotation(((n % 4) + 4) % 4)
}

// Turns returns the number of clockwise quarter turns, in 0..3.
func (r BlockRotation) Turns() int {
	return int(r & 3)
}

// Add returns r followed by o.
func (r BlockRotation) Add(o BlockRotation) BlockRotation {
	return Turns(r.Turns() + o.Turns())
}

// Inverse returns the rotation that undoes r.
func (r BlockRotation) Inverse() BlockRotation {
	return Turns(-r.Turns())
}

// Degrees returns the clockwise angle of r.
func (r BlockRotation) Degrees() float64 {
	return float64(r.Turns()) * 90
}

// Matrix returns the X-Z matrix of r.
func (r BlockRotation) Matrix() IntMat2 {
	switch r.Turns() {
	case 1:
		return IntMat2{0, -1, 1, 0}
	case 2:
		return IntMat2{-1, 0, 0, -1}
	case 3:
		return IntMat2{0, 1, -1, 0}
	}
	return IdentMat2
}

// Direction rotates a horizontal direction.
func (r BlockRotation) Direction(d cube.Direction) cube.Direction {
	for range r.Turns() {
		d = d.RotateRight()
	}
	return d
}

func (r BlockRotation) String() string {
	return fmt.Sprintf("R%d", r.Turns()*90)
}

// BlockReflection is an optional mirror across the plane x = 0.
type BlockReflection bool

const (
	NoReflection BlockReflection = false
	ReflectX     BlockReflection = true
)

// Add returns r followed by o. Two reflections cancel.
func (r BlockReflection) Add(o BlockReflection) BlockReflection {
	return r != o
}

// Matrix returns the X-Z matrix of r.
func (r BlockReflection) Matrix() IntMat2 {
	if r {
		return IntMat2{-1, 0, 0, 1}
	}
	return IdentMat2
}

func (r BlockReflection) String() string {
	if r {
		return "ReflectX"
	}
	return "NoReflection"
}

// IntMat2 is a 2x2 integer matrix acting on (x, z), stored row-major:
//
//	| A B |
//	| C D |
type IntMat2 struct {
	A, B, C, D int
}

// IdentMat2 is the identity matrix.
var IdentMat2 = IntMat2{1, 0, 0, 1}

// Mul returns m·o, the transform that applies o first and then m.
func (m IntMat2) Mul(o IntMat2) IntMat2 {
	return IntMat2{
		A: m.A*o.A + m.B*o.C,
		B: m.A*o.B + m.B*o.D,
		C: m.C*o.A + m.D*o.C,
		D: m.C*o.B + m.D*o.D,
	}
}

func (m IntMat2) Det() int {
	return m.A*m.D - m.B*m.C
}

func (m IntMat2) Transpose() IntMat2 {
	return IntMat2{m.A, m.C, m.B, m.D}
}

// Apply returns m·(x, z).
func (m IntMat2) Apply(x, z int) (int, int) {
	return m.A*x + m.B*z, m.C*x + m.D*z
}

// Orthogonal reports whether m is one of the eight block orientations: a
// signed permutation matrix.
func (m IntMat2) Orthogonal() bool {
	return m.Mul(m.Transpose()) == IdentMat2 && m.Det()*m.Det() == 1
}

func (m IntMat2) String() string {
	return fmt.Sprintf("[[%d %d] [%d %d]]", m.A, m.B, m.C, m.D)
}

// BlockRotoflection is one of the eight block-aligned orientations: an optional
// reflection across x = 0 followed by a rotation. The zero value is the
// identity.
type BlockRotoflection struct {
	reflect BlockReflection
	rot     BlockRotation
}

// RotoflectionOf returns the orientation that applies refl and then rot.
func RotoflectionOf(refl BlockReflection, rot BlockRotation) BlockRotoflection {
	return BlockRotoflection{reflect: refl, rot: Turns(rot.Turns())}
}

// RotoflectionFromMatrix canonicalises an orthogonal matrix. It returns
// ErrNotBlockAligned for any other matrix.
func RotoflectionFromMatrix(m IntMat2) (BlockRotoflection, error) {
	if !m.Orthogonal() {
		return BlockRotoflection{}, fmt.Errorf("%w: %s", ErrNotBlockAligned, m)
	}
	refl := BlockReflection(m.Det() < 0)
	// m = R·F, and F is its own inverse.
	rm := m.Mul(refl.Matrix())
	for n := range 4 {
		r := Turns(n)
		if r.Matrix() == rm {
			return BlockRotoflection{reflect: refl, rot: r}, nil
		}
	}
	panic("unreachable: orthogonal matrix with no rotation")
}

// AllRotoflections returns the eight orientations, unreflected first.
func AllRotoflections() [8]BlockRotoflection {
	var all [8]BlockRotoflection
	for i := range all {
		all[i] = BlockRotoflection{reflect: i >= 4, rot: Turns(i)}
	}
	return all
}

func (r BlockRotoflection) Reflection() BlockReflection { return r.reflect }
func (r BlockRotoflection) Rotation() BlockRotation     { return r.rot }

// Matrix returns R·F.
func (r BlockRotoflection) Matrix() IntMat2 {
	return r.rot.Matrix().Mul(r.reflect.Matrix())
}

// AndThen returns the orientation that applies r and then o.
func (r BlockRotoflection) AndThen(o BlockRotoflection) BlockRotoflection {
	// F·R(n) = R(-n)·F, so a reflection in o flips the sense of r's rotation.
	if o.reflect {
		return BlockRotoflection{
			reflect: !r.reflect,
			rot:     r.rot.Inverse().Add(o.rot),
		}
	}
	return BlockRotoflection{reflect: r.reflect, rot: r.rot.Add(o.rot)}
}

// Inverse returns the orientation that undoes r.
func (r BlockRotoflection) Inverse() BlockRotoflection {
	if r.reflect {
		// (R·F)⁻¹ = F·R⁻¹ = R·F
		return r
	}
	return BlockRotoflection{rot: r.rot.Inverse()}
}

// Transform returns r as a block transform with no translation.
func (r BlockRotoflection) Transform() *BlockTransform {
	return newBlockTransform(r.Matrix(), Pos{})
}

// Direction maps a horizontal direction.
func (r BlockRotoflection) Direction(d cube.Direction) cube.Direction {
	if r.reflect && (d == cube.East || d == cube.West) {
		d = d.Opposite()
	}
	return r.rot.Direction(d)
}

// Yaw maps a yaw in degrees. Yaw 0 faces +Z and grows clockwise.
func (r BlockRotoflection) Yaw(yaw float64) float64 {
	if r.reflect {
		yaw = -yaw
	}
	return wrapYaw(yaw + r.rot.Degrees())
}

func (r BlockRotoflection) String() string {
	if r.reflect {
		return "ReflectX+" + r.rot.String()
	}
	return r.rot.String()
}
