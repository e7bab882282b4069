package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestEqual_ResolutionExclusive(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want bool
	}{
		{"pos pos", P(1, 2, 3), P(1, 2, 3), true},
		{"vec vec", V(1, 2, 3), V(1, 2, 3), true},
		{"pos vec", P(1, 2, 3), V(1, 2, 3), false},
		{"vec pos", V(1, 2, 3), P(1, 2, 3), false},
		{"pos mutpos", P(1, 2, 3), NewMutPos(P(1, 2, 3)), true},
		{"vec mutvec", V(1, 2, 3), NewMutVec(V(1, 2, 3)), true},
		{"mutpos mutvec", NewMutPos(P(1, 2, 3)), NewMutVec(V(1, 2, 3)), false},
		{"different", P(1, 2, 3), P(3, 2, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVector_MapKeysDoNotMix(t *testing.T) {
	m := map[Vector]bool{P(1, 2, 3): true}
	if m[V(1, 2, 3)] {
		t.Error("fine vector found under a coarse key")
	}
	if !m[P(1, 2, 3)] {
		t.Error("coarse key not found")
	}
}

func TestPos_FineBlockRoundTrip(t *testing.T) {
	for _, p := range []Pos{P(0, 0, 0), P(1, 2, 3), P(-1, -64, -7), P(1<<20, 255, -(1 << 20))} {
		if got := p.Fine().Block(); got != p {
			t.Errorf("%v.Fine().Block() = %v", p, got)
		}
	}
}

// Flooring drops the fractional part, so a fine vector does not survive the
// trip through block coordinates.
func TestVec_BlockFineDoesNotRoundTrip(t *testing.T) {
	v := V(1.5, -0.25, 3)
	b := v.Block()
	if b != P(1, -1, 3) {
		t.Fatalf("Block() = %v, want (1, -1, 3)", b)
	}
	if back := b.Fine(); back == v {
		t.Errorf("%v survived the round trip", v)
	}
}

func TestCrossResolution(t *testing.T) {
	if got := P(1, 0, 0).Add(V(0.7, 0, 0)); got != P(1, 0, 0) {
		t.Errorf("coarse + fine = %v, want (1, 0, 0)", got)
	}
	if got := P(1, 0, 0).Add(V(1.5, 0, 0)); got != P(2, 0, 0) {
		t.Errorf("coarse + fine = %v, want (2, 0, 0)", got)
	}
	if got := V(1, 0, 0).Add(P(1, 0, 0)); got != V(2, 0, 0) {
		t.Errorf("fine + coarse = %v, want (2, 0, 0)", got)
	}
	if got := P(0, 0, 0).Sub(V(0.5, 0, 0)); got != P(-1, 0, 0) {
		t.Errorf("coarse - fine = %v, want (-1, 0, 0)", got)
	}
	if got := P(3, 5, 7).Mul(0.5); got != P(1, 2, 3) {
		t.Errorf("Mul = %v, want (1, 2, 3)", got)
	}
	if got := P(1, 5, -2).Min(V(0.5, 9, -1)); got != P(0, 5, -2) {
		t.Errorf("Min = %v, want (0, 5, -2)", got)
	}
}

func TestPos_Cross(t *testing.T) {
	if got := P(1, 0, 0).Cross(P(0, 1, 0)); got != P(0, 0, 1) {
		t.Errorf("x × y = %v, want z", got)
	}
}

func TestUnit(t *testing.T) {
	if got := V(3, 0, 4).Unit(); !got.ApproxEqual(V(0.6, 0, 0.8)) {
		t.Errorf("Unit = %v", got)
	}
	if got := P(0, 2, 0).Unit(); got != V(0, 1, 0) {
		t.Errorf("coarse Unit = %v, want fine (0, 1, 0)", got)
	}
	if got := P(0, 0, 0).Unit(); !got.IsNaN() {
		t.Errorf("zero Unit = %v, want NaN", got)
	}
}

func TestDistance(t *testing.T) {
	if got := P(0, 0, 0).Distance(V(3, 4, 0)); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := V(1, 1, 1).DistanceSqr(P(2, 2, 2)); got != 3 {
		t.Errorf("DistanceSqr = %v, want 3", got)
	}
}

func TestConversions(t *testing.T) {
	if got := VecOf(mgl64.Vec3{1, 2, 3}).Mgl(); got != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Mgl = %v", got)
	}
	if got := P(1, 2, 3).Centre(); got != V(1.5, 2.5, 3.5) {
		t.Errorf("Centre = %v", got)
	}
	if got := PosOf(P(4, 5, 6).Cube()); got != P(4, 5, 6) {
		t.Errorf("PosOf(Cube) = %v", got)
	}
}

func TestMutPos(t *testing.T) {
	m := NewMutPos(P(1, 1, 1))
	m.Add(P(1, 0, 0)).Mul(2)
	if got := m.Pos(); got != P(4, 2, 2) {
		t.Errorf("Pos = %v, want (4, 2, 2)", got)
	}
	m.Set(V(0.5, -0.5, 9.9))
	if got := m.Pos(); got != P(0, -1, 9) {
		t.Errorf("Set(fine) = %v, want (0, -1, 9)", got)
	}
	if !m.Coarse() {
		t.Error("MutPos is not coarse")
	}
}

func TestMutVec(t *testing.T) {
	m := NewMutVec(V(0, 0, 2))
	m.Normalize().Add(P(1, 0, 0))
	if got := m.Vec(); got != V(1, 0, 1) {
		t.Errorf("Vec = %v, want (1, 0, 1)", got)
	}
	m.Transform(Translation(P(0, 1, 0)))
	if got := m.Vec(); got != V(1, 1, 1) {
		t.Errorf("Transform = %v, want (1, 1, 1)", got)
	}
}
