package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
)

func TestBlockTransform_ApplyPos(t *testing.T) {
	tr := Rotation(R90).AndThen(Translation(P(10, 0, 0)))
	if got := tr.Apply(P(1, 64, 0)); got != Vector(P(9, 64, 1)) {
		t.Errorf("Apply = %v, want (9, 64, 1)", got)
	}
	if got := tr.Apply(V(1, 64, 0)); got != Vector(V(10, 64, 1)) {
		t.Errorf("Apply(fine) = %v, want (10, 64, 1)", got)
	}
}

func TestBlockTransform_CoarseFollowsBlockCentre(t *testing.T) {
	positions := []Pos{P(0, 0, 0), P(1, 2, 3), P(-5, 70, 9), P(-1, 0, -1)}
	for _, r := range AllRotoflections() {
		tr, err := NewBlockTransform(r.Matrix(), P(3, -2, 7))
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range positions {
			got := tr.ApplyPos(p).Centre()
			want := tr.ApplyVec(p.Centre())
			if got != want {
				t.Errorf("%v: %v maps to block centred %v, want %v", r, p, got, want)
			}
		}
	}
}

func TestBlockTransform_Inverse(t *testing.T) {
	tr, err := NewBlockTransform(RotoflectionOf(ReflectX, R270).Matrix(), P(3, 4, 5))
	if err != nil {
		t.Fatal(err)
	}
	inv := tr.Inverse()
	if inv != tr.Inverse() {
		t.Error("inverse is not cached")
	}
	if got := inv.Inverse(); got != Transform(tr) {
		t.Errorf("inverse of inverse = %v, want the original", got)
	}
	if got := tr.AndThen(inv); got != Transform(Identity()) {
		t.Errorf("t then inverse = %v, want Identity", got)
	}
	if got := tr.Compose(inv); got != Transform(Identity()) {
		t.Errorf("inverse then t = %v, want Identity", got)
	}
	p := P(-7, 12, 40)
	if got := inv.Apply(tr.Apply(p)); got != Vector(p) {
		t.Errorf("round trip of %v = %v", p, got)
	}
}

func TestNewBlockTransform_RejectsNonBlockMatrix(t *testing.T) {
	if _, err := NewBlockTransform(IntMat2{1, 0, 0, 2}, P(0, 0, 0)); !errors.Is(err, ErrNotBlockAligned) {
		t.Errorf("err = %v, want ErrNotBlockAligned", err)
	}
}

func TestIdentity_Singleton(t *testing.T) {
	if Translation(P(0, 0, 0)) != Identity() {
		t.Error("zero translation is not Identity")
	}
	if Rotation(R0) != Identity() {
		t.Error("R0 is not Identity")
	}
	if Rotation(R180).AndThenBlock(Rotation(R180)) != Identity() {
		t.Error("two half turns are not Identity")
	}
	if Identity().Inverse() != Transform(Identity()) {
		t.Error("inverse of Identity is not Identity")
	}
}

func TestBlockTransform_ApplyRotation(t *testing.T) {
	got := Rotation(R90).ApplyRotation(cube.Rotation{0, 10})
	if got.Yaw() != 90 || got.Pitch() != 10 {
		t.Errorf("R90 yaw 0 = %v, want yaw 90 pitch 10", got)
	}
	got = RotoflectionOf(ReflectX, R0).Transform().ApplyRotation(cube.Rotation{90, 0})
	if got.Yaw() != -90 {
		t.Errorf("mirrored yaw 90 = %v, want -90", got.Yaw())
	}
}

func TestBlockTransform_ApplyRotoflection(t *testing.T) {
	tr := Rotation(R90)
	if got := tr.ApplyRotoflection(RotoflectionOf(NoReflection, R90)); got != RotoflectionOf(NoReflection, R180) {
		t.Errorf("ApplyRotoflection = %v, want R180", got)
	}
	if got := tr.ApplyDirection(cube.South); got != cube.West {
		t.Errorf("ApplyDirection(South) = %v, want West", got)
	}
}

func TestAffine_NarrowsToBlockTransform(t *testing.T) {
	got := Translate(V(1, 2, 3)).AndThen(Translate(V(-1, -2, -3)))
	if got != Transform(Identity()) {
		t.Errorf("translate and back = %v, want Identity", got)
	}
	got = Translate(V(1, 2, 3)).AndThen(Rotation(R90))
	if _, ok := got.(*BlockTransform); !ok {
		t.Errorf("integer translation then R90 = %T, want *BlockTransform", got)
	}
}

func TestAffine_ApplyAndInverse(t *testing.T) {
	tr := Scale(V(2, 2, 2)).AndThen(Translate(V(1, 0, 0)))
	if _, ok := tr.(*Affine); !ok {
		t.Fatalf("scale then translate = %T, want *Affine", tr)
	}
	v := V(1, 2, 3)
	got := tr.ApplyVec(v)
	if !got.ApproxEqual(V(3, 4, 6)) {
		t.Errorf("ApplyVec = %v, want (3, 4, 6)", got)
	}
	if back := tr.Inverse().ApplyVec(got); !back.ApproxEqual(v) {
		t.Errorf("inverse = %v, want %v", back, v)
	}
	if got := tr.Apply(P(0, 0, 0)); got != Vector(P(2, 1, 1)) {
		t.Errorf("Apply(coarse) = %v, want (2, 1, 1)", got)
	}
}

func TestRotateY_MatchesBlockRotation(t *testing.T) {
	a := RotateY(math.Pi / 2)
	if got := a.ApplyVec(V(0, 0, -1)); !got.ApproxEqual(V(1, 0, 0)) {
		t.Errorf("north = %v, want east", got)
	}
	if !a.Equal(Rotation(R90)) || !Rotation(R90).Equal(a) {
		t.Error("RotateY(π/2) differs from R90")
	}
	if a.Equal(Rotation(R270)) {
		t.Error("RotateY(π/2) equals R270")
	}
}

func TestAffine_ApplyRotation(t *testing.T) {
	got := RotateY(math.Pi / 2).ApplyRotation(cube.Rotation{0, 0})
	if math.Abs(got.Yaw()-90) > 1e-9 || math.Abs(got.Pitch()) > 1e-9 {
		t.Errorf("rotated yaw 0 = %v, want yaw 90", got)
	}
}
