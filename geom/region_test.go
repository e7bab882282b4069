package geom

import "testing"

func TestUnionRegion(t *testing.T) {
	u := UnionOf(
		Between(V(0, 0, 0), V(1, 1, 1)),
		Between(V(5, 0, 0), V(6, 1, 1)),
	)
	if !u.Contains(V(0.5, 0.5, 0.5)) || !u.Contains(V(5.5, 0.5, 0.5)) {
		t.Error("union misses a member point")
	}
	if u.Contains(V(3, 0.5, 0.5)) {
		t.Error("union contains the gap between members")
	}
	if got, want := u.Bounds(), Between(V(0, 0, 0), V(6, 1, 1)); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
	if got := UnionOf().Bounds(); got != Empty() {
		t.Errorf("empty union Bounds = %v", got)
	}
}

func TestComplementRegion(t *testing.T) {
	orig := Between(V(0, 0, 0), V(10, 10, 10))
	hole := Between(V(4, 4, 4), V(6, 6, 6))
	r := Subtract(orig, hole)
	if !r.Contains(P(1, 1, 1)) {
		t.Error("complement misses a point outside the hole")
	}
	if r.Contains(P(5, 5, 5)) {
		t.Error("complement contains the hole")
	}
	if got := r.Bounds(); got != orig {
		t.Errorf("Bounds = %v, want %v", got, orig)
	}

	slab := Subtract(orig, Between(V(-1, -1, -1), V(3, 11, 11)))
	if got, want := slab.Bounds(), Between(V(3, 0, 0), V(10, 10, 10)); got != want {
		t.Errorf("slab Bounds = %v, want %v", got, want)
	}

	// Bounds of a non-cuboid subtraction are not trusted.
	gappy := Subtract(orig, UnionOf(Between(V(-1, -1, -1), V(3, 11, 11))))
	if got := gappy.Bounds(); got != orig {
		t.Errorf("union subtraction Bounds = %v, want %v", got, orig)
	}
}

func TestTransformedRegion(t *testing.T) {
	box := Between(V(0, 0, 0), V(2, 1, 1))
	tr := Rotation(R90).AndThen(Translation(P(10, 0, 0)))
	r := TransformRegion(box, tr)
	for _, p := range []Pos{P(0, 0, 0), P(1, 0, 0)} {
		img := tr.Apply(p)
		if !r.Contains(img) {
			t.Errorf("image %v of %v not contained", img, p)
		}
	}
	if r.Contains(P(0, 0, 0)) {
		t.Error("transformed region contains the untransformed origin block")
	}
	if got, want := r.Bounds(), box.Transform(tr); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
	for _, p := range []Pos{P(9, 0, 0), P(9, 0, 1)} {
		if !r.Bounds().Contains(p) {
			t.Errorf("Bounds miss %v", p)
		}
	}
}
