package geom

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestEmpty_ContainsNothing(t *testing.T) {
	e := Empty()
	for _, v := range []Vector{P(0, 0, 0), V(0, 0, 0), V(math.Inf(1), 0, 0), NaN} {
		if e.Contains(v) {
			t.Errorf("Empty() contains %v", v)
		}
	}
	if e.ContainsCuboid(Between(P(0, 0, 0), P(1, 1, 1))) {
		t.Error("Empty() contains a cuboid")
	}
	if !e.ContainsCuboid(Empty()) {
		t.Error("Empty() does not contain Empty()")
	}
	if Empty() != Empty() {
		t.Error("Empty() != Empty()")
	}
	if Empty() == Between(P(0, 0, 0), P(0, 0, 0)) {
		t.Error("Empty() equals a point cuboid")
	}
	if e.Volume() != 0 {
		t.Errorf("Volume = %v, want 0", e.Volume())
	}
	if n, err := e.BlockVolume(); n != 0 || err != nil {
		t.Errorf("BlockVolume = %d, %v, want 0, nil", n, err)
	}
	if !e.Min().IsNaN() || !e.Max().IsNaN() || !e.Centre().IsNaN() || !e.Size().IsNaN() {
		t.Error("derived points of Empty() are not NaN")
	}
}

func TestBetween(t *testing.T) {
	c := Between(V(3, 0, -1), P(1, 2, 4))
	if c.Min() != V(1, 0, -1) || c.Max() != V(3, 2, 4) {
		t.Errorf("Between = %v", c)
	}
	if got := Between(V(math.NaN(), 0, 0), P(1, 1, 1)); got != Empty() {
		t.Errorf("Between with NaN = %v, want Empty()", got)
	}
	if got := Between(P(1, 1, 1), V(0, 0, math.NaN())); got != Empty() {
		t.Errorf("Between with NaN = %v, want Empty()", got)
	}
}

func TestContains_Closed(t *testing.T) {
	c := Between(V(0, 0, 0), V(2, 2, 2))
	tests := []struct {
		v    Vector
		want bool
	}{
		{V(0, 0, 0), true},
		{V(2, 2, 2), true},
		{V(1, 2, 0.5), true},
		{V(2.0001, 1, 1), false},
		{P(1, 1, 1), true},
		{P(2, 1, 1), false},
		{P(-1, 0, 0), false},
	}
	for _, tt := range tests {
		if got := c.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestIntersect(t *testing.T) {
	a := Between(V(0, 0, 0), V(4, 4, 4))
	b := Between(V(2, -1, 1), V(6, 3, 3))
	if got, want := Intersect(a, b), Between(V(2, 0, 1), V(4, 3, 3)); got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got := Intersect(a, Unbounded()); got != a {
		t.Errorf("Intersect(a, Unbounded()) = %v, want %v", got, a)
	}
	if got := Intersect(Unbounded(), a); got != a {
		t.Errorf("Intersect(Unbounded(), a) = %v, want %v", got, a)
	}
	if got := Intersect(a, Between(V(5, 5, 5), V(6, 6, 6))); got != Empty() {
		t.Errorf("disjoint Intersect = %v, want Empty()", got)
	}
	if got := Intersect(a, Empty()); got != Empty() {
		t.Errorf("Intersect with Empty() = %v", got)
	}
	if !a.Intersects(Between(V(4, 4, 4), V(5, 5, 5))) {
		t.Error("touching cuboids do not intersect")
	}
}

func TestUnion(t *testing.T) {
	a := Between(V(0, 0, 0), V(1, 1, 1))
	b := Between(V(3, -1, 0), V(4, 0, 2))
	if got, want := Union(a, b, Empty()), Between(V(0, -1, 0), V(4, 1, 2)); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := Union(Empty(), a); got != a {
		t.Errorf("Union(Empty(), a) = %v", got)
	}
}

func TestComplement(t *testing.T) {
	orig := Between(V(0, 0, 0), V(10, 10, 10))
	tests := []struct {
		name string
		sub  Cuboid
		want Cuboid
	}{
		{"spans y z covers low x", Between(V(-1, -1, -1), V(3, 11, 11)), Between(V(3, 0, 0), V(10, 10, 10))},
		{"spans x y covers high z", Between(V(-1, -1, 8), V(11, 11, 20)), Between(V(0, 0, 0), V(10, 10, 8))},
		{"does not span z", Between(V(-1, -1, 2), V(3, 11, 11)), orig},
		{"middle slab", Between(V(4, -1, -1), V(6, 11, 11)), orig},
		{"disjoint", Between(V(20, 20, 20), V(30, 30, 30)), orig},
		{"covers all", Unbounded(), Empty()},
		{"empty", Empty(), orig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Complement(orig, tt.sub); got != tt.want {
				t.Errorf("Complement = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockQueries(t *testing.T) {
	c := Between(V(0.5, -3, 1), V(2, 300, 1.5))
	lo, err := c.MinBlock()
	if err != nil {
		t.Fatal(err)
	}
	hi, err := c.MaxBlock()
	if err != nil {
		t.Fatal(err)
	}
	if lo != P(0, 0, 1) || hi != P(1, BuildHeight-1, 1) {
		t.Errorf("blocks %v..%v, want (0, 0, 1)..(1, 255, 1)", lo, hi)
	}
	n, err := c.BlockVolume()
	if err != nil || n != 2*BuildHeight {
		t.Errorf("BlockVolume = %d, %v, want %d", n, err, 2*BuildHeight)
	}

	seq, err := c.Blocks()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for p := range seq {
		if p.Y() < 0 || p.Y() >= BuildHeight {
			t.Fatalf("block %v outside the build height", p)
		}
		count++
	}
	if count != n {
		t.Errorf("Blocks yielded %d, want %d", count, n)
	}
}

func TestBlockQueries_Errors(t *testing.T) {
	if _, err := Unbounded().MinBlock(); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Unbounded MinBlock err = %v", err)
	}
	if _, err := Empty().MaxBlock(); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Empty MaxBlock err = %v", err)
	}
	if _, err := Empty().Blocks(); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Empty Blocks err = %v", err)
	}
	below := Between(V(0, -10, 0), V(1, -5, 1))
	if _, err := below.MinBlock(); !errors.Is(err, ErrEmpty) {
		t.Errorf("below the world MinBlock err = %v, want ErrEmpty", err)
	}
	if n, err := below.BlockVolume(); n != 0 || err != nil {
		t.Errorf("below the world BlockVolume = %d, %v", n, err)
	}
	if _, err := Unbounded().RandomPoint(rand.New(rand.NewPCG(1, 2))); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Unbounded RandomPoint err = %v", err)
	}
	if _, err := Unbounded().BBox(); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Unbounded BBox err = %v", err)
	}
}

func TestBlockCuboid(t *testing.T) {
	c := BlockCuboid(P(2, 5, 2), P(0, 3, 1))
	if c.Min() != V(0, 3, 1) || c.Max() != V(3, 6, 3) {
		t.Errorf("BlockCuboid = %v", c)
	}
	if n, _ := c.BlockVolume(); n != 3*3*2 {
		t.Errorf("BlockVolume = %d, want 18", n)
	}
}

func TestRandomPoint(t *testing.T) {
	c := Between(V(-1, 10, 3), V(2, 12, 3.5))
	r := rand.New(rand.NewPCG(7, 11))
	for range 100 {
		p, err := c.RandomPoint(r)
		if err != nil {
			t.Fatal(err)
		}
		if !c.Contains(p) {
			t.Fatalf("RandomPoint %v outside %v", p, c)
		}
	}
}

func TestBBox_RoundTrip(t *testing.T) {
	c := Between(V(0, 1, 2), V(3, 4, 5))
	b, err := c.BBox()
	if err != nil {
		t.Fatal(err)
	}
	if got := CuboidOf(b); got != c {
		t.Errorf("CuboidOf(BBox) = %v, want %v", got, c)
	}
}

func TestCuboid_Transform(t *testing.T) {
	c := Between(V(0, 0, 0), V(2, 1, 1))
	got := c.Transform(Rotation(R90))
	if want := Between(V(-1, 0, 0), V(0, 1, 2)); got != want {
		t.Errorf("Transform = %v, want %v", got, want)
	}
	if got := Unbounded().Transform(Rotation(R90).AndThen(Translation(P(1, 2, 3)))); got != Unbounded() {
		t.Errorf("Unbounded under a block transform = %v", got)
	}
	if got := Empty().Transform(Rotation(R90)); got != Empty() {
		t.Errorf("Empty under a transform = %v", got)
	}
}

func TestExpandTranslate(t *testing.T) {
	c := Between(V(0, 0, 0), V(2, 2, 2))
	if got := c.Translate(P(1, 0, 0)); got != Between(V(1, 0, 0), V(3, 2, 2)) {
		t.Errorf("Translate = %v", got)
	}
	if got := c.Expand(V(1, 1, 1)); got != Between(V(-1, -1, -1), V(3, 3, 3)) {
		t.Errorf("Expand = %v", got)
	}
	if got := c.Expand(V(-2, 0, 0)); got != Empty() {
		t.Errorf("shrink past zero = %v, want Empty()", got)
	}
}

func TestTranslateExpand_NaN(t *testing.T) {
	c := Between(V(0, 0, 0), V(1, 1, 1))
	tests := []struct {
		name string
		got  Cuboid
	}{
		{"translate", c.Translate(V(math.NaN(), 0, 0))},
		{"expand", c.Expand(V(0, math.NaN(), 0))},
		{"affine", c.Transform(Translate(V(0, 0, math.NaN())))},
		{"inf against inf", Unbounded().Translate(V(math.Inf(1), 0, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != Empty() {
				t.Errorf("got %v, want Empty()", tt.got)
			}
			if tt.got.Contains(V(0.5, 0.5, 0.5)) {
				t.Error("NaN cuboid contains a point")
			}
			if v := tt.got.Volume(); v != 0 {
				t.Errorf("Volume = %v, want 0", v)
			}
		})
	}
}

func TestBlockQueries_OutOfRange(t *testing.T) {
	wide := Between(V(0, 0, 0), V(1e10, 1e10, 1e10))
	if n, err := wide.BlockVolume(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("BlockVolume = %d, %v, want ErrOutOfRange", n, err)
	}
	if _, err := wide.MaxBlock(); err != nil {
		t.Errorf("MaxBlock err = %v, want nil", err)
	}

	huge := Between(V(0, 0, 0), V(1e300, 1, 1))
	if p, err := huge.MaxBlock(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("MaxBlock = %v, %v, want ErrOutOfRange", p, err)
	}
	if _, err := huge.Blocks(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Blocks err = %v, want ErrOutOfRange", err)
	}
	if _, err := Between(V(-1e300, 0, 0), V(0, 1, 1)).MinBlock(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("MinBlock err = %v, want ErrOutOfRange", err)
	}
}

func TestBlocks_OverlapWiderThanContains(t *testing.T) {
	thin := Between(V(0.2, 0, 0), V(0.4, 1, 1))
	seq, err := thin.Blocks()
	if err != nil {
		t.Fatal(err)
	}
	var got []Pos
	for p := range seq {
		got = append(got, p)
	}
	if len(got) != 1 || got[0] != P(0, 0, 0) {
		t.Fatalf("Blocks = %v, want [P(0, 0, 0)]", got)
	}
	if thin.Contains(P(0, 0, 0)) {
		t.Error("thin cuboid contains the centre of P(0, 0, 0)")
	}
	if !BlockCuboid(P(0, 0, 0), P(0, 0, 0)).Contains(P(0, 0, 0)) {
		t.Error("block cuboid does not contain its own block")
	}
}
