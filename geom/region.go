package geom

// Region is a set of points with a bounding cuboid.
type Region interface {
	// Contains reports whether v lies in the region. A coarse vector is
	// tested by the centre of its block.
	Contains(v Vector) bool
	// Bounds returns a cuboid containing the region.
	Bounds() Cuboid
}

var (
	_ Region = Cuboid{}
	_ Region = UnionRegion(nil)
	_ Region = ComplementRegion{}
	_ Region = TransformedRegion{}
)

// UnionRegion contains the points of any of its members.
type UnionRegion []Region

// UnionOf returns the union of regions.
func UnionOf(regions ...Region) UnionRegion {
	return UnionRegion(regions)
}

// Contains reports whether any member contains v.
func (u UnionRegion) Contains(v Vector) bool {
	for _, r := range u {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// Bounds returns the union of the member bounds.
func (u UnionRegion) Bounds() Cuboid {
	out := empty
	for _, r := range u {
		out = Union(out, r.Bounds())
	}
	return out
}

// ComplementRegion contains the points of Original that are not in Subtracted.
type ComplementRegion struct {
	Original   Region
	Subtracted Region
}

// Subtract returns original minus subtracted.
func Subtract(original, subtracted Region) ComplementRegion {
	return ComplementRegion{Original: original, Subtracted: subtracted}
}

// Contains reports whether v is in Original but not in Subtracted.
func (c ComplementRegion) Contains(v Vector) bool {
	return c.Original.Contains(v) && !c.Subtracted.Contains(v)
}

// Bounds shrinks the bounds of Original only when Subtracted is a Cuboid, since
// the bounds of other regions may cover points they do not contain.
func (c ComplementRegion) Bounds() Cuboid {
	if sub, ok := c.Subtracted.(Cuboid); ok {
		return Complement(c.Original.Bounds(), sub)
	}
	return c.Original.Bounds()
}

// TransformedRegion is the image of Region under Transform.
type TransformedRegion struct {
	Region    Region
	Transform Transform
}

// TransformRegion returns the image of r under t.
func TransformRegion(r Region, t Transform) TransformedRegion {
	return TransformedRegion{Region: r, Transform: t}
}

// Contains maps v back through the inverse and tests the source region.
func (t TransformedRegion) Contains(v Vector) bool {
	var f Vec
	if v.Coarse() {
		f = v.Block().Centre()
	} else {
		f = v.Fine()
	}
	return t.Region.Contains(t.Transform.Inverse().ApplyVec(f))
}

// Bounds returns the transformed bounds of the source region.
func (t TransformedRegion) Bounds() Cuboid {
	return t.Region.Bounds().Transform(t.Transform)
}
