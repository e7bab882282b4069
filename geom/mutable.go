package geom

// MutPos is a mutable block coordinate. Its methods modify the receiver and
// return it for chaining. Operands of fine resolution are applied with fine
// semantics and floored, the same as for Pos.
type MutPos struct {
	p Pos
}

// NewMutPos returns a mutable copy of p.
func NewMutPos(p Pos) *MutPos {
	return &MutPos{p: p}
}

// Coarse, Fine, Block and Elem implement Vector for the current value.
func (m *MutPos) Coarse() bool            { return true }
func (m *MutPos) Fine() Vec               { return m.p.Fine() }
func (m *MutPos) Block() Pos              { return m.p }
func (m *MutPos) Elem() (x, y, z float64) { return m.p.Elem() }

// Pos returns an immutable copy.
func (m *MutPos) Pos() Pos {
	return m.p
}

// Set replaces the value with v, floored if v is fine.
func (m *MutPos) Set(v Vector) *MutPos {
	m.p = v.Block()
	return m
}

// Add adds v in place.
func (m *MutPos) Add(v Vector) *MutPos {
	m.p = m.p.Add(v)
	return m
}

// Sub subtracts v in place.
func (m *MutPos) Sub(v Vector) *MutPos {
	m.p = m.p.Sub(v)
	return m
}

// Mul scales by s in place and floors the result.
func (m *MutPos) Mul(s float64) *MutPos {
	m.p = m.p.Mul(s)
	return m
}

// Neg negates in place.
func (m *MutPos) Neg() *MutPos {
	m.p = m.p.Neg()
	return m
}

// Min keeps the component-wise minimum with v.
func (m *MutPos) Min(v Vector) *MutPos {
	m.p = m.p.Min(v)
	return m
}

// Max keeps the component-wise maximum with v.
func (m *MutPos) Max(v Vector) *MutPos {
	m.p = m.p.Max(v)
	return m
}

// Transform replaces the value with its image under t.
func (m *MutPos) Transform(t Transform) *MutPos {
	m.p = t.Apply(m.p).Block()
	return m
}

// String formats the current value like Pos.
func (m *MutPos) String() string {
	return m.p.String()
}

// MutVec is a mutable fine coordinate. Its methods modify the receiver and
// return it for chaining.
type MutVec struct {
	v Vec
}

// NewMutVec returns a mutable copy of v.
func NewMutVec(v Vec) *MutVec {
	return &MutVec{v: v}
}

// Coarse, Fine, Block and Elem implement Vector for the current value.
func (m *MutVec) Coarse() bool            { return false }
func (m *MutVec) Fine() Vec               { return m.v }
func (m *MutVec) Block() Pos              { return m.v.Block() }
func (m *MutVec) Elem() (x, y, z float64) { return m.v.Elem() }

// Vec returns an immutable copy.
func (m *MutVec) Vec() Vec {
	return m.v
}

// Set replaces the value with v.
func (m *MutVec) Set(v Vector) *MutVec {
	m.v = v.Fine()
	return m
}

// Add adds v in place.
func (m *MutVec) Add(v Vector) *MutVec {
	m.v = m.v.Add(v)
	return m
}

// Sub subtracts v in place.
func (m *MutVec) Sub(v Vector) *MutVec {
	m.v = m.v.Sub(v)
	return m
}

// Mul scales by s in place.
func (m *MutVec) Mul(s float64) *MutVec {
	m.v = m.v.Mul(s)
	return m
}

// Neg negates in place.
func (m *MutVec) Neg() *MutVec {
	m.v = m.v.Neg()
	return m
}

// Min keeps the component-wise minimum with v.
func (m *MutVec) Min(v Vector) *MutVec {
	m.v = m.v.Min(v)
	return m
}

// Max keeps the component-wise maximum with v.
func (m *MutVec) Max(v Vector) *MutVec {
	m.v = m.v.Max(v)
	return m
}

// Normalize scales the vector to length 1.
func (m *MutVec) Normalize() *MutVec {
	m.v = m.v.Unit()
	return m
}

// Transform replaces the value with its image under t.
func (m *MutVec) Transform(t Transform) *MutVec {
	m.v = t.ApplyVec(m.v)
	return m
}

// String formats the current value like Vec.
func (m *MutVec) String() string {
	return m.v.String()
}
