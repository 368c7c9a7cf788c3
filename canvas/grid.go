package canvas

import "github.com/bodgit/mm1img/level"

// Each object is stored as nine 16-bit fields, one per band
const (
	bandType = iota
	bandZHigh
	bandZLow
	bandFlagsHigh
	bandFlagsLow
	bandSize
	bandChildType
	bandChildFlagsHigh
	bandChildFlagsLow
	numBands
)

type bands [numBands]uint16

// grid holds at most one object per cell
type grid [GridWidth][GridHeight]*level.Object

// cell returns the grid cell for o, false if it lies outside the grid
func cell(o *level.Object) (int, int, bool) {
	x := o.X / Scale
	y := int(o.Y) / Scale
	if x >= GridWidth || y < 0 || y >= GridHeight {
		return 0, 0, false
	}
	return int(x), y, true
}

// place puts o in its cell unless the cell already holds an object with an
// equal or greater Z
func (g *grid) place(o *level.Object) bool {
	x, y, ok := cell(o)
	if !ok {
		return false
	}
	if cur := g[x][y]; cur == nil || cur.Z < o.Z {
		g[x][y] = o
	}
	return true
}

func newGrid(objects []level.Object) *grid {
	g := new(grid)
	for i := range objects {
		g.place(&objects[i])
	}
	return g
}

func pack(hi, lo int8) uint16 {
	return uint16(uint8(hi))<<8 | uint16(uint8(lo))
}

func unpack(v uint16) (int8, int8) {
	return int8(v >> 8), int8(v)
}

func join(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

func toBands(o *level.Object) bands {
	return bands{
		bandType:           pack(o.Type, o.Transformation),
		bandZHigh:          uint16(uint32(o.Z) >> 16),
		bandZLow:           uint16(o.Z),
		bandFlagsHigh:      uint16(o.Flags >> 16),
		bandFlagsLow:       uint16(o.Flags),
		bandSize:           pack(o.Width, o.Height),
		bandChildType:      pack(o.ChildType, o.ChildTransformation),
		bandChildFlagsHigh: uint16(o.ChildFlags >> 16),
		bandChildFlagsLow:  uint16(o.ChildFlags),
	}
}

// fromBands rebuilds the object stored at cell x, y. Fields with no band
// get the values the game uses for "unset".
func fromBands(b bands, x, y int) level.Object {
	o := level.Object{
		X:            uint32(x * Scale),
		Y:            int16(y * Scale),
		Z:            int32(join(b[bandZHigh], b[bandZLow])),
		Flags:        join(b[bandFlagsHigh], b[bandFlagsLow]),
		ChildFlags:   join(b[bandChildFlagsHigh], b[bandChildFlagsLow]),
		ExtendedData: 0,
		LinkID:       -1,
		EffectIndex:  -1,
	}
	o.Type, o.Transformation = unpack(b[bandType])
	o.Width, o.Height = unpack(b[bandSize])
	o.ChildType, o.ChildTransformation = unpack(b[bandChildType])
	return o
}
