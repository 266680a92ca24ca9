package opengl

// textureUnits remembers how many texture units were bound since the last drain.
type textureUnits struct {
	count uint32
}

func (u *textureUnits) bind(unit uint32) {
	if unit+1 > u.count {
		u.count = unit + 1
	}
}

// drain returns the units to clear, highest first and always ending with
// unit 0, and resets the tracker.
func (u *textureUnits) drain() []uint32 {
	n := u.count
	if n == 0 {
		n = 1
	}
	units := make([]uint32, 0, n)
	for unit := n; unit > 0; unit-- {
		units = append(units, unit-1)
	}
	u.count = 0
	return units
}
