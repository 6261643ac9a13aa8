package carver

import (
	"fmt"
)

// Orientation tells whether a seam crosses the image top to bottom or left to right.
type Orientation int

const (
	// Vertical seams hold one column index per row.
	Vertical Orientation = iota
	// Horizontal seams hold one row index per column.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Seam is a connected path of pixels crossing the image.
// Adjacent indices of Path never differ by more than one.
type Seam struct {
	Orientation Orientation
	Path        []int
}

// DPTable is the cumulative minimum energy table used to find vertical seams.
type DPTable struct {
	width  int
	height int
	table  []float64
}

// Get cumulative energy value
func (dpt *DPTable) get(x, y int) float64 {
	return dpt.table[x+y*dpt.width]
}

// Set cumulative energy value
func (dpt *DPTable) set(x, y int, px float64) {
	dpt.table[x+y*dpt.width] = px
}

// FindSeam returns the connected path of minimum cumulative energy
// for the requested orientation.
func FindSeam(e *EnergyMap, o Orientation) (Seam, error) {
	if e == nil || e.Width < 1 || e.Height < 1 {
		return Seam{}, fmt.Errorf("%w: empty energy map", ErrDegenerateMap)
	}
	if len(e.Data) != e.Width*e.Height {
		return Seam{}, fmt.Errorf("%w: %d values for a %dx%d map",
			ErrDegenerateMap, len(e.Data), e.Width, e.Height)
	}

	switch o {
	case Vertical:
	case Horizontal:
		e = e.transpose()
	default:
		return Seam{}, fmt.Errorf("%w: unknown orientation %v", ErrDegenerateMap, o)
	}

	dpt := computeSeams(e)
	return Seam{
		Orientation: o,
		Path:        dpt.lowestEnergySeam(),
	}, nil
}

// computeSeams computes the cumulative minimum energy M by the following logic:
//   - the first row is a copy of the energy map;
//   - traversing the map from the second row down, every entry is the sum of its
//     own energy and the minimum of the (up to three) connected entries of the previous row.
//
// Neighbors outside the map are left out of the minimum.
func computeSeams(e *EnergyMap) *DPTable {
	dpt := &DPTable{
		width:  e.Width,
		height: e.Height,
		table:  make([]float64, len(e.Data)),
	}
	copy(dpt.table[:e.Width], e.Data[:e.Width])

	for y := 1; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			min := dpt.get(x, y-1)
			if x > 0 {
				if left := dpt.get(x-1, y-1); left < min {
					min = left
				}
			}
			if x < e.Width-1 {
				if right := dpt.get(x+1, y-1); right < min {
					min = right
				}
			}
			dpt.set(x, y, e.Get(x, y)+min)
		}
	}
	return dpt
}

// lowestEnergySeam walks the table from the last row upward.
// It starts at the leftmost minimum of the last row and on every row above
// picks the predecessor with the lowest cumulative energy, preferring on ties
// the pixel straight above, then the left one, then the right one.
func (dpt *DPTable) lowestEnergySeam() []int {
	path := make([]int, dpt.height)

	px := 0
	last := dpt.height - 1
	for x := 1; x < dpt.width; x++ {
		if dpt.get(x, last) < dpt.get(px, last) {
			px = x
		}
	}
	path[last] = px

	for y := last - 1; y >= 0; y-- {
		next, min := px, dpt.get(px, y)
		if px > 0 {
			if left := dpt.get(px-1, y); left < min {
				next, min = px-1, left
			}
		}
		if px < dpt.width-1 {
			if right := dpt.get(px+1, y); right < min {
				next = px + 1
			}
		}
		px = next
		path[y] = px
	}
	return path
}
