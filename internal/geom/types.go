package geom

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box spans a non-zero area.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox

	vertices int
}

// Empty reports whether no vertex was collected.
func (d Data) Empty() bool {
	return d.vertices == 0
}

func (d *Data) extend(pt [2]float64) {
	if d.vertices == 0 {
		d.BBox = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	} else {
		if pt[0] < d.BBox.MinX {
			d.BBox.MinX = pt[0]
		}
		if pt[1] < d.BBox.MinY {
			d.BBox.MinY = pt[1]
		}
		if pt[0] > d.BBox.MaxX {
			d.BBox.MaxX = pt[0]
		}
		if pt[1] > d.BBox.MaxY {
			d.BBox.MaxY = pt[1]
		}
	}
	d.vertices++
}

// pad widens a degenerate box (single point, vertical or horizontal line)
// to a non-zero extent.
func (d *Data) pad() {
	if d.vertices == 0 {
		return
	}
	const eps = 0.001
	if d.BBox.MaxX <= d.BBox.MinX {
		d.BBox.MinX -= eps
		d.BBox.MaxX += eps
	}
	if d.BBox.MaxY <= d.BBox.MinY {
		d.BBox.MinY -= eps
		d.BBox.MaxY += eps
	}
}
