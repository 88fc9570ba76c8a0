package tui

import (
	"strings"

	"github.com/paulmach/orb/geojson"

	"kmlmap/internal/geom"
)

// featureHit is a feature picked by inspect, with its index in the collection.
type featureHit struct {
	index   int
	feature *geojson.Feature
}

// cellToLonLat converts a map cell coordinate back to lon/lat using bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	b := m.data.BBox
	if !b.Valid() || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return b.MinX + nx*(b.MaxX-b.MinX), b.MinY + ny*(b.MaxY-b.MinY), true
}

// project returns normalized, zoomed coordinates in [0,1] for the visible extent.
func (m Model) project(lon, lat float64) (float64, float64, bool) {
	b := m.data.BBox
	if !b.Valid() {
		return 0, 0, false
	}
	nx := (lon - b.MinX) / (b.MaxX - b.MinX)
	ny := (lat - b.MinY) / (b.MaxY - b.MinY)
	return 0.5 + (nx-0.5)*m.zoom, 0.5 + (ny-0.5)*m.zoom, true
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.project(lon, lat)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps lon/lat to cell coordinates considering zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	zx, zy, ok := m.project(lon, lat)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

func (m Model) renderMap(w, h int) string {
	lines := make([]string, h)
	blank := strings.Repeat(" ", w)
	for y := range lines {
		lines[y] = blank
	}
	br := newBrailleBuf(w, h)

	if m.showPolys {
		for _, poly := range m.data.Polygons {
			var rings [][][2]int
			for _, ring := range poly {
				var sm [][2]int
				for _, p := range ring {
					if mx, my, ok := m.screenXYMicro(p[0], p[1], w, h); ok {
						sm = append(sm, [2]int{mx, my})
					}
				}
				if len(sm) >= 3 {
					rings = append(rings, sm)
				}
			}
			if len(rings) == 0 {
				continue
			}
			br.fillEvenOdd(rings)
			for _, r := range rings {
				for i := range r {
					a, b := r[i], r[(i+1)%len(r)]
					br.drawLineMicro(a[0], a[1], b[0], b[1])
				}
			}
		}
	}

	if m.showLines {
		for _, ls := range m.data.Lines {
			var prev *[2]int
			for _, p := range ls {
				mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
				if !ok {
					continue
				}
				if prev != nil {
					br.drawLineMicro(prev[0], prev[1], mx, my)
				}
				prev = &[2]int{mx, my}
			}
		}
	}

	if m.showPoints {
		for _, p := range m.data.Points {
			if mx, my, ok := m.screenXYMicro(p[0], p[1], w, h); ok {
				br.setDot(mx, my)
			}
		}
	}

	for y, over := range br.toLines() {
		if y >= h {
			break
		}
		base := []rune(lines[y])
		for x, r := range []rune(over) {
			if x < len(base) && r != ' ' {
				base[x] = r
			}
		}
		lines[y] = string(base)
	}

	// hovered vertex marker
	if m.hovering {
		cx, cy := m.hoverMicX/2, m.hoverMicY/4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				lines[cy] = string(r[:cx]) + hoverStyle.Render("◯") + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// inspectNearest finds the feature with a vertex closest to the map center.
func (m Model) inspectNearest() (featureHit, float64, float64, bool) {
	fc := m.sess.Collection()
	if fc == nil {
		return featureHit{}, 0, 0, false
	}
	w, h := m.mapSize()
	cx, cy := w/2, h/2
	const none = 1<<31 - 1
	bestD := none
	var hit featureHit
	var lon, lat float64
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		for _, p := range geom.Vertices(f.Geometry) {
			sx, sy, ok := m.screenXY(p[0], p[1], w, h)
			if !ok {
				continue
			}
			dx, dy := sx-cx, sy-cy
			if d := dx*dx + dy*dy; d < bestD {
				bestD = d
				hit = featureHit{index: i, feature: f}
				lon, lat = p[0], p[1]
			}
		}
	}
	if bestD == none {
		return featureHit{}, 0, 0, false
	}
	return hit, lon, lat, true
}
