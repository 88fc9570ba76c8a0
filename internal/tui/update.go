package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-headerHeight-2) // provisional; will be refined in View
		}
	case documentLoadedMsg:
		m.applyLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		// the alert blocks everything else until dismissed
		if m.alert != "" {
			switch msg.String() {
			case "esc", "enter", " ":
				m.alert = ""
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				m.status = "view mode"
				return m, nil
			case "enter":
				text := strings.TrimSpace(m.ta.Value())
				if text == "" {
					m.status = "paste: empty"
					return m, nil
				}
				if m.loading {
					m.status = "busy: a file is still loading"
					return m, nil
				}
				m.pasteMode = false
				m.ta.Blur()
				m.loading = true
				m.status = "converting pasted KML…"
				return m, convertTextCmd("<pasted>", text)
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.panel == panelGeoJSON {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "home", "end", "k", "j":
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		if m.panel == panelSummary || m.panel == panelDetail || m.panel == panelProps {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.panel = panelMap
			m.inspectPopup = ""
		case "1":
			m.showPoints = !m.showPoints
			m.status = fmt.Sprintf("points: %v", m.showPoints)
		case "2":
			m.showLines = !m.showLines
			m.status = fmt.Sprintf("lines: %v", m.showLines)
		case "3":
			m.showPolys = !m.showPolys
			m.status = fmt.Sprintf("polys: %v", m.showPolys)
		case "+", "=":
			if m.zoom < m.maxZoom {
				m.zoom *= m.zoomStep
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > m.minZoom {
				m.zoom /= m.zoomStep
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-headerHeight-footerHeight-2)
			}
		case "p":
			m.pasteMode = !m.pasteMode
			if m.pasteMode {
				m.ta.SetValue("")
				m.status = "paste mode"
				m.ta.Focus()
			} else {
				m.status = "view mode"
				m.ta.Blur()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "s":
			if m.panel == panelSummary {
				m.panel = panelMap
			} else {
				m.showSummary()
			}
		case "d":
			if m.panel == panelDetail {
				m.panel = panelMap
			} else {
				m.showDetail()
			}
		case "a":
			if m.panel == panelProps {
				m.panel = panelMap
			} else {
				m.showProps()
			}
		case "g":
			switch {
			case m.panel == panelGeoJSON:
				m.panel = panelMap
			case !m.sess.Loaded():
				m.status = "no document loaded"
			default:
				m.panel = panelGeoJSON
				m.status = "GeoJSON: " + m.sess.Name()
			}
		case "i":
			if f, lon, lat, ok := m.inspectNearest(); ok {
				name := m.sess.Name()
				if name == "" {
					name = "<unsaved>"
				}
				title := fmt.Sprintf("#%d", f.index+1)
				if n, ok := f.feature.Properties["name"].(string); ok && n != "" {
					title = n
				}
				b := m.data.BBox
				meta := []string{
					fmt.Sprintf("feature: %s", title),
					fmt.Sprintf("type: %s", f.feature.Geometry.GeoJSONType()),
					fmt.Sprintf("properties: %d", len(f.feature.Properties)),
					fmt.Sprintf("nearest: lon=%.6f lat=%.6f", lon, lat),
					fmt.Sprintf("file: %s", name),
					fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY),
					fmt.Sprintf("features: %d", len(m.sess.Collection().Features)),
					"crs: EPSG:4326",
				}
				if m.selPath != "" {
					meta = append(meta, "path: "+filepath.Dir(m.selPath))
				}
				m.inspectPopup = strings.Join(meta, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no feature nearby"
				m.status = m.inspectPopup
			}
		case "l":
			// toggle all layers
			all := m.showPoints && m.showLines && m.showPolys
			m.showPoints = !all
			m.showLines = !all
			m.showPolys = !all
			m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					return m, m.selectItem(it)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.trackHover(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// trackHover records the map cell under the mouse and the nearest vertex
// to it, in braille micro coordinates.
func (m *Model) trackHover(msg tea.MouseMsg) {
	mapWidth, mapHeight := m.mapSize()
	mapOriginX := 0
	if m.showSidebar {
		mapOriginX = sidebarWidth + 1
	}
	mapOriginY := headerHeight

	cx, cy := msg.X, msg.Y
	if m.panel != panelMap || cx < mapOriginX || cx >= mapOriginX+mapWidth || cy < mapOriginY || cy >= mapOriginY+mapHeight {
		m.hovering = false
		m.hoverHasGeo = false
		return
	}
	m.hovering = true
	m.hoverCellX = cx - mapOriginX
	m.hoverCellY = cy - mapOriginY
	if lon, lat, ok := m.cellToLonLat(m.hoverCellX, m.hoverCellY, mapWidth, mapHeight); ok {
		m.hoverHasGeo = true
		m.hoverLon = lon
		m.hoverLat = lat
	} else {
		m.hoverHasGeo = false
	}
	hxMic := m.hoverCellX * 2
	hyMic := m.hoverCellY * 4
	best := 1<<31 - 1
	bx, by := hxMic, hyMic
	consider := func(p [2]float64) {
		mx, my, ok := m.screenXYMicro(p[0], p[1], mapWidth, mapHeight)
		if !ok {
			return
		}
		dx := mx - hxMic
		dy := my - hyMic
		if d := dx*dx + dy*dy; d < best {
			best = d
			bx, by = mx, my
		}
	}
	for _, p := range m.data.Points {
		consider(p)
	}
	for _, ls := range m.data.Lines {
		for _, p := range ls {
			consider(p)
		}
	}
	for _, poly := range m.data.Polygons {
		for _, ring := range poly {
			for _, p := range ring {
				consider(p)
			}
		}
	}
	m.hoverMicX, m.hoverMicY = bx, by
}
