package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	mapWidth, mapHeight := m.mapSize()

	header := titleStyle.Render(" kmlmap ─ KML viewer ")
	if name := m.sess.Name(); name != "" {
		header += dimStyle.Render(" " + name)
	}
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, mapHeight-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var main string
	switch {
	case m.alert != "":
		box := alertStyle.Render(m.alert + "\n\n" + dimStyle.Render("esc/enter to dismiss"))
		main = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		main = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	case m.panel == panelSummary:
		main = m.renderTable("Element Count", mapWidth, mapHeight)
	case m.panel == panelDetail:
		main = m.renderTable("Detailed Element Info", mapWidth, mapHeight)
	case m.panel == panelProps:
		main = m.renderTable("Properties", mapWidth, mapHeight)
	case m.panel == panelGeoJSON:
		m.vp.Width = mapWidth
		m.vp.Height = max(1, mapHeight-1)
		title := titleStyle.Render("GeoJSON") + dimStyle.Render(fmt.Sprintf("  %3.f%%", m.vp.ScrollPercent()*100))
		main = lipgloss.JoinVertical(lipgloss.Left, title, m.vp.View())
	default:
		main = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(mapWidth, mapHeight))
		if m.inspectPopup != "" {
			box := boxStyle.MaxWidth(min(48, mapWidth)).Render(m.inspectPopup)
			main = lipgloss.Place(mapWidth, mapHeight, lipgloss.Left, lipgloss.Top, box)
		}
	}

	body := main
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
	}

	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo && m.panel == panelMap {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	spacerW := max(0, contentWidth-lipgloss.Width(status)-lipgloss.Width(coords))
	first := lipgloss.JoinHorizontal(lipgloss.Bottom, status, strings.Repeat(" ", spacerW), coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left, first, m.renderHelp()))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// renderTable draws the shared table in a titled box centered in the main area.
func (m Model) renderTable(title string, w, h int) string {
	colW := 0
	for _, c := range m.tbl.Columns() {
		colW += c.Width + 2
	}
	boxW := min(w, max(32, colW+4))
	m.tbl.SetWidth(boxW - 4)
	m.tbl.SetHeight(min(h-4, len(m.tbl.Rows())+1))
	box := boxStyle.Width(boxW).Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), m.tbl.View()))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"Enter open",
		"p paste",
		"s count",
		"d length",
		"g geojson",
		"a props",
		"i inspect",
		"1/2/3/l layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
