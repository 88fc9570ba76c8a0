package tui

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// mapSize returns the map canvas size for the current window and sidebar
// state; View and the mouse handler must agree on it.
func (m Model) mapSize() (w, h int) {
	sideW := 0
	if m.showSidebar {
		sideW = sidebarWidth
	}
	h = m.height - headerHeight - footerHeight
	if h < 4 {
		h = 4
	}
	w = max(10, m.width) - sideW - 1
	if w < 10 {
		w = 10
	}
	return w, h
}
