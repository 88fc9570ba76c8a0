package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"kmlmap/internal/geom"
)

// invalidFileAlert is shown when a non-KML file is picked.
const invalidFileAlert = "Please upload a valid KML file."

type fileItem struct {
	title, desc string
	path        string
	isDir       bool
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// documentLoadedMsg carries the result of a background conversion.
type documentLoadedMsg struct {
	path string // empty for pasted text
	name string
	fc   *geojson.FeatureCollection
	err  error
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var dirs, files []list.Item
	if parent := filepath.Dir(m.cwd); parent != m.cwd {
		dirs = append(dirs, fileItem{title: "../", desc: "dir", path: parent, isDir: true})
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		p := filepath.Join(m.cwd, name)
		if e.IsDir() {
			dirs = append(dirs, fileItem{title: name + "/", desc: "dir", path: p, isDir: true})
			continue
		}
		// non-KML files are listed too; picking one raises the alert
		files = append(files, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: p})
	}
	byTitle := func(items []list.Item) func(i, j int) bool {
		return func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() }
	}
	sort.SliceStable(dirs, byTitle(dirs))
	sort.SliceStable(files, byTitle(files))
	m.items = append(dirs, files...)
	m.l.SetItems(m.items)
	if len(files) == 0 {
		m.status = "no files in " + m.cwd
	}
}

// selectItem opens the highlighted sidebar entry.
func (m *Model) selectItem(it fileItem) tea.Cmd {
	if it.isDir {
		m.cwd = it.path
		m.refreshDir()
		m.l.ResetSelected()
		return nil
	}
	return m.open(it.path)
}

// open validates the extension and starts loading p in the background.
// Non-KML files raise the alert and leave the current document untouched.
func (m *Model) open(p string) tea.Cmd {
	if m.loading {
		m.status = "busy: a file is still loading"
		return nil
	}
	if !geom.IsKML(p) {
		m.alert = invalidFileAlert
		m.status = "rejected: " + filepath.Base(p)
		log.Warn().Str("path", p).Msg("Rejected non-KML file")
		return nil
	}
	m.loading = true
	m.status = "loading " + filepath.Base(p) + "…"
	return loadFileCmd(p)
}

func loadFileCmd(p string) tea.Cmd {
	return func() tea.Msg {
		fc, err := geom.LoadKML(p)
		return documentLoadedMsg{path: p, name: filepath.Base(p), fc: fc, err: err}
	}
}

func convertTextCmd(name, text string) tea.Cmd {
	return func() tea.Msg {
		fc, err := geom.ConvertKML(strings.NewReader(text))
		return documentLoadedMsg{name: name, fc: fc, err: err}
	}
}

// applyLoaded installs a finished conversion. Errors keep the previous
// document and are shown both in the status line and as an alert.
func (m *Model) applyLoaded(msg documentLoadedMsg) {
	m.loading = false
	if msg.err != nil {
		log.Error().Err(msg.err).Str("name", msg.name).Msg("Failed to load document")
		m.status = "load error: " + msg.err.Error()
		m.alert = fmt.Sprintf("Could not convert %s:\n%v", msg.name, msg.err)
		return
	}
	m.selPath = msg.path
	m.sess.Replace(msg.name, msg.fc)
	m.data = geom.Extract(msg.fc)

	// reset viewport and derived views for the new document
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.panel = panelMap
	m.inspectPopup = ""
	m.hovering = false
	m.tbl.SetRows(nil)
	if b, err := m.sess.GeoJSON(true); err == nil {
		m.vp.SetContent(string(b))
		m.vp.GotoTop()
	}
	m.status = "loaded: " + msg.name +
		fmt.Sprintf("  features=%d  pts=%d ls=%d poly=%d",
			len(msg.fc.Features), len(m.data.Points), len(m.data.Lines), len(m.data.Polygons))
}
