package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	viewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"kmlmap/internal/config"
	"kmlmap/internal/geom"
	"kmlmap/internal/session"
)

// panel selects what the main area shows.
type panel int

const (
	panelMap panel = iota
	panelSummary
	panelDetail
	panelGeoJSON
	panelProps
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom     float64
	zoomStep float64
	minZoom  float64
	maxZoom  float64
	offsetX  int
	offsetY  int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Document
	sess    *session.Session
	data    geom.Data
	loading bool
	initCmd tea.Cmd

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints bool
	showLines  bool
	showPolys  bool

	// inspect popup
	inspectPopup string

	// blocking notification, dismissed with esc or enter
	alert string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// tables and raw view
	panel panel
	tbl   table.Model
	vp    viewport.Model
}

func New(cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	m := Model{
		showSidebar: false,
		helpVisible: *cfg.Help,
		zoom:        1.0,
		zoomStep:    cfg.Map.ZoomStep,
		minZoom:     cfg.Map.MinZoom,
		maxZoom:     cfg.Map.MaxZoom,
		status:      "kmlmap ready  (Tab to pick a .kml file)",
		showPoints:  *cfg.Layers.Points,
		showLines:   *cfg.Layers.Lines,
		showPolys:   *cfg.Layers.Polygons,
		sess:        session.New(),
	}
	m.cwd = cfg.StartDir
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste KML here. Press Enter to convert; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// table columns are set per view
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.vp = viewport.New(80, 20)
	m.refreshDir()
	return m
}

// NewWithPath queues a file to be loaded when the program starts.
func NewWithPath(cfg *config.Config, path string) Model {
	m := New(cfg)
	m.initCmd = m.open(path)
	return m
}

func (m Model) Init() tea.Cmd { return m.initCmd }
