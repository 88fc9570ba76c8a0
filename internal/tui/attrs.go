package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb/geojson"
)

// setTable replaces the table contents. Rows are padded or truncated to the
// column count.
func (m *Model) setTable(cols []table.Column, rows []table.Row) {
	colCount := len(cols)
	for i := range rows {
		cells := []string(rows[i])
		if len(cells) < colCount {
			pad := make([]string, colCount-len(cells))
			cells = append(cells, pad...)
		} else if len(cells) > colCount {
			cells = cells[:colCount]
		}
		rows[i] = table.Row(cells)
	}
	// clear rows first so the old rows never render against the new columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.tbl.GotoTop()
}

// showSummary fills the table with feature counts per geometry type.
func (m *Model) showSummary() {
	counts, ok := m.sess.Summary()
	if !ok {
		m.status = "no document loaded"
		return
	}
	rows := make([]table.Row, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, table.Row{c.Type, strconv.Itoa(c.Count)})
	}
	m.setTable([]table.Column{
		{Title: "Element Type", Width: 16},
		{Title: "Count", Width: 8},
	}, rows)
	m.panel = panelSummary
	m.status = fmt.Sprintf("element count: %d tracked of %d features", counts.Total(), len(m.sess.Collection().Features))
}

// showDetail fills the table with total length per line geometry type.
// With no line geometries the map stays in front.
func (m *Model) showDetail() {
	lengths, ok := m.sess.Detail()
	if !ok {
		m.status = "no document loaded"
		return
	}
	if len(lengths) == 0 {
		m.status = "no LineString or MultiLineString features"
		if m.panel == panelDetail {
			m.panel = panelMap
		}
		return
	}
	rows := make([]table.Row, 0, len(lengths))
	for _, l := range lengths {
		rows = append(rows, table.Row{l.Type, l.Display()})
	}
	m.setTable([]table.Column{
		{Title: "Element Type", Width: 18},
		{Title: "Total Length", Width: 16},
	}, rows)
	m.panel = panelDetail
	m.status = "detailed element info"
}

// showProps fills the table with one row per feature and one column per
// property key.
func (m *Model) showProps() {
	fc := m.sess.Collection()
	if fc == nil {
		m.status = "no document loaded"
		return
	}
	keys, rows := buildAttributes(fc)
	if len(rows) == 0 {
		m.status = "no features in current document"
		return
	}
	cols := make([]table.Column, 0, len(keys)+2)
	cols = append(cols, table.Column{Title: "#", Width: 4}, table.Column{Title: "type", Width: 18})
	maxColW := 24
	for _, k := range keys {
		w := len(k) + 2
		if w < 8 {
			w = 8
		}
		if w > maxColW {
			w = maxColW
		}
		cols = append(cols, table.Column{Title: k, Width: w})
	}
	m.setTable(cols, rows)
	m.panel = panelProps
	m.status = fmt.Sprintf("properties: %d features, %d keys", len(rows), len(keys))
}

// buildAttributes unions property keys across features (sorted) and returns
// one row per feature: index, geometry type, then values in key order.
func buildAttributes(fc *geojson.FeatureCollection) ([]string, []table.Row) {
	seen := map[string]bool{}
	var keys []string
	for _, f := range fc.Features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	rows := make([]table.Row, 0, len(fc.Features))
	for i, f := range fc.Features {
		gt := ""
		if f.Geometry != nil {
			gt = f.Geometry.GeoJSONType()
		}
		row := make(table.Row, 0, len(keys)+2)
		row = append(row, strconv.Itoa(i+1), gt)
		for _, k := range keys {
			row = append(row, formatValue(f.Properties[k]))
		}
		rows = append(rows, row)
	}
	return keys, rows
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
