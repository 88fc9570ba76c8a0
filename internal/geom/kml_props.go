package geom

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

type kmlTimeStamp struct {
	When string `xml:"when"`
}

type kmlTimeSpan struct {
	Begin string `xml:"begin"`
	End   string `xml:"end"`
}

type kmlLineStyle struct {
	Color string `xml:"color"`
	Width string `xml:"width"`
}

type kmlPolyStyle struct {
	Color   string `xml:"color"`
	Fill    string `xml:"fill"`
	Outline string `xml:"outline"`
}

type kmlStyle struct {
	LineStyle *kmlLineStyle `xml:"LineStyle"`
	PolyStyle *kmlPolyStyle `xml:"PolyStyle"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type kmlExtended struct {
	Data       []kmlData       `xml:"Data"`
	SimpleData []kmlSimpleData `xml:"SchemaData>SimpleData"`
}

func (pm kmlPlacemark) fillProperties(props geojson.Properties) {
	setString := func(key, v string) {
		if v = strings.TrimSpace(v); v != "" {
			props[key] = v
		}
	}
	setString("name", pm.Name)
	setString("address", pm.Address)
	if url := strings.TrimSpace(pm.StyleURL); url != "" {
		if !strings.HasPrefix(url, "#") {
			url = "#" + url
		}
		props["styleUrl"] = url
	}
	setString("description", pm.Description)
	if ts := pm.TimeSpan; ts != nil {
		props["timespan"] = map[string]interface{}{
			"begin": strings.TrimSpace(ts.Begin),
			"end":   strings.TrimSpace(ts.End),
		}
	}
	if pm.TimeStamp != nil {
		props["timestamp"] = strings.TrimSpace(pm.TimeStamp.When)
	}
	if st := pm.Style; st != nil {
		if ls := st.LineStyle; ls != nil {
			color, opacity, ok := kmlColor(ls.Color)
			if color != "" {
				props["stroke"] = color
			}
			if ok {
				props["stroke-opacity"] = opacity
			}
			if w, err := strconv.ParseFloat(strings.TrimSpace(ls.Width), 64); err == nil {
				props["stroke-width"] = w
			}
		}
		if ps := st.PolyStyle; ps != nil {
			color, opacity, ok := kmlColor(ps.Color)
			if color != "" {
				props["fill"] = color
			}
			if ok {
				props["fill-opacity"] = opacity
			}
			applyToggle(props, "fill-opacity", ps.Fill)
			applyToggle(props, "stroke-opacity", ps.Outline)
		}
	}
	if ext := pm.Extended; ext != nil {
		for _, d := range ext.Data {
			if d.Name != "" {
				props[d.Name] = strings.TrimSpace(d.Value)
			}
		}
		for _, d := range ext.SimpleData {
			if d.Name != "" {
				props[d.Name] = strings.TrimSpace(d.Value)
			}
		}
	}
	if pm.Visibility != nil {
		props["visibility"] = strings.TrimSpace(*pm.Visibility)
	}
}

// applyToggle handles PolyStyle fill/outline flags: "0" forces the opacity
// to zero, "1" keeps an explicit opacity or defaults it to one.
func applyToggle(props geojson.Properties, key, flag string) {
	switch strings.TrimSpace(flag) {
	case "":
	case "1":
		if _, ok := props[key]; !ok {
			props[key] = 1.0
		}
	default:
		props[key] = 0.0
	}
}

// kmlColor converts a KML aabbggrr color to a CSS "#rrggbb" color and an
// opacity in [0,1]. Six and three digit values are taken as plain RGB with
// no opacity.
func kmlColor(v string) (color string, opacity float64, hasOpacity bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	switch len(v) {
	case 3, 6, 8:
	default:
		return "", 0, false
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return "", 0, false
	}
	if len(v) != 8 {
		return "#" + v, 0, false
	}
	return "#" + v[6:8] + v[4:6] + v[2:4], float64(n>>24) / 255, true
}
