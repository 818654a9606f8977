package osmand

import (
	"math"
	"strings"

	"github.com/beevik/etree"
)

// DefaultColor stands in for any color expression that cannot be resolved,
// so that style generation always completes.
const DefaultColor = "#000000"

// ColorTable maps rendering attribute names to literal hex colors.
type ColorTable map[string]string

// manualColors patches attribute names whose day-mode value hides behind
// chained variable references the generic extraction cannot follow. A name
// the extraction already resolved to a literal keeps the extracted value.
var manualColors = []struct {
	Name  string
	Color string
}{
	{"tertiaryRoadRouteDetailsColor", "#ffdb93"},
	{"footwayColor", "#fa8c16"},
	{"roadRoadColor", "#cdcdcd"},
	{"bridlewayColor", "#c76817"},
	{"pathColor", "#fa8c16"},
	{"cyclewayColor", "#178fe5"},
}

// ExtractColorTable builds the color lookup table from renderingAttribute
// declarations. Only attributes whose name mentions Color are considered,
// and for each the most general case wins: the one declaring a literal hex
// color while discriminating on the fewest other attributes, which in
// practice is the day-mode default.
func (d *Document) ExtractColorTable() ColorTable {
	table := make(ColorTable)
	forEachElement(d.Root(), func(el *etree.Element) {
		if el.Tag != "renderingAttribute" {
			return
		}
		name := el.SelectAttrValue("name", "")
		if name == "" || !strings.Contains(name, "Color") {
			return
		}
		if color, ok := defaultCaseColor(el); ok {
			table[name] = color
		}
	})
	for _, m := range manualColors {
		if cur, ok := table[m.Name]; ok && strings.HasPrefix(cur, "#") {
			continue
		}
		table[m.Name] = m.Color
	}
	return table
}

// defaultCaseColor scans the cases under a renderingAttribute for literal
// color values and picks the one with the fewest discriminating attributes.
// Ties keep the earliest case in document order.
func defaultCaseColor(attr *etree.Element) (string, bool) {
	best := ""
	bestConds := math.MaxInt
	forEachElement(attr, func(el *etree.Element) {
		if el.Tag != "case" {
			return
		}
		color := el.SelectAttrValue("attrColorValue", "")
		if color == "" || !strings.HasPrefix(color, "#") {
			return
		}
		conds := 0
		for _, a := range el.Attr {
			if a.Space == "" && a.Key == "attrColorValue" {
				continue
			}
			conds++
		}
		if conds < bestConds {
			bestConds = conds
			best = color
		}
	})
	return best, best != ""
}

// Resolve turns a color expression into a literal hex color. A $name
// reference is looked up in the table, a literal #color passes through,
// anything else falls back to DefaultColor.
func (t ColorTable) Resolve(expr string) string {
	switch {
	case strings.HasPrefix(expr, "$"):
		if color, ok := t[expr[1:]]; ok {
			return color
		}
	case strings.HasPrefix(expr, "#"):
		return expr
	}
	return DefaultColor
}
