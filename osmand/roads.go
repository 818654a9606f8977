package osmand

import (
	"errors"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoLineSection is returned when the style has no line rendering section
// to extract road rules from.
var ErrNoLineSection = errors.New("rendering style has no line section")

// RoadRule describes one highway class with its already resolved color and
// the stroke width declared for the reference zoom.
type RoadRule struct {
	Value string
	Color string
	Width float64
}

// SymbolName returns the name the rule publishes under, "Road " followed by
// the title-cased class with underscores as spaces ("living_street" becomes
// "Road Living Street").
func (r RoadRule) SymbolName() string {
	titled := cases.Title(language.Und).String(strings.ReplaceAll(r.Value, "_", " "))
	return "Road " + titled
}

// RoadQuery carries the knobs used to locate road classification rules.
// The zoom values mirror how one particular style generation organizes its
// line section; changing them changes which switch groupings and which
// width cases are considered.
type RoadQuery struct {
	// ClassZoom selects the switch groupings whose cases classify highways.
	ClassZoom string
	// WidthZoom selects the width case whose strokeWidth is extracted.
	WidthZoom string
	// DefaultWidth is used when no usable width rule exists in the subtree.
	DefaultWidth float64
}

// DefaultRoadQuery returns the thresholds current styles are organized
// around.
func DefaultRoadQuery() RoadQuery {
	return RoadQuery{ClassZoom: "14", WidthZoom: "16", DefaultWidth: 2.0}
}

// supplementalRoads covers well known highway subtypes the classification
// switches do not encode directly. Colors are expressions resolved against
// the color table at extraction time; widths are fixed.
var supplementalRoads = []struct {
	Value string
	Color string
	Width float64
}{
	{"service", "$serviceRoadColor", 1.5},
	{"pedestrian", "$pedestrianRoadColor", 1.2},
	{"footway", "$footwayColor", 1.0},
	{"cycleway", "$cyclewayColor", 1.0},
	{"path", "$pathColor", 1.0},
	{"bridleway", "$bridlewayColor", 1.0},
	{"steps", "$footwayColor", 1.0},
	{"living_street", "$residentialRoadColor", 1.8},
	{"road", "$roadRoadColor", 1.5},
}

// ExtractRoadRules collects the highway classes declared in the first line
// section: every case under a classification switch that matches on
// tag="highway" and declares both value and color. The first occurrence of
// each class wins, later duplicates are dropped. Supplemental classes are
// appended afterwards unless the document already declared them.
func (d *Document) ExtractRoadRules(colors ColorTable, q RoadQuery, log *zap.Logger) ([]RoadRule, error) {
	line := findElement(d.Root(), "line")
	if line == nil {
		return nil, ErrNoLineSection
	}

	var rules []RoadRule
	seen := make(map[string]struct{})
	forEachElement(line, func(sw *etree.Element) {
		if sw.Tag != "switch" || sw.SelectAttrValue("minzoom", "") != q.ClassZoom {
			return
		}
		forEachElement(sw, func(el *etree.Element) {
			if el.Tag != "case" || el.SelectAttrValue("tag", "") != "highway" {
				return
			}
			value := el.SelectAttrValue("value", "")
			color := el.SelectAttrValue("color", "")
			if value == "" || color == "" {
				return
			}
			if _, dup := seen[value]; dup {
				return
			}
			seen[value] = struct{}{}
			rule := RoadRule{
				Value: value,
				Color: colors.Resolve(color),
				Width: extractStrokeWidth(el, q.WidthZoom, q.DefaultWidth),
			}
			rules = append(rules, rule)
			log.Debug("Extracted highway class",
				zap.String("value", rule.Value),
				zap.String("color", rule.Color),
				zap.Float64("width", rule.Width))
		})
	})

	for _, s := range supplementalRoads {
		if _, dup := seen[s.Value]; dup {
			continue
		}
		rules = append(rules, RoadRule{Value: s.Value, Color: colors.Resolve(s.Color), Width: s.Width})
	}
	return rules, nil
}

// strokeWidthCandidates returns, in document order, every case below road
// that declares a strokeWidth and sits inside an apply grouping. Width
// declarations outside an apply configure other aspects of the rule and are
// not candidates.
func strokeWidthCandidates(road *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(el *etree.Element, inApply bool)
	walk = func(el *etree.Element, inApply bool) {
		if inApply && el.Tag == "case" && el.SelectAttr("strokeWidth") != nil {
			out = append(out, el)
		}
		for _, child := range el.ChildElements() {
			walk(child, inApply || el.Tag == "apply")
		}
	}
	for _, child := range road.ChildElements() {
		walk(child, false)
	}
	return out
}

// extractStrokeWidth picks the stroke width declared for the target zoom in
// the width rules nested under a road case. Cases capping at the target
// zoom (maxzoom) are preferred over cases starting at it (minzoom), which
// are preferred over any width case at all; within each tier the first
// candidate in document order with a parsable width wins. Compound widths
// of the form "W:W2" keep the part before the colon.
func extractStrokeWidth(road *etree.Element, zoom string, def float64) float64 {
	candidates := strokeWidthCandidates(road)
	pick := func(match func(*etree.Element) bool) (float64, bool) {
		for _, c := range candidates {
			if !match(c) {
				continue
			}
			if w, err := parseStrokeWidth(c.SelectAttrValue("strokeWidth", "")); err == nil {
				return w, true
			}
		}
		return 0, false
	}
	if w, ok := pick(func(c *etree.Element) bool { return c.SelectAttrValue("maxzoom", "") == zoom }); ok {
		return w
	}
	if w, ok := pick(func(c *etree.Element) bool { return c.SelectAttrValue("minzoom", "") == zoom }); ok {
		return w
	}
	if w, ok := pick(func(*etree.Element) bool { return true }); ok {
		return w
	}
	return def
}

// parseStrokeWidth parses a strokeWidth attribute value, dropping the
// secondary part of compound "W:W2" widths.
func parseStrokeWidth(v string) (float64, error) {
	if i := strings.IndexByte(v, ':'); i >= 0 {
		v = v[:i]
	}
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}
