package qgis

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

const (
	symbolTypeMarker = "marker"
	symbolTypeLine   = "line"

	// whiteColor is the literal the consuming application writes for plain
	// white, without the long float form DisplayColor would produce.
	whiteColor   = "255,255,255,255,rgb:1,1,1,1"
	mapUnitScale = "3x:0,0,0,0,0,0"
)

// Marker layer metrics: the shield vector sits underneath and draws larger
// than the icon on top of it.
const (
	shieldOutlineWidth = "0.4"
	iconOutlineWidth   = "0.1"

	// ShieldSize and IconSize are the rendered diameters of the two marker
	// layers in millimeters.
	ShieldSize = 6.8
	IconSize   = 4.4
)

// Road symbols pair a fixed dark gray stroke casing with a colored fill
// drawn narrower than the stroke.
const (
	// CasingColor is the color every road stroke casing is drawn with.
	CasingColor = "#565656"

	// DefaultFillWidthRatio is the fill to stroke width ratio road symbols
	// are generated with unless configured otherwise.
	DefaultFillWidthRatio = 0.8
)

type property struct {
	Name  string
	Value string
}

// newSymbolElement creates the symbol envelope shared by all symbol kinds,
// including the data defined properties placeholder that precedes the
// layers.
func newSymbolElement(kind, name string) *etree.Element {
	sym := etree.NewElement("symbol")
	sym.CreateAttr("type", kind)
	sym.CreateAttr("frame_rate", "10")
	sym.CreateAttr("tags", "OSMAnd")
	sym.CreateAttr("clip_to_extent", "1")
	sym.CreateAttr("is_animated", "0")
	sym.CreateAttr("force_rhr", "0")
	sym.CreateAttr("name", name)
	sym.CreateAttr("alpha", "1")
	appendDataDefinedProperties(sym)
	return sym
}

// appendDataDefinedProperties appends the placeholder block the schema
// requires on every symbol and layer even when nothing is data driven.
func appendDataDefinedProperties(parent *etree.Element) {
	ddp := parent.CreateElement("data_defined_properties")
	m := ddp.CreateElement("Option")
	m.CreateAttr("type", "Map")
	appendTypedOption(m, "QString", "", "name")
	appendBareOption(m, "properties")
	appendTypedOption(m, "QString", "collection", "type")
}

// Typed options carry their attributes in type, value, name order; bare
// options only a name. The order matches what the consuming application
// itself writes on export.
func appendTypedOption(parent *etree.Element, kind, value, name string) {
	opt := parent.CreateElement("Option")
	opt.CreateAttr("type", kind)
	opt.CreateAttr("value", value)
	opt.CreateAttr("name", name)
}

func appendBareOption(parent *etree.Element, name string) {
	opt := parent.CreateElement("Option")
	opt.CreateAttr("name", name)
}

// NewMarkerSymbol builds a two layer point symbol: the shield vector as the
// background and the icon vector on top. Both assets are embedded payloads
// produced by the asset loader, not file references.
func NewMarkerSymbol(name, iconAsset, shieldAsset string) *etree.Element {
	sym := newSymbolElement(symbolTypeMarker, name)
	appendMarkerLayer(sym, shieldAsset, shieldOutlineWidth, formatSize(ShieldSize))
	appendMarkerLayer(sym, iconAsset, iconOutlineWidth, formatSize(IconSize))
	return sym
}

// formatSize renders millimeter metrics the shortest way that round trips.
func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func appendMarkerLayer(sym *etree.Element, asset, outlineWidth, size string) {
	layer := sym.CreateElement("layer")
	layer.CreateAttr("pass", "0")
	layer.CreateAttr("enabled", "1")
	layer.CreateAttr("class", "SvgMarker")
	layer.CreateAttr("locked", "0")

	opts := layer.CreateElement("Option")
	opts.CreateAttr("type", "Map")
	for _, p := range markerLayerProps(asset, outlineWidth, size) {
		appendTypedOption(opts, "QString", p.Value, p.Name)
	}
	appendBareOption(opts, "parameters")

	appendDataDefinedProperties(layer)
}

func markerLayerProps(asset, outlineWidth, size string) []property {
	return []property{
		{"angle", "0"},
		{"color", whiteColor},
		{"fixedAspectRatio", "0"},
		{"horizontal_anchor_point", "1"},
		{"name", asset},
		{"offset", "0,0"},
		{"offset_map_unit_scale", mapUnitScale},
		{"offset_unit", "MM"},
		{"outline_color", whiteColor},
		{"outline_width", outlineWidth},
		{"outline_width_map_unit_scale", mapUnitScale},
		{"outline_width_unit", "MM"},
		{"scale_method", "diameter"},
		{"size", size},
		{"size_map_unit_scale", mapUnitScale},
		{"size_unit", "MM"},
		{"vertical_anchor_point", "1"},
	}
}

// NewLineSymbol builds a two layer road symbol: the dark gray stroke casing
// in pass 0 and the colored fill in pass 1. The stroke keeps the extracted
// width untouched, the fill narrows it by fillRatio and fixes the
// formatting at five decimals.
func NewLineSymbol(name, colorHex string, strokeWidth, fillRatio float64) *etree.Element {
	sym := newSymbolElement(symbolTypeLine, name)
	appendLineLayer(sym, "0", "square", "bevel",
		DisplayColor(CasingColor), strconv.FormatFloat(strokeWidth, 'f', -1, 64))
	appendLineLayer(sym, "1", "round", "round",
		DisplayColor(colorHex), fmt.Sprintf("%.5f", strokeWidth*fillRatio))
	return sym
}

func appendLineLayer(sym *etree.Element, pass, capStyle, joinStyle, color, width string) {
	layer := sym.CreateElement("layer")
	layer.CreateAttr("pass", pass)
	layer.CreateAttr("enabled", "1")
	layer.CreateAttr("class", "SimpleLine")
	layer.CreateAttr("locked", "0")

	opts := layer.CreateElement("Option")
	opts.CreateAttr("type", "Map")
	for _, p := range lineLayerProps(capStyle, joinStyle, color, width) {
		appendTypedOption(opts, "QString", p.Value, p.Name)
	}

	appendDataDefinedProperties(layer)
}

func lineLayerProps(capStyle, joinStyle, color, width string) []property {
	return []property{
		{"align_dash_pattern", "0"},
		{"capstyle", capStyle},
		{"customdash", "5;2"},
		{"customdash_map_unit_scale", mapUnitScale},
		{"customdash_unit", "MM"},
		{"dash_pattern_offset", "0"},
		{"dash_pattern_offset_map_unit_scale", mapUnitScale},
		{"dash_pattern_offset_unit", "MM"},
		{"draw_inside_polygon", "0"},
		{"joinstyle", joinStyle},
		{"line_color", color},
		{"line_style", "solid"},
		{"line_width", width},
		{"line_width_unit", "MM"},
		{"offset", "0"},
		{"offset_map_unit_scale", mapUnitScale},
		{"offset_unit", "MM"},
		{"ring_filter", "0"},
		{"trim_distance_end", "0"},
		{"trim_distance_end_map_unit_scale", mapUnitScale},
		{"trim_distance_end_unit", "MM"},
		{"trim_distance_start", "0"},
		{"trim_distance_start_map_unit_scale", mapUnitScale},
		{"trim_distance_start_unit", "MM"},
		{"tweak_dash_pattern_on_corners", "0"},
		{"use_custom_dash", "0"},
		{"width_map_unit_scale", mapUnitScale},
	}
}
