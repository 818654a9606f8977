package qgis

import (
	"fmt"
	"strconv"
	"strings"
)

// fallbackDisplayColor is emitted for anything that is not a six digit hex
// color, opaque black in both channel representations.
const fallbackDisplayColor = "0,0,0,255,rgb:0,0,0,1"

// ParseHex splits a "#rrggbb" color into its channels. ok is false for
// anything that is not a six digit hex color.
func ParseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimLeft(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(rv), uint8(gv), uint8(bv), true
}

// DisplayColor converts a "#rrggbb" color into the combined encoding the
// style format embeds: integer channels 0-255, a constant full opacity
// channel, and a normalized float triplet at ten digit precision, all in
// one comma separated string.
func DisplayColor(hex string) string {
	r, g, b, ok := ParseHex(hex)
	if !ok {
		return fallbackDisplayColor
	}
	return fmt.Sprintf("%d,%d,%d,255,rgb:%.10f,%.10f,%.10f,1",
		r, g, b, float64(r)/255, float64(g)/255, float64(b)/255)
}
