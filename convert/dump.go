package convert

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"o2q/osmand"
	"o2q/state"
	"o2q/utils/debug"
)

// dumpExtraction stores a readable summary of everything extracted from the
// rendering style in the debug report. It exists solely for manual inspection
// when a conversion goes sideways and is a no-op unless a report has been
// requested.
func dumpExtraction(doc *osmand.Document, env *state.LocalEnv, log *zap.Logger) {
	if env.Rpt == nil {
		return
	}

	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "style", doc.Root().SelectAttrValue("name", ""))

	colors := doc.ExtractColorTable()
	tw.Line(0, "Color table: %d", len(colors))
	names := slices.Collect(maps.Keys(colors))
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		tw.Line(1, "%s = %s", name, colors[name])
	}

	points := doc.ExtractPointRules()
	tw.Line(0, "Point rules: %d", len(points))
	for _, rule := range points {
		shield, ok := rule.Shield()
		tw.Line(1, "Rule[%s] icon[%s] shield[%q present=%t]", rule.SymbolName(), rule.Icon, shield, ok)
	}

	if roads, err := doc.ExtractRoadRules(colors, roadQuery(env), log); err != nil {
		tw.Line(0, "Road rules: %v", err)
	} else {
		tw.Line(0, "Road rules: %d", len(roads))
		for _, rule := range roads {
			tw.Line(1, "Rule[%s] color[%s] width[%g]", rule.SymbolName(), rule.Color, rule.Width)
		}
	}

	env.Rpt.StoreData("extraction.txt", []byte(tw.String()))
}
