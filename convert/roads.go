package convert

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"o2q/config"
	"o2q/osmand"
	"o2q/qgis"
	"o2q/state"
)

// roadQuery prepares extraction knobs from the configuration.
func roadQuery(env *state.LocalEnv) osmand.RoadQuery {
	return osmand.RoadQuery{
		ClassZoom:    strconv.Itoa(env.Cfg.Style.Roads.ClassZoom),
		WidthZoom:    strconv.Itoa(env.Cfg.Style.Roads.WidthZoom),
		DefaultWidth: env.Cfg.Style.Roads.DefaultWidth,
	}
}

// collectRoads extracts the color table and resolves the road
// classification rules against it, widths taken from the configured
// reference zoom.
func collectRoads(doc *osmand.Document, env *state.LocalEnv, log *zap.Logger) ([]osmand.RoadRule, error) {
	colors := doc.ExtractColorTable()
	log.Info("Color table extracted", zap.Int("colors", len(colors)))

	return doc.ExtractRoadRules(colors, roadQuery(env), log)
}

// convertRoads builds the road style document: every classified highway
// becomes a two layer line symbol, dark casing underneath the colored fill.
func convertRoads(ctx context.Context, doc *osmand.Document, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	rules, err := collectRoads(doc, env, log)
	if err != nil {
		return err
	}

	style := qgis.NewStyle()
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		style.Add(qgis.NewLineSymbol(rule.SymbolName(), rule.Color, rule.Width, env.Cfg.Style.Roads.FillWidthRatio))
	}

	out := buildOutputPath(src, dst, config.PipelineRoads, env)
	if err := writeStyle(style, out, env, log); err != nil {
		return err
	}

	log.Info("Road symbols generated",
		zap.Int("found", len(rules)),
		zap.Int("converted", style.Len()),
		zap.String("file", out))
	return nil
}
