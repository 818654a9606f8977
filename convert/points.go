package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"o2q/config"
	"o2q/osmand"
	"o2q/qgis"
	"o2q/state"
)

// PointStats tallies the outcomes of one point pipeline run. Everything
// that is not converted is accounted for by exactly one of the skip
// counters.
type PointStats struct {
	Found      int
	Converted  int
	Duplicates int
	NoShield   int
	NoFiles    int
}

// resolvedPoint is a point rule that survived every skip rule: its name is
// unique so far and both asset payloads are loaded.
type resolvedPoint struct {
	Name   string
	Icon   []byte
	Shield []byte
}

// collectPoints runs the resolution half of the point pipeline: extract
// icon rules, resolve shields against the rule's ancestor chain and load
// both asset files, handing survivors to emit in encounter order. Skips
// are tallied, never fatal; only unreadable sources and emit failures
// abort. A skipped rule does not reserve its symbol name, so a later rule
// with the same name still gets its chance, same as duplicate checking
// against the growing output would behave.
func collectPoints(ctx context.Context, doc *osmand.Document, env *state.LocalEnv, log *zap.Logger, emit func(resolvedPoint) error) (PointStats, error) {
	var stats PointStats

	icons, err := openAssetSource(env.Cfg.Style.Points.IconsDir)
	if err != nil {
		return stats, fmt.Errorf("unable to open icons source: %w", err)
	}
	shields, err := openAssetSource(env.Cfg.Style.Points.ShieldsDir)
	if err != nil {
		return stats, fmt.Errorf("unable to open shields source: %w", err)
	}

	rules := doc.ExtractPointRules()
	stats.Found = len(rules)

	emitted := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		name := rule.SymbolName()
		if _, dup := emitted[name]; dup {
			stats.Duplicates++
			continue
		}

		shield, ok := rule.Shield()
		if !ok || len(shield) == 0 {
			stats.NoShield++
			log.Debug("Skipping rule without shield", zap.String("symbol", name))
			continue
		}

		iconData, err := icons.Load(env.Cfg.Style.Points.IconPrefix + rule.Icon + ".svg")
		if errors.Is(err, fs.ErrNotExist) {
			stats.NoFiles++
			log.Debug("Skipping rule, icon file is missing", zap.String("symbol", name), zap.String("icon", rule.Icon))
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("unable to load icon for %s: %w", name, err)
		}

		shieldData, err := shields.Load(env.Cfg.Style.Points.ShieldPrefix + shield + ".svg")
		if errors.Is(err, fs.ErrNotExist) {
			stats.NoFiles++
			log.Debug("Skipping rule, shield file is missing", zap.String("symbol", name), zap.String("shield", shield))
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("unable to load shield for %s: %w", name, err)
		}

		emitted[name] = struct{}{}
		stats.Converted++
		if err := emit(resolvedPoint{Name: name, Icon: iconData, Shield: shieldData}); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// convertPoints builds the point style document: every resolved rule
// becomes a two layer marker symbol with the shield underneath the icon.
func convertPoints(ctx context.Context, doc *osmand.Document, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	style := qgis.NewStyle()
	stats, err := collectPoints(ctx, doc, env, log, func(p resolvedPoint) error {
		style.Add(qgis.NewMarkerSymbol(p.Name, encodeAsset(p.Icon), encodeAsset(p.Shield)))
		return nil
	})
	if err != nil {
		return err
	}

	out := buildOutputPath(src, dst, config.PipelinePoints, env)
	if err := writeStyle(style, out, env, log); err != nil {
		return err
	}

	log.Info("Point symbols generated",
		zap.Int("found", stats.Found),
		zap.Int("converted", stats.Converted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("no_shield", stats.NoShield),
		zap.Int("missing_files", stats.NoFiles),
		zap.String("file", out))
	return nil
}
