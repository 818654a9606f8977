// Package convert orchestrates the conversion pipelines: extracted symbology
// rules from an OsmAnd rendering style become QGIS style documents. All work
// is sequential, input documents and assets are read-only and the only output
// is the style files and optionally preview images written at the end.
package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"o2q/archive"
	"o2q/config"
	"o2q/osmand"
	"o2q/qgis"
	"o2q/state"
)

// Run is the action behind the convert subcommand. It resolves source and
// destination, reads the rendering style and runs the selected pipelines.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	what, err := config.ParsePipeline(cmd.String("what"))
	if err != nil {
		log.Warn("Unknown pipeline requested, converting everything", zap.Error(err))
		what = config.PipelineAll
	}
	env.What = what
	env.Overwrite = cmd.Bool("overwrite")

	src, dst, err := resolvePaths(cmd, env)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("pipelines", string(what)))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// resolvePaths derives the source document and destination directory from
// command arguments, falling back to the configured defaults.
func resolvePaths(cmd *cli.Command, env *state.LocalEnv) (src string, dst string, err error) {
	src = cmd.Args().Get(0)
	if len(src) == 0 {
		src = env.Cfg.Style.SourcePath
	}
	if len(src) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return "", "", err
	}

	dst = cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = env.Cfg.Style.OutputPath
	}
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", "", err
	}
	return src, dst, nil
}

// process reads the rendering style once and feeds it to the selected
// pipelines. Any pipeline failure aborts the run: a style with a defective
// gross structure would produce misleading output.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	doc, err := readStyleDocument(src, log)
	if err != nil {
		return fmt.Errorf("unable to read rendering style (%s): %w", src, err)
	}
	dumpExtraction(doc, env, log)

	if env.What.Points() {
		if err := convertPoints(ctx, doc, src, dst, log); err != nil {
			return fmt.Errorf("unable to convert point symbols: %w", err)
		}
	}
	if env.What.Roads() {
		if err := convertRoads(ctx, doc, src, dst, log); err != nil {
			return fmt.Errorf("unable to convert road symbols: %w", err)
		}
	}
	return nil
}

// readStyleDocument loads the rendering style from a plain XML file or from
// a zipped style bundle, whichever the path points at. Bundles are searched
// for the first *.render.xml entry.
func readStyleDocument(path string, log *zap.Logger) (*osmand.Document, error) {
	arch, err := isArchiveFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to check source type: %w", err)
	}

	if !arch {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return osmand.ReadDocument(f, log)
	}

	var doc *osmand.Document
	err = archive.Walk(path, "", func(_ string, f *zip.File) error {
		if !strings.HasSuffix(f.FileHeader.Name, ".render.xml") {
			return nil
		}
		log.Debug("Reading rendering style from bundle", zap.String("entry", f.FileHeader.Name))
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		if doc, err = osmand.ReadDocument(r, log); err != nil {
			return err
		}
		return archive.SkipAll
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("no rendering style found in bundle (%s)", path)
	}
	return doc, nil
}

// writeStyle serializes the assembled style honoring the overwrite setting
// and stores the result in the debug report when one is being collected.
func writeStyle(style *qgis.Style, out string, env *state.LocalEnv, log *zap.Logger) error {
	if _, err := os.Stat(out); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", out)
		}
		log.Warn("Overwriting existing file", zap.String("file", out))
		if err = os.Remove(out); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := style.WriteFile(out); err != nil {
		return err
	}
	env.Rpt.Store("result-"+filepath.Base(out), out)
	return nil
}
