package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"o2q/config"
	"o2q/osmand"
	"o2q/qgis"
	"o2q/state"
	"o2q/utils/images"
)

// swatchExtent is the map width in millimeters one road swatch spans; it
// converts millimeter line widths into pixel band heights on the canvas.
const swatchExtent = 12.0

// thumbnail is one rendered preview with the name of the symbol it depicts.
type thumbnail struct {
	Name string
	Img  image.Image
}

// spriteMeta describes one thumbnail's placement in the sprite sheet, in the
// layout web map clients expect alongside the sheet itself.
type spriteMeta struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Width      int `json:"width"`
	Height     int `json:"height"`
	PixelRatio int `json:"pixelRatio"`
}

// Preview is the action behind the preview subcommand. It renders every
// symbol the selected pipelines would emit into PNG thumbnails plus a sprite
// sheet with its metadata, without writing any style documents.
func Preview(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	what, err := config.ParsePipeline(cmd.String("what"))
	if err != nil {
		log.Warn("Unknown pipeline requested, previewing everything", zap.Error(err))
		what = config.PipelineAll
	}
	env.What = what
	env.Overwrite = cmd.Bool("overwrite")
	env.PreviewSize = env.Cfg.Preview.Size
	if size := cmd.Int("size"); size > 0 {
		env.PreviewSize = size
	}

	src, dst, err := resolvePaths(cmd, env)
	if err != nil {
		return err
	}

	log.Info("Preview starting",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.String("pipelines", string(what)),
		zap.Int("size", env.PreviewSize))
	defer func(start time.Time) {
		log.Info("Preview completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	doc, err := readStyleDocument(src, log)
	if err != nil {
		return fmt.Errorf("unable to read rendering style (%s): %w", src, err)
	}

	var points []resolvedPoint
	if env.What.Points() {
		stats, err := collectPoints(ctx, doc, env, log, func(p resolvedPoint) error {
			points = append(points, p)
			return nil
		})
		if err != nil {
			return fmt.Errorf("unable to prepare point symbols: %w", err)
		}
		log.Info("Point symbols prepared",
			zap.Int("found", stats.Found),
			zap.Int("converted", stats.Converted),
			zap.Int("duplicates", stats.Duplicates),
			zap.Int("no_shield", stats.NoShield),
			zap.Int("missing_files", stats.NoFiles))
	}

	var roads []osmand.RoadRule
	if env.What.Roads() {
		if roads, err = collectRoads(doc, env, log); err != nil {
			return fmt.Errorf("unable to prepare road symbols: %w", err)
		}
	}

	if len(points)+len(roads) == 0 {
		log.Warn("Nothing to preview")
		return nil
	}

	outDir := filepath.Join(dst, "previews")
	if _, err := os.Stat(outDir); err == nil && !env.Overwrite {
		return fmt.Errorf("preview directory already exists: %s", outDir)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("unable to create preview directory: %w", err)
	}

	thumbs, err := renderThumbnails(ctx, points, roads, env, 1)
	if err != nil {
		return err
	}
	for _, t := range thumbs {
		out := filepath.Join(outDir, slug.Make(t.Name)+".png")
		if err := imaging.Save(t.Img, out); err != nil {
			return fmt.Errorf("unable to save %s: %w", out, err)
		}
	}
	if err := writeSpriteSheet(thumbs, filepath.Join(outDir, "sprite"), 1); err != nil {
		return err
	}

	// the retina sheet is rendered from scratch, not upscaled
	thumbs2x, err := renderThumbnails(ctx, points, roads, env, 2)
	if err != nil {
		return err
	}
	if err := writeSpriteSheet(thumbs2x, filepath.Join(outDir, "sprite@2x"), 2); err != nil {
		return err
	}

	if err := env.Rpt.StoreCopy("previews", outDir); err != nil {
		log.Warn("Unable to store previews in the report", zap.Error(err))
	}
	log.Info("Previews generated", zap.Int("symbols", len(thumbs)), zap.String("dir", outDir))
	return nil
}

// renderThumbnails renders every symbol at the configured size multiplied by
// scale, point symbols first, keeping encounter order.
func renderThumbnails(ctx context.Context, points []resolvedPoint, roads []osmand.RoadRule, env *state.LocalEnv, scale int) ([]thumbnail, error) {
	size := env.PreviewSize * scale
	out := make([]thumbnail, 0, len(points)+len(roads))

	for _, p := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := renderPointThumbnail(p, size)
		if err != nil {
			return nil, fmt.Errorf("unable to render %s: %w", p.Name, err)
		}
		out = append(out, thumbnail{Name: p.Name, Img: img})
	}
	for _, r := range roads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, thumbnail{Name: r.SymbolName(), Img: renderRoadSwatch(r, env.Cfg.Style.Roads.FillWidthRatio, size)})
	}
	return out, nil
}

// renderPointThumbnail composes the two marker layers the way the symbol
// draws them: the shield filling the canvas, the icon centered on top scaled
// by the same ratio the symbol metrics use.
func renderPointThumbnail(p resolvedPoint, size int) (image.Image, error) {
	shield, err := images.RasterizeSVG(p.Shield, size, size)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize shield: %w", err)
	}
	iconBox := max(int(math.Round(float64(size)*qgis.IconSize/qgis.ShieldSize)), 1)
	icon, err := images.RasterizeSVG(p.Icon, iconBox, iconBox)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize icon: %w", err)
	}

	canvas := imaging.New(size, size, color.NRGBA{})
	canvas = imaging.PasteCenter(canvas, shield)
	// overlaying keeps the shield visible under the icon's transparent parts
	canvas = imaging.OverlayCenter(canvas, icon, 1.0)
	return canvas, nil
}

// renderRoadSwatch draws a horizontal stretch of road the way the line
// symbol layers it: the casing band with the narrower colored fill centered
// on it.
func renderRoadSwatch(rule osmand.RoadRule, ratio float64, size int) image.Image {
	canvas := imaging.New(size, size, color.NRGBA{})

	drawBand(canvas, bandHeight(rule.Width, size), bandColor(qgis.CasingColor))
	drawBand(canvas, bandHeight(rule.Width*ratio, size), bandColor(rule.Color))
	return canvas
}

func bandColor(hex string) color.NRGBA {
	if r, g, b, ok := qgis.ParseHex(hex); ok {
		return color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return color.NRGBA{A: 255}
}

// bandHeight converts a millimeter line width into pixels at the swatch
// scale, at least one pixel so the thinnest roads stay visible.
func bandHeight(width float64, size int) int {
	return max(int(math.Round(width*float64(size)/swatchExtent)), 1)
}

func drawBand(canvas *image.NRGBA, h int, c color.NRGBA) {
	b := canvas.Bounds()
	top := b.Min.Y + (b.Dy()-h)/2
	band := image.Rect(b.Min.X, top, b.Max.X, top+h).Intersect(b)
	draw.Draw(canvas, band, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// buildSpriteSheet lays the thumbnails out in one horizontal strip and
// records where each one landed.
func buildSpriteSheet(thumbs []thumbnail, pixelRatio int) (image.Image, map[string]spriteMeta) {
	var sheetW, sheetH int
	meta := make(map[string]spriteMeta, len(thumbs))
	for _, t := range thumbs {
		b := t.Img.Bounds()
		meta[slug.Make(t.Name)] = spriteMeta{
			X:          sheetW,
			Y:          0,
			Width:      b.Dx(),
			Height:     b.Dy(),
			PixelRatio: pixelRatio,
		}
		sheetW += b.Dx()
		if b.Dy() > sheetH {
			sheetH = b.Dy()
		}
	}

	sheet := imaging.New(sheetW, sheetH, color.NRGBA{})
	x := 0
	for _, t := range thumbs {
		sheet = imaging.Paste(sheet, t.Img, image.Pt(x, 0))
		x += t.Img.Bounds().Dx()
	}
	return sheet, meta
}

func writeSpriteSheet(thumbs []thumbnail, base string, pixelRatio int) error {
	sheet, meta := buildSpriteSheet(thumbs, pixelRatio)
	if err := imaging.Save(sheet, base+".png"); err != nil {
		return fmt.Errorf("unable to save sprite sheet: %w", err)
	}

	f, err := os.Create(base + ".json")
	if err != nil {
		return fmt.Errorf("unable to create sprite metadata: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("unable to encode sprite metadata: %w", err)
	}
	return nil
}
