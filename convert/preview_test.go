package convert

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	cli "github.com/urfave/cli/v3"

	"o2q/config"
	"o2q/osmand"
)

func TestRenderPointThumbnail(t *testing.T) {
	p := resolvedPoint{
		Name:   "amenity:cafe",
		Icon:   []byte(sampleSVG),
		Shield: []byte(sampleSVG),
	}

	img, err := renderPointThumbnail(p, 64)
	if err != nil {
		t.Fatalf("renderPointThumbnail() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("bounds = %v, want 64x64", b)
	}

	// circle shapes cover the center but leave the corners transparent
	if _, _, _, a := img.At(32, 32).RGBA(); a == 0 {
		t.Error("center pixel is transparent, expected shield and icon coverage")
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Error("corner pixel is opaque, expected transparent background")
	}
}

func TestRenderPointThumbnail_BadAsset(t *testing.T) {
	p := resolvedPoint{
		Name:   "amenity:cafe",
		Icon:   []byte("not an svg"),
		Shield: []byte(sampleSVG),
	}
	if _, err := renderPointThumbnail(p, 64); err == nil {
		t.Error("Expected error for unparsable icon, got nil")
	}
}

func TestRenderRoadSwatch(t *testing.T) {
	rule := osmand.RoadRule{Value: "motorway", Color: "#e892a2", Width: 6}

	img := renderRoadSwatch(rule, 0.8, 64)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("bounds = %v, want 64x64", b)
	}
	canvas, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("swatch is %T, want *image.NRGBA", img)
	}

	// stroke band 32px, fill band 26px, both centered
	if got, want := canvas.NRGBAAt(5, 32), (color.NRGBA{R: 232, G: 146, B: 162, A: 255}); got != want {
		t.Errorf("fill pixel = %v, want %v", got, want)
	}
	if got, want := canvas.NRGBAAt(5, 17), (color.NRGBA{R: 86, G: 86, B: 86, A: 255}); got != want {
		t.Errorf("casing pixel = %v, want %v", got, want)
	}
	if got := canvas.NRGBAAt(5, 2); got.A != 0 {
		t.Errorf("background pixel = %v, want transparent", got)
	}
}

func TestBandHeight(t *testing.T) {
	tests := []struct {
		width float64
		size  int
		want  int
	}{
		{6, 64, 32},
		{4.8, 64, 26},
		{2, 64, 11},
		{1, 64, 5},
		// footways at tiny preview sizes still get one pixel
		{0.05, 64, 1},
	}
	for _, tc := range tests {
		if got := bandHeight(tc.width, tc.size); got != tc.want {
			t.Errorf("bandHeight(%v, %d) = %d, want %d", tc.width, tc.size, got, tc.want)
		}
	}
}

func TestBandColor(t *testing.T) {
	if got, want := bandColor("#565656"), (color.NRGBA{R: 86, G: 86, B: 86, A: 255}); got != want {
		t.Errorf("bandColor(#565656) = %v, want %v", got, want)
	}
	if got, want := bandColor("garbage"), (color.NRGBA{A: 255}); got != want {
		t.Errorf("bandColor(garbage) = %v, want %v", got, want)
	}
}

func TestBuildSpriteSheet(t *testing.T) {
	thumbs := []thumbnail{
		{Name: "amenity:cafe", Img: imaging.New(64, 64, color.NRGBA{R: 255, A: 255})},
		{Name: "Road Motorway", Img: imaging.New(32, 32, color.NRGBA{G: 255, A: 255})},
	}

	sheet, meta := buildSpriteSheet(thumbs, 1)
	if b := sheet.Bounds(); b.Dx() != 96 || b.Dy() != 64 {
		t.Errorf("sheet bounds = %v, want 96x64", b)
	}

	cafe, ok := meta["amenity-cafe"]
	if !ok {
		t.Fatalf("amenity-cafe missing from metadata: %v", meta)
	}
	if cafe.X != 0 || cafe.Y != 0 || cafe.Width != 64 || cafe.Height != 64 || cafe.PixelRatio != 1 {
		t.Errorf("amenity-cafe meta = %+v", cafe)
	}

	road, ok := meta["road-motorway"]
	if !ok {
		t.Fatalf("road-motorway missing from metadata: %v", meta)
	}
	if road.X != 64 || road.Width != 32 || road.Height != 32 {
		t.Errorf("road-motorway meta = %+v", road)
	}
}

func TestWriteSpriteSheet(t *testing.T) {
	base := filepath.Join(t.TempDir(), "sprite")
	thumbs := []thumbnail{
		{Name: "amenity:cafe", Img: imaging.New(16, 16, color.NRGBA{R: 255, A: 255})},
		{Name: "Road Path", Img: imaging.New(16, 16, color.NRGBA{B: 255, A: 255})},
	}

	if err := writeSpriteSheet(thumbs, base, 2); err != nil {
		t.Fatalf("writeSpriteSheet() error = %v", err)
	}

	sheet, err := imaging.Open(base + ".png")
	if err != nil {
		t.Fatalf("open sheet: %v", err)
	}
	if b := sheet.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("sheet bounds = %v, want 32x16", b)
	}

	raw, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"") {
		t.Error("metadata should be indented")
	}

	var meta map[string]spriteMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("parse metadata: %v", err)
	}
	if len(meta) != 2 {
		t.Fatalf("expected 2 metadata entries, got %d", len(meta))
	}
	if m := meta["road-path"]; m.X != 16 || m.Width != 16 || m.PixelRatio != 2 {
		t.Errorf("road-path meta = %+v", m)
	}
}

func TestPreview_EndToEnd(t *testing.T) {
	ctx, _, tmpDir := setupPipelineEnv(t)
	src := writeSampleStyle(t, tmpDir)
	dst := filepath.Join(tmpDir, "out")

	run := func(extra ...string) error {
		cmd := &cli.Command{
			Name: "preview",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "what", Value: config.PipelineAll.String()},
				&cli.IntFlag{Name: "size"},
				&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}},
			},
			Action: Preview,
		}
		args := append([]string{"preview", "--size", "16"}, extra...)
		return cmd.Run(ctx, append(args, src, dst))
	}

	if err := run(); err != nil {
		t.Fatalf("preview run: %v", err)
	}

	outDir := filepath.Join(dst, "previews")
	for _, name := range []string{"amenity-cafe.png", "amenity-bench.png", "road-motorway.png", "road-living-street.png", "sprite.png", "sprite.json", "sprite@2x.png", "sprite@2x.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	thumb, err := imaging.Open(filepath.Join(outDir, "amenity-cafe.png"))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("thumbnail bounds = %v, want 16x16", b)
	}

	// 2 point symbols and 11 road classes
	assertMeta := func(file string, wantSize, wantRatio int) {
		raw, err := os.ReadFile(filepath.Join(outDir, file))
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		var meta map[string]spriteMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			t.Fatalf("parse %s: %v", file, err)
		}
		if len(meta) != 13 {
			t.Errorf("%s: expected 13 entries, got %d", file, len(meta))
		}
		if m := meta["amenity-cafe"]; m.Width != wantSize || m.PixelRatio != wantRatio {
			t.Errorf("%s: amenity-cafe meta = %+v", file, m)
		}
	}
	assertMeta("sprite.json", 16, 1)
	assertMeta("sprite@2x.json", 32, 2)

	if err := run(); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second run: expected already exists error, got %v", err)
	}
	if err := run("--ow"); err != nil {
		t.Fatalf("overwrite run: %v", err)
	}
}

func TestPreview_NothingToRender(t *testing.T) {
	ctx, _, tmpDir := setupPipelineEnv(t)
	dst := filepath.Join(tmpDir, "out")

	// a style without point rules previews to nothing when roads are excluded
	empty := filepath.Join(tmpDir, "empty.render.xml")
	if err := os.WriteFile(empty, []byte(`<renderingStyle name="empty"><line/></renderingStyle>`), 0644); err != nil {
		t.Fatalf("write style: %v", err)
	}

	cmd := &cli.Command{
		Name: "preview",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "what", Value: config.PipelinePoints.String()},
			&cli.IntFlag{Name: "size"},
			&cli.BoolFlag{Name: "overwrite"},
		},
		Action: Preview,
	}
	if err := cmd.Run(ctx, []string{"preview", empty, dst}); err != nil {
		t.Fatalf("preview run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "previews")); !os.IsNotExist(err) {
		t.Error("no preview directory should have been created")
	}
}
