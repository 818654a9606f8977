package images

import "testing"

func TestRasterizeSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	t.Run("intrinsic", func(t *testing.T) {
		img, err := RasterizeSVG(svg, 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("scale_by_width", func(t *testing.T) {
		img, err := RasterizeSVG(svg, 200, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("scale_by_height", func(t *testing.T) {
		img, err := RasterizeSVG(svg, 0, 200)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 200 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("fit_box", func(t *testing.T) {
		img, err := RasterizeSVG(svg, 150, 150)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 150 || img.Bounds().Dy() != 75 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})
}

func TestRasterizeSVG_Content(t *testing.T) {
	// left half covered, right half empty
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="50" height="50"/></svg>`)

	img, err := RasterizeSVG(svg, 100, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, _, a := img.At(20, 25).RGBA(); a == 0 {
		t.Error("pixel inside the shape is transparent")
	}
	if _, _, _, a := img.At(80, 25).RGBA(); a != 0 {
		t.Error("pixel outside the shape is not transparent")
	}
}

func TestRasterizeSVG_ClampsHugeViewBox(t *testing.T) {
	old := maxRasterDim
	maxRasterDim = 64
	defer func() { maxRasterDim = old }()

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	// intrinsic 100x50 exceeds the clamp of 32, aspect ratio survives
	img, err := RasterizeSVG(svg, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestRasterizeSVG_NoViewBox(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`)

	img, err := RasterizeSVG(svg, 40, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// both dimensions fall back to the same default, so the box fit is exact
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 40 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestRasterizeSVG_BadInput(t *testing.T) {
	if _, err := RasterizeSVG([]byte("not svg at all"), 10, 10); err == nil {
		t.Error("Expected error for unparsable input, got nil")
	}
}
