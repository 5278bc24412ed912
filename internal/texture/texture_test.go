package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	img := gradientImage(4, 2)
	tex := FromImage(img)

	if tex.Width != 4 || tex.Height != 2 || tex.Channels != 3 {
		t.Fatalf("dims = %dx%dx%d, want 4x2x3", tex.Width, tex.Height, tex.Channels)
	}
	if len(tex.Pix) != 4*2*3 {
		t.Fatalf("len(Pix) = %d, want %d", len(tex.Pix), 4*2*3)
	}

	r, g, b := tex.At(0, 0)
	if r != 0 || g != 0 || b != 128 {
		t.Errorf("At(0,0) = (%d,%d,%d), want (0,0,128)", r, g, b)
	}
	r, g, b = tex.At(3, 1)
	if r != 255 || g != 255 || b != 128 {
		t.Errorf("At(3,1) = (%d,%d,%d), want (255,255,128)", r, g, b)
	}
}

func TestFromImageGeneric(t *testing.T) {
	// Gray images take the slow conversion path.
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 200})
	tex := FromImage(img)

	r, g, b := tex.At(1, 1)
	if r != 200 || g != 200 || b != 200 {
		t.Errorf("At(1,1) = (%d,%d,%d), want (200,200,200)", r, g, b)
	}
	r, g, b = tex.At(0, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("At(0,0) = (%d,%d,%d), want (0,0,0)", r, g, b)
	}
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp png: %v", err)
	}
	if err := png.Encode(f, gradientImage(8, 4)); err != nil {
		t.Fatalf("encode temp png: %v", err)
	}
	f.Close()

	tex, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width != 8 || tex.Height != 4 {
		t.Errorf("loaded dims = %dx%d, want 8x4", tex.Width, tex.Height)
	}
	if _, _, b := tex.At(3, 2); b != 128 {
		t.Errorf("blue channel = %d, want 128", b)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFitToSeparation(t *testing.T) {
	tex := FromImage(gradientImage(64, 32))

	fitted := FitToSeparation(tex, 32)
	if fitted.Width != 32 {
		t.Errorf("fitted width = %d, want 32", fitted.Width)
	}
	if fitted.Height != 16 {
		t.Errorf("fitted height = %d, want 16 (aspect preserved)", fitted.Height)
	}

	if same := FitToSeparation(tex, 64); same != tex {
		t.Error("matching width should return the texture unchanged")
	}
	if same := FitToSeparation(tex, 0); same != tex {
		t.Error("zero separation should return the texture unchanged")
	}
}

func TestCacheSharesDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp png: %v", err)
	}
	if err := png.Encode(f, gradientImage(4, 4)); err != nil {
		t.Fatalf("encode temp png: %v", err)
	}
	f.Close()

	cache := NewCache()
	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("cache returned distinct textures for the same path")
	}
}

func TestCacheRemembersFailures(t *testing.T) {
	cache := NewCache()
	missing := filepath.Join(t.TempDir(), "gone.png")
	if _, err := cache.Load(missing); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := cache.Load(missing); err == nil {
		t.Error("cached failure should still report an error")
	}
}
