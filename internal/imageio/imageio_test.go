package imageio

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDepthToRGB(t *testing.T) {
	depth := []float64{0, 0.5, 1, -1, 2, math.NaN()}
	rgb := DepthToRGB(depth, 6, 1)

	want := []uint8{0, 128, 255, 0, 255, 0}
	for i, w := range want {
		for c := 0; c < 3; c++ {
			if got := rgb[i*3+c]; got != w {
				t.Errorf("pixel %d channel %d = %d, want %d", i, c, got, w)
			}
		}
	}
}

func TestToNRGBA(t *testing.T) {
	img := ToNRGBA([]uint8{10, 20, 30, 40, 50, 60}, 2, 1)
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("bounds = %v, want 2x1", img.Bounds())
	}
	r, g, b, a := img.NRGBAAt(1, 0).R, img.NRGBAAt(1, 0).G, img.NRGBAAt(1, 0).B, img.NRGBAAt(1, 0).A
	if r != 40 || g != 50 || b != 60 || a != 255 {
		t.Errorf("pixel (1,0) = (%d,%d,%d,%d), want (40,50,60,255)", r, g, b, a)
	}
}

func TestWriteRGBPNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	rgb := []uint8{255, 0, 0, 0, 255, 0, 0, 0, 255, 128, 128, 128}

	if err := WriteRGB(path, rgb, 2, 2); err != nil {
		t.Fatalf("WriteRGB: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", img.Bounds())
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("red channel at (0,0) = %d, want 255", r>>8)
	}
}

func TestWriteRGBWebPContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	rgb := make([]uint8, 4*4*3)
	for i := range rgb {
		rgb[i] = uint8(i * 11)
	}

	if err := WriteRGB(path, rgb, 4, 4); err != nil {
		t.Fatalf("WriteRGB: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) < 12 || !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Error("output is not a RIFF WEBP container")
	}
}

func TestWriteRGBCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.png")
	if err := WriteRGB(path, []uint8{1, 2, 3}, 1, 1); err != nil {
		t.Fatalf("WriteRGB: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}
}

func TestWriteRGBShortBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WriteRGB(path, []uint8{1, 2, 3}, 2, 2); err == nil {
		t.Error("short buffer should be rejected")
	}
}
