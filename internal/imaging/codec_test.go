package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_StripsDataURLHeader(t *testing.T) {
	raw := encodePNG(t, 4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	decoded, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("decoded bytes differ from original")
	}
}

func TestDecode_PlainBase64(t *testing.T) {
	raw := encodePNG(t, 4, 4, color.RGBA{A: 255})
	decoded, err := Decode(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("decoded bytes differ from original")
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode("!!not base64!!"); !errors.Is(err, ErrBadBase64) {
		t.Errorf("expected ErrBadBase64, got %v", err)
	}
}

func TestDecode_NotAnImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("just some text"))
	if _, err := Decode(payload); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}

func TestSniff(t *testing.T) {
	raw := encodePNG(t, 6, 9, color.RGBA{A: 255})
	w, h, ct, err := Sniff(raw)
	if err != nil {
		t.Fatalf("Sniff returned error: %v", err)
	}
	if w != 6 || h != 9 {
		t.Errorf("expected 6x9, got %dx%d", w, h)
	}
	if ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestToTensor_ShapeAndRange(t *testing.T) {
	tests := []struct {
		name     string
		norm     Normalization
		pixel    color.RGBA
		expected float32
	}{
		{"unit white", NormalizationUnit, color.RGBA{255, 255, 255, 255}, 1},
		{"unit black", NormalizationUnit, color.RGBA{0, 0, 0, 255}, 0},
		{"centered white", NormalizationCentered, color.RGBA{255, 255, 255, 255}, 1},
		{"centered black", NormalizationCentered, color.RGBA{0, 0, 0, 255}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := encodePNG(t, 32, 32, tt.pixel)
			tensor, err := ToTensor(raw, InputSpec{Size: 8, Normalization: tt.norm})
			if err != nil {
				t.Fatalf("ToTensor returned error: %v", err)
			}
			if tensor.H != 8 || tensor.W != 8 || len(tensor.Data) != 8*8*3 {
				t.Fatalf("unexpected tensor shape: H=%d W=%d len=%d", tensor.H, tensor.W, len(tensor.Data))
			}
			for i, v := range tensor.Data {
				if v != tt.expected {
					t.Fatalf("value %d: expected %v, got %v", i, tt.expected, v)
				}
			}
		})
	}
}

func TestToTensor_Deterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: uint8(x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	spec := InputSpec{Size: 8, Normalization: NormalizationCentered}
	a, err := ToTensor(buf.Bytes(), spec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ToTensor(buf.Bytes(), spec)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("tensor differs at %d: %v vs %v", i, a.Data[i], b.Data[i])
		}
	}
}

func TestToTensor_NotAnImage(t *testing.T) {
	if _, err := ToTensor([]byte("garbage"), InputSpec{Size: 8}); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}
