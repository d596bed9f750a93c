package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrBadBase64 is returned when the payload is not valid base64.
	ErrBadBase64 = errors.New("payload is not valid base64")
	// ErrNotAnImage is returned when decoded bytes are not a JPEG or PNG.
	ErrNotAnImage = errors.New("payload is not a decodable image")
)

// Normalization selects the value range the tensor is scaled to. It must
// match what the model was exported with, so models declare it themselves.
type Normalization uint8

const (
	// NormalizationUnit rescales pixel values to [0, 1].
	NormalizationUnit Normalization = iota
	// NormalizationCentered rescales pixel values to [-1, 1]
	// (v/127.5 - 1, the MobileNetV2 convention).
	NormalizationCentered
)

// InputSpec describes the tensor a model expects: a [1, Size, Size, 3]
// float32 batch with the given normalization.
type InputSpec struct {
	Size          int
	Normalization Normalization
}

// Tensor is a [1, H, W, 3] float32 batch in row-major HWC order.
type Tensor struct {
	Data []float32
	H, W int
}

// Decode strips an optional "<header>;base64," prefix and base64-decodes the
// remainder. The result must begin a recognizable image container.
func Decode(payload string) ([]byte, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, ErrBadBase64
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, ErrNotAnImage
	}
	return data, nil
}

// Sniff reports the pixel dimensions and MIME type of an encoded image
// without a full decode.
func Sniff(data []byte) (width, height int, contentType string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", ErrNotAnImage
	}
	return cfg.Width, cfg.Height, "image/" + format, nil
}

// ToTensor decodes an image, resizes it to the model's square input size with
// Catmull-Rom resampling and scales values into the declared range. Catmull-Rom
// is fully deterministic, so the same bytes always yield the same tensor.
func ToTensor(data []byte, spec InputSpec) (*Tensor, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}

	size := spec.Size
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	t := &Tensor{Data: make([]float32, size*size*3), H: size, W: size}
	i := 0
	for y := 0; y < size; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+size*4]
		for x := 0; x < size; x++ {
			r := float32(row[x*4])
			g := float32(row[x*4+1])
			b := float32(row[x*4+2])
			switch spec.Normalization {
			case NormalizationCentered:
				t.Data[i] = r/127.5 - 1
				t.Data[i+1] = g/127.5 - 1
				t.Data[i+2] = b/127.5 - 1
			default:
				t.Data[i] = r / 255.0
				t.Data[i+1] = g / 255.0
				t.Data[i+2] = b / 255.0
			}
			i += 3
		}
	}
	return t, nil
}
