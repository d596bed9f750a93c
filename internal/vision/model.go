package vision

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
)

// Model is a pre-converted classifier head in the IVML container: a stack of
// dense layers executed as a plain forward pass. The container declares the
// input size and normalization the exporter baked in, so the image codec and
// the model can never disagree about preprocessing.
//
// Layout (little-endian):
//
//	magic "IVML" | version u32 | inputSize u32 | channels u32 |
//	normalization u8 | layerCount u32 |
//	per layer: inDim u32 | outDim u32 | activation u8 |
//	           weights f32[inDim*outDim] (row-major) | bias f32[outDim]
type Model struct {
	inputSize     int
	normalization imaging.Normalization
	layers        []denseLayer
}

type denseLayer struct {
	inDim, outDim int
	activation    uint8
	weights       []float32 // weights[i*outDim+j] connects input i to output j
	bias          []float32
}

const (
	actLinear uint8 = iota
	actReLU
	actSoftmax
)

var ivmlMagic = [4]byte{'I', 'V', 'M', 'L'}

// LoadModel parses an IVML model file and validates its layer dimensions.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	defer f.Close()
	m, err := readModel(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	return m, nil
}

func readModel(r io.Reader) (*Model, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("reading magic: %v", err)
	}
	if magic != ivmlMagic {
		return nil, fmt.Errorf("bad magic %q", magic)
	}

	var header struct {
		Version   uint32
		InputSize uint32
		Channels  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	if header.Version != 1 {
		return nil, fmt.Errorf("unsupported version %d", header.Version)
	}
	if header.Channels != 3 {
		return nil, fmt.Errorf("expected 3 channels, got %d", header.Channels)
	}
	if header.InputSize == 0 || header.InputSize > 4096 {
		return nil, fmt.Errorf("implausible input size %d", header.InputSize)
	}

	var norm uint8
	if err := binary.Read(r, binary.LittleEndian, &norm); err != nil {
		return nil, fmt.Errorf("reading normalization: %v", err)
	}
	if norm > uint8(imaging.NormalizationCentered) {
		return nil, fmt.Errorf("unknown normalization %d", norm)
	}

	var layerCount uint32
	if err := binary.Read(r, binary.LittleEndian, &layerCount); err != nil {
		return nil, fmt.Errorf("reading layer count: %v", err)
	}
	if layerCount == 0 || layerCount > 64 {
		return nil, fmt.Errorf("implausible layer count %d", layerCount)
	}

	m := &Model{
		inputSize:     int(header.InputSize),
		normalization: imaging.Normalization(norm),
	}
	expectIn := m.inputSize * m.inputSize * 3
	for l := uint32(0); l < layerCount; l++ {
		var dims struct{ In, Out uint32 }
		if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
			return nil, fmt.Errorf("layer %d: reading dims: %v", l, err)
		}
		var activation uint8
		if err := binary.Read(r, binary.LittleEndian, &activation); err != nil {
			return nil, fmt.Errorf("layer %d: reading activation: %v", l, err)
		}
		if activation > actSoftmax {
			return nil, fmt.Errorf("layer %d: unknown activation %d", l, activation)
		}
		if int(dims.In) != expectIn {
			return nil, fmt.Errorf("layer %d: input dim %d, expected %d", l, dims.In, expectIn)
		}
		if dims.Out == 0 || dims.Out > 1<<16 {
			return nil, fmt.Errorf("layer %d: implausible output dim %d", l, dims.Out)
		}

		layer := denseLayer{
			inDim:      int(dims.In),
			outDim:     int(dims.Out),
			activation: activation,
			weights:    make([]float32, int(dims.In)*int(dims.Out)),
			bias:       make([]float32, dims.Out),
		}
		if err := binary.Read(r, binary.LittleEndian, &layer.weights); err != nil {
			return nil, fmt.Errorf("layer %d: reading weights: %v", l, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &layer.bias); err != nil {
			return nil, fmt.Errorf("layer %d: reading bias: %v", l, err)
		}
		m.layers = append(m.layers, layer)
		expectIn = layer.outDim
	}
	return m, nil
}

// InputSpec reports the tensor shape and normalization the model expects.
func (m *Model) InputSpec() imaging.InputSpec {
	return imaging.InputSpec{Size: m.inputSize, Normalization: m.normalization}
}

// OutputSize is the width of the final layer, i.e. the number of classes.
func (m *Model) OutputSize() int {
	return m.layers[len(m.layers)-1].outDim
}

// Forward runs one forward pass and returns the output vector.
func (m *Model) Forward(t *imaging.Tensor) ([]float32, error) {
	if len(t.Data) != m.inputSize*m.inputSize*3 {
		return nil, fmt.Errorf("%w: tensor has %d values, model expects %d",
			ErrInference, len(t.Data), m.inputSize*m.inputSize*3)
	}
	v := t.Data
	for _, layer := range m.layers {
		out := make([]float32, layer.outDim)
		copy(out, layer.bias)
		for i, x := range v {
			if x == 0 {
				continue
			}
			row := layer.weights[i*layer.outDim : (i+1)*layer.outDim]
			for j, w := range row {
				out[j] += x * w
			}
		}
		switch layer.activation {
		case actReLU:
			for j, x := range out {
				if x < 0 {
					out[j] = 0
				}
			}
		case actSoftmax:
			softmax(out)
		}
		v = out
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil, fmt.Errorf("%w: non-finite output", ErrInference)
		}
	}
	return v, nil
}

func softmax(v []float32) {
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	var sum float64
	for j, x := range v {
		e := math.Exp(float64(x - max))
		v[j] = float32(e)
		sum += e
	}
	for j := range v {
		v[j] = float32(float64(v[j]) / sum)
	}
}
