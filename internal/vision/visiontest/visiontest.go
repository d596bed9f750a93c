// Package visiontest builds small IVML model artifacts for tests.
package visiontest

import (
	"encoding/binary"
	"os"
	"strings"

	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
)

// Layer is one dense layer of a test model. Weights may be nil for all-zero
// weights, which makes the layer output equal its bias, handy for forcing a
// known output vector.
type Layer struct {
	In, Out    int
	Activation uint8 // 0 linear, 1 relu, 2 softmax
	Weights    []float32
	Bias       []float32
}

// WriteModel writes an IVML file with the given input size and layers.
func WriteModel(path string, inputSize int, norm imaging.Normalization, layers []Layer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte("IVML")); err != nil {
		return err
	}
	header := []uint32{1, uint32(inputSize), 3}
	for _, v := range header {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if err := binary.Write(f, binary.LittleEndian, uint8(norm)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(layers))); err != nil {
		return err
	}
	for _, l := range layers {
		if err := binary.Write(f, binary.LittleEndian, uint32(l.In)); err != nil {
			return err
		}
		if err := binary.Write(f, binary.LittleEndian, uint32(l.Out)); err != nil {
			return err
		}
		if err := binary.Write(f, binary.LittleEndian, l.Activation); err != nil {
			return err
		}
		weights := l.Weights
		if weights == nil {
			weights = make([]float32, l.In*l.Out)
		}
		if err := binary.Write(f, binary.LittleEndian, weights); err != nil {
			return err
		}
		bias := l.Bias
		if bias == nil {
			bias = make([]float32, l.Out)
		}
		if err := binary.Write(f, binary.LittleEndian, bias); err != nil {
			return err
		}
	}
	return nil
}

// WriteBiasModel writes a single-layer model whose output always equals the
// given bias vector, regardless of the image.
func WriteBiasModel(path string, inputSize int, norm imaging.Normalization, bias []float32) error {
	return WriteModel(path, inputSize, norm, []Layer{{
		In:   inputSize * inputSize * 3,
		Out:  len(bias),
		Bias: bias,
	}})
}

// WriteLabels writes a newline-delimited labels file.
func WriteLabels(path string, labels []string) error {
	return os.WriteFile(path, []byte(strings.Join(labels, "\n")+"\n"), 0o644)
}
