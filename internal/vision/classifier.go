package vision

import (
	"fmt"

	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
)

// SentinelLabel is the reserved output for predictions whose confidence falls
// below the classifier threshold. It is distinct from any real class name so
// downstream writes never mislabel a product state on a weak guess.
const SentinelLabel = "UNCERTAIN"

// Result is one classification outcome. Label is SentinelLabel iff
// Confidence < the classifier threshold; Confidence always reports the true
// max output value either way.
type Result struct {
	Label      string  `json:"predicted_label"`
	Confidence float64 `json:"confidence"`
	Index      int     `json:"-"`
}

// Uncertain reports whether the prediction fell below the threshold.
func (r Result) Uncertain() bool { return r.Label == SentinelLabel }

// Classifier pairs a loaded model with its ordered labels and a confidence
// threshold. It is immutable after Load and safe for concurrent use.
type Classifier struct {
	model     *Model
	labels    []string
	threshold float64
}

// Load reads the model and labels files and verifies that the label count
// matches the model's output width. Mismatches fail here, not at first
// inference.
func Load(modelPath, labelsPath string, threshold float64) (*Classifier, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	labels, err := LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(labels) != model.OutputSize() {
		return nil, fmt.Errorf("%w: %d labels, model outputs %d",
			ErrLabelCountMismatch, len(labels), model.OutputSize())
	}
	return &Classifier{model: model, labels: labels, threshold: threshold}, nil
}

// InputSpec reports the tensor shape and normalization the model expects.
func (c *Classifier) InputSpec() imaging.InputSpec { return c.model.InputSpec() }

// Labels returns the ordered class names.
func (c *Classifier) Labels() []string { return c.labels }

// Classify runs one forward pass and takes the arg-max as the prediction.
// The threshold is inclusive: confidence >= threshold keeps the real label.
func (c *Classifier) Classify(t *imaging.Tensor) (Result, error) {
	out, err := c.model.Forward(t)
	if err != nil {
		return Result{}, err
	}
	idx := 0
	for j, x := range out {
		if x > out[idx] {
			idx = j
		}
	}
	res := Result{
		Label:      c.labels[idx],
		Confidence: float64(out[idx]),
		Index:      idx,
	}
	if res.Confidence < c.threshold {
		res.Label = SentinelLabel
	}
	return res, nil
}
