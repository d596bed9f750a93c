package vision

import (
	"fmt"

	"github.com/rogerio-castellano/inventory-vision/internal/imaging"
)

// Status is the explicit availability of the classification model. The
// process keeps serving with an unavailable model; requests that need it get
// ErrModelUnavailable and readiness reports the load failure, instead of the
// load error hiding behind a nil global.
type Status int

const (
	StatusReady Status = iota
	StatusUnavailable
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "unavailable"
}

// Runtime wraps a Classifier together with its load outcome. Immutable after
// construction and safe for concurrent use.
type Runtime struct {
	clf    *Classifier
	status Status
	reason string
}

// NewRuntime attempts to load a classifier and records the outcome instead of
// failing the caller.
func NewRuntime(modelPath, labelsPath string, threshold float64) *Runtime {
	clf, err := Load(modelPath, labelsPath, threshold)
	if err != nil {
		return &Runtime{status: StatusUnavailable, reason: err.Error()}
	}
	return &Runtime{clf: clf, status: StatusReady}
}

// ReadyRuntime wraps an already-loaded classifier; used by tests.
func ReadyRuntime(clf *Classifier) *Runtime {
	return &Runtime{clf: clf, status: StatusReady}
}

// Status reports the availability state and, when unavailable, the reason.
func (r *Runtime) Status() (Status, string) { return r.status, r.reason }

// InputSpec reports the loaded model's input contract.
func (r *Runtime) InputSpec() (imaging.InputSpec, error) {
	if r.status != StatusReady {
		return imaging.InputSpec{}, fmt.Errorf("%w: %s", ErrModelUnavailable, r.reason)
	}
	return r.clf.InputSpec(), nil
}

// Classify delegates to the loaded classifier, or fails with
// ErrModelUnavailable when the model never loaded.
func (r *Runtime) Classify(t *imaging.Tensor) (Result, error) {
	if r.status != StatusReady {
		return Result{}, fmt.Errorf("%w: %s", ErrModelUnavailable, r.reason)
	}
	return r.clf.Classify(t)
}
