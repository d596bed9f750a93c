package vision

import "errors"

var (
	// ErrModelLoad is returned when the model file is missing or unparsable.
	ErrModelLoad = errors.New("model could not be loaded")
	// ErrLabelsMissing is returned when the labels file is missing or empty.
	ErrLabelsMissing = errors.New("labels file missing or empty")
	// ErrLabelCountMismatch is returned at load time when the number of label
	// lines does not match the model's output width.
	ErrLabelCountMismatch = errors.New("label count does not match model output size")
	// ErrInference is returned when a forward pass fails at runtime.
	ErrInference = errors.New("inference failed")
	// ErrModelUnavailable is returned by a Runtime whose model never loaded.
	ErrModelUnavailable = errors.New("classification model unavailable")
)
