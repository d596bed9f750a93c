package registration

import "fmt"

// Step names the pipeline stage a failure happened in. The pipeline is
// terminal on first failure; later steps never run.
type Step string

const (
	StepDecode      Step = "decode"
	StepClassify    Step = "classify"
	StepUpload      Step = "upload"
	StepUpsert      Step = "upsert"
	StepRecordImage Step = "record_image"
)

// PipelineError wraps a step failure. UserFacing distinguishes
// caller-correctable failures (bad payload, unknown category) from internal
// ones; the HTTP boundary maps them to 400 and 500 respectively.
type PipelineError struct {
	Step       Step
	UserFacing bool
	Err        error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("registration failed at %s: %v", e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func userErr(step Step, err error) *PipelineError {
	return &PipelineError{Step: step, UserFacing: true, Err: err}
}

func internalErr(step Step, err error) *PipelineError {
	return &PipelineError{Step: step, UserFacing: false, Err: err}
}
