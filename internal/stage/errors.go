package stage

import "fmt"

// ErrAlreadyRegistered is returned by Registry.Register when the stage id
// is already bound.
type ErrAlreadyRegistered struct {
	ID string
}

func (e ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("stage registry: stage %q is already registered", e.ID)
}

// ErrUnknownStage is returned when a stage id has no bound stage, either at
// registry lookup time or during pipeline execution.
type ErrUnknownStage struct {
	ID string
}

func (e ErrUnknownStage) Error() string {
	return fmt.Sprintf("stage registry: unknown stage %q", e.ID)
}

// ErrUnknownDependency is returned by the pipeline builder when a
// dependency edge references a stage id that was never added to the
// pipeline.
type ErrUnknownDependency struct {
	ID string
}

func (e ErrUnknownDependency) Error() string {
	return fmt.Sprintf("stage pipeline: dependency references unknown stage %q", e.ID)
}

// ErrCycle is returned by the pipeline builder when the added stages and
// their dependency edges form a cycle.
type ErrCycle struct {
	Path []string
}

func (e ErrCycle) Error() string {
	return fmt.Sprintf("stage pipeline: cycle detected: %v", e.Path)
}

// ErrPipelineFailed wraps the error a stage returned during pipeline
// execution, identifying which stage failed.
type ErrPipelineFailed struct {
	PipelineName string
	StageID      string
	Cause        error
}

func (e ErrPipelineFailed) Error() string {
	return fmt.Sprintf("pipeline %q: stage %q failed: %v", e.PipelineName, e.StageID, e.Cause)
}

func (e ErrPipelineFailed) Unwrap() error { return e.Cause }
