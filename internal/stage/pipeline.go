package stage

import (
	"context"

	"github.com/kernelforge/kernel/internal/graph"
)

// PipelineBuilder accumulates stage ids and dependency edges before Build
// validates them and produces an executable Pipeline.
type PipelineBuilder struct {
	name        string
	description string
	stageIDs    []string
	seen        map[string]bool
	edges       [][2]string
}

// NewPipelineBuilder starts a pipeline under the given name and
// description.
func NewPipelineBuilder(name, description string) *PipelineBuilder {
	return &PipelineBuilder{
		name:        name,
		description: description,
		seen:        make(map[string]bool),
	}
}

// AddStage adds a stage id to the pipeline. Idempotent.
func (b *PipelineBuilder) AddStage(id string) *PipelineBuilder {
	if !b.seen[id] {
		b.seen[id] = true
		b.stageIDs = append(b.stageIDs, id)
	}
	return b
}

// AddDependency records that the stage `from` depends on `to`.
func (b *PipelineBuilder) AddDependency(from, to string) *PipelineBuilder {
	b.edges = append(b.edges, [2]string{from, to})
	return b
}

// Build validates the accumulated stages and dependency edges and produces
// an executable Pipeline. Every edge endpoint must refer to an added stage
// id (else ErrUnknownDependency); the resulting graph must be acyclic (else
// ErrCycle).
func (b *PipelineBuilder) Build() (*Pipeline, error) {
	g := graph.New()
	for _, id := range b.stageIDs {
		g.AddNode(id, false, false)
	}

	for _, edge := range b.edges {
		from, to := edge[0], edge[1]
		if !b.seen[from] {
			return nil, ErrUnknownDependency{ID: from}
		}
		if !b.seen[to] {
			return nil, ErrUnknownDependency{ID: to}
		}
		if err := g.AddEdge(from, to); err != nil {
			return nil, ErrUnknownDependency{ID: from}
		}
	}

	if cycle := g.DetectCycles(); cycle != nil {
		return nil, ErrCycle{Path: cycle}
	}

	return &Pipeline{
		name:        b.name,
		description: b.description,
		stageIDs:    append([]string(nil), b.stageIDs...),
		graph:       g,
	}, nil
}

// Pipeline is a validated, orderable set of stage ids and dependency
// edges, ready to execute against a stage registry.
type Pipeline struct {
	name        string
	description string
	stageIDs    []string
	graph       *graph.Graph
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// Description returns the pipeline's description.
func (p *Pipeline) Description() string { return p.description }

// StageIDs returns the stage ids added to the pipeline, in the order they
// were added (not execution order).
func (p *Pipeline) StageIDs() []string {
	return append([]string(nil), p.stageIDs...)
}

// Order computes the topological order the pipeline would execute in,
// without running anything. Used both to drive Execute and to report the
// order a DryRun would have taken.
func (p *Pipeline) Order() ([]string, error) {
	return p.graph.TopoSort()
}

// Execute rejects if any added stage id is not present in registry;
// otherwise computes the topological order and runs each stage via the
// registry under ctx in that order. On Failure it aborts the pipeline and
// returns ErrPipelineFailed wrapping the inner error. In DryRun mode no
// stage has side effects; the pipeline still validates and returns the
// order it would have executed.
func (p *Pipeline) Execute(ctx context.Context, registry *Registry, stageCtx *Context) ([]string, error) {
	for _, id := range p.stageIDs {
		if !registry.Contains(id) {
			return nil, ErrUnknownStage{ID: id}
		}
	}

	order, err := p.Order()
	if err != nil {
		return nil, err
	}

	for _, id := range order {
		outcome := registry.Execute(ctx, id, stageCtx)
		if outcome.Status == Failure {
			return nil, ErrPipelineFailed{PipelineName: p.name, StageID: id, Cause: outcome.Err}
		}
	}
	return order, nil
}
