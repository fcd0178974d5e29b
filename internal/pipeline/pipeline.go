// Package pipeline sequences the generation stages, inserts the
// sanitization and repair steps, short-circuits on the first failure, and
// hands the surviving code artifact to the render manager.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChakriOriginals/MathVizAI/internal/mathcheck"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/render"
	"github.com/ChakriOriginals/MathVizAI/internal/repair"
	"github.com/ChakriOriginals/MathVizAI/internal/sanitize"
	"github.com/ChakriOriginals/MathVizAI/internal/stage"
)

// Failure wraps a stage error with the stage that produced it, making
// "which stage failed" a first-class inspectable value.
type Failure struct {
	Stage stage.Name
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Renderer is the render-process collaborator contract.
type Renderer interface {
	Render(ctx context.Context, code model.GeneratedCode, jobID string) render.Outcome
}

// Response is the job-facing result of one pipeline execution.
type Response struct {
	JobID        string `json:"job_id"`
	Status       string `json:"status"` // "success" | "failed"
	ArtifactPath string `json:"video_path,omitempty"`
	Error        string `json:"error,omitempty"`
	Trace        *Trace `json:"pipeline_trace,omitempty"`
}

// DefaultDifficulty is used when a request does not name a level.
const DefaultDifficulty = "undergraduate"

// Orchestrator runs jobs through the stage sequence. All collaborators are
// injected at construction; there is no ambient global state.
type Orchestrator struct {
	stages    *stage.Runner
	equations mathcheck.EquationFilter
	renderer  Renderer
	events    *EventBus
}

// New creates an orchestrator. A nil equation filter degrades to keeping
// every equation; a nil event bus disables event publication.
func New(stages *stage.Runner, equations mathcheck.EquationFilter, renderer Renderer, events *EventBus) *Orchestrator {
	if events == nil {
		events = NewEventBus()
	}
	return &Orchestrator{
		stages:    stages,
		equations: equations,
		renderer:  renderer,
		events:    events,
	}
}

// Events returns the orchestrator's event bus.
func (o *Orchestrator) Events() *EventBus { return o.events }

// Run executes the full pipeline for one job, synchronously. Stages run
// strictly in order and a later stage never executes until its predecessor
// succeeded.
func (o *Orchestrator) Run(ctx context.Context, rawText, difficulty, jobID string) Response {
	if jobID == "" {
		jobID = uuid.New().String()
	}
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	trace := &Trace{StageTimings: make(map[string]int64)}
	log.Printf("pipeline: start job_id=%s difficulty=%s input_len=%d", jobID, difficulty, len(rawText))

	fail := func(st stage.Name, err error) Response {
		failure := &Failure{Stage: st, Err: err}
		log.Printf("pipeline: job %s failed at %s: %v", jobID, st, err)
		o.events.Publish(Event{Type: EventStageFailed, JobID: jobID, Data: map[string]string{
			"stage": string(st), "error": err.Error(),
		}})
		o.events.Publish(Event{Type: EventJobFailed, JobID: jobID})
		return Response{JobID: jobID, Status: "failed", Error: failure.Error(), Trace: trace}
	}

	// Parsing
	parsed, err := runStage(o, jobID, trace, stage.Parsing, func() (model.ParsedContent, error) {
		return o.stages.Parse(ctx, rawText, difficulty)
	})
	if err != nil {
		return fail(stage.Parsing, err)
	}
	trace.ParsedContent = &parsed

	// ExtractingConcepts
	concepts, err := runStage(o, jobID, trace, stage.ExtractingConcepts, func() (model.ConceptSet, error) {
		return o.stages.Concepts(ctx, parsed, difficulty)
	})
	if err != nil {
		return fail(stage.ExtractingConcepts, err)
	}
	trace.Concepts = &concepts

	// PlanningPedagogy
	plan, err := runStage(o, jobID, trace, stage.PlanningPedagogy, func() (model.PedagogyPlan, error) {
		return o.stages.Pedagogy(ctx, concepts, difficulty)
	})
	if err != nil {
		return fail(stage.PlanningPedagogy, err)
	}

	// Equation filtering between planning and instruction generation. This
	// step cannot fail the pipeline; it only shrinks data.
	if o.equations != nil {
		for i := range plan.Scenes {
			if len(plan.Scenes[i].EquationsToShow) > 0 {
				plan.Scenes[i].EquationsToShow = o.equations.FilterValid(plan.Scenes[i].EquationsToShow)
			}
		}
	}
	trace.PedagogyPlan = &plan

	// GeneratingInstructions
	instructions, err := runStage(o, jobID, trace, stage.GeneratingInstructions, func() (model.SceneInstructionSet, error) {
		return o.stages.Instructions(ctx, plan)
	})
	if err != nil {
		return fail(stage.GeneratingInstructions, err)
	}

	// Sanitization runs unconditionally on every instruction set.
	sanitized, report := sanitize.Apply(instructions)
	if report.Total() > 0 {
		trace.Sanitization = &report
		o.events.Publish(Event{Type: EventSanitizeCorrection, JobID: jobID, Data: report})
	}
	trace.SceneInstructions = &sanitized

	// GeneratingCode
	code, err := runStage(o, jobID, trace, stage.GeneratingCode, func() (model.GeneratedCode, error) {
		return o.stages.Code(ctx, sanitized, plan)
	})
	if err != nil {
		return fail(stage.GeneratingCode, err)
	}

	// Repair runs unconditionally before validity is asserted. The gate is
	// fail-safe: broken output becomes the fallback scene, never an error.
	repaired, fellBack := repair.Repair(code.SourceText)
	code.SourceText = repaired
	if fellBack {
		trace.RepairFallback = true
		o.events.Publish(Event{Type: EventRepairFallback, JobID: jobID})
	}
	trace.Code = &CodeSummary{
		EntryPoint: code.ResolveEntryPoint(),
		Lines:      len(strings.Split(strings.TrimSpace(code.SourceText), "\n")),
		Fallback:   fellBack,
	}

	// Rendering
	o.events.Publish(Event{Type: EventStageStarted, JobID: jobID, Data: map[string]string{"stage": string(stage.Rendering)}})
	start := time.Now()
	outcome := o.renderer.Render(ctx, code, jobID)
	trace.StageTimings[string(stage.Rendering)] = time.Since(start).Milliseconds()
	trace.Render = &outcome

	if !outcome.OK() {
		log.Printf("pipeline: job %s render failed (%s)", jobID, outcome.Kind)
		o.events.Publish(Event{Type: EventRenderFailed, JobID: jobID, Data: outcome})
		o.events.Publish(Event{Type: EventJobFailed, JobID: jobID})
		return Response{
			JobID:  jobID,
			Status: "failed",
			Error:  fmt.Sprintf("%s: %s: %s", stage.Rendering, outcome.Kind, outcome.Log),
			Trace:  trace,
		}
	}

	o.events.Publish(Event{Type: EventRenderCompleted, JobID: jobID, Data: outcome})
	o.events.Publish(Event{Type: EventJobCompleted, JobID: jobID})
	log.Printf("pipeline: job %s complete, artifact %s", jobID, outcome.ArtifactPath)
	return Response{
		JobID:        jobID,
		Status:       "success",
		ArtifactPath: outcome.ArtifactPath,
		Trace:        trace,
	}
}

// runStage executes one stage function with start/complete events and
// timing capture.
func runStage[T any](o *Orchestrator, jobID string, trace *Trace, name stage.Name, fn func() (T, error)) (T, error) {
	o.events.Publish(Event{Type: EventStageStarted, JobID: jobID, Data: map[string]string{"stage": string(name)}})
	start := time.Now()
	result, err := fn()
	trace.StageTimings[string(name)] = time.Since(start).Milliseconds()
	if err == nil {
		o.events.Publish(Event{Type: EventStageCompleted, JobID: jobID, Data: map[string]string{"stage": string(name)}})
	}
	return result, err
}
