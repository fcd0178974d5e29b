// Package stage implements the five generation stages. Each stage is a
// pure mapping from the previous artifact to the next, built on the
// structured-generation client; post-processing (sanitization, repair) is
// sequenced by the orchestrator, not here.
package stage

import (
	"github.com/ChakriOriginals/MathVizAI/internal/config"
	"github.com/ChakriOriginals/MathVizAI/internal/llm"
)

// Name identifies a pipeline stage.
type Name string

const (
	Parsing                Name = "parsing"
	ExtractingConcepts     Name = "extracting_concepts"
	PlanningPedagogy       Name = "planning_pedagogy"
	GeneratingInstructions Name = "generating_instructions"
	GeneratingCode         Name = "generating_code"
	Rendering              Name = "rendering"
)

// Runner binds the generation client and content limits shared by every
// stage.
type Runner struct {
	Client     *llm.Client
	Limits     config.Pipeline
	MaxRetries int
}

// NewRunner creates a stage runner.
func NewRunner(client *llm.Client, limits config.Pipeline, maxRetries int) *Runner {
	return &Runner{Client: client, Limits: limits, MaxRetries: maxRetries}
}
