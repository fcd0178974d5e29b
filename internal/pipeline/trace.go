package pipeline

import (
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/render"
	"github.com/ChakriOriginals/MathVizAI/internal/sanitize"
)

// CodeSummary is the trace entry for generated code: enough to debug
// without carrying the full source text in every response.
type CodeSummary struct {
	EntryPoint string `json:"entry_point"`
	Lines      int    `json:"lines"`
	Fallback   bool   `json:"fallback"`
}

// Trace accumulates the completed stage outputs of one job, in order. It is
// append-only: a field is set exactly when its stage completed, so a failed
// or unreached stage never appears.
type Trace struct {
	ParsedContent     *model.ParsedContent       `json:"parsed_content,omitempty"`
	Concepts          *model.ConceptSet          `json:"concepts,omitempty"`
	PedagogyPlan      *model.PedagogyPlan        `json:"pedagogy_plan,omitempty"`
	SceneInstructions *model.SceneInstructionSet `json:"scene_instructions,omitempty"`
	Code              *CodeSummary               `json:"code,omitempty"`
	Render            *render.Outcome            `json:"render,omitempty"`

	// Non-fatal, self-healing annotations.
	Sanitization   *sanitize.Report `json:"sanitization,omitempty"`
	RepairFallback bool             `json:"repair_fallback,omitempty"`

	// Per-stage durations in milliseconds.
	StageTimings map[string]int64 `json:"stage_timings,omitempty"`
}

// ArtifactCount returns how many stage artifacts the trace holds.
func (t *Trace) ArtifactCount() int {
	n := 0
	if t.ParsedContent != nil {
		n++
	}
	if t.Concepts != nil {
		n++
	}
	if t.PedagogyPlan != nil {
		n++
	}
	if t.SceneInstructions != nil {
		n++
	}
	if t.Code != nil {
		n++
	}
	return n
}
